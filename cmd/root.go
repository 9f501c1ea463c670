package cmd

import (
	"log/slog"
	"os"

	"github.com/HIM049/the-player/pkg/config"

	"github.com/spf13/cobra"
)

var cfg *config.Config

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "the-player",
	Short: "Audio playback core for a local desktop music player",
	Long: `the-player drives a platform audio output device with correctly-timed,
correctly-rated PCM samples decoded from a file on disk, under user control
(play, pause, stop, seek, volume).

Commands:
  - play: play a single file and report progress until it finishes
  - playlist: play several files back to back
  - transform: one-shot sample-rate/format conversion utility`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		level := slog.LevelInfo
		if cfg.LogLevel == "debug" {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
