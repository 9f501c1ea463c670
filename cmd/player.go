package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HIM049/the-player/pkg/core"
	"github.com/HIM049/the-player/pkg/types"

	"github.com/drgolem/go-portaudio/portaudio"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	playDeviceIdx       int
	playRingCapacity    uint64
	playFramesPerBuffer int
	playGain            float64
	showVersion         bool
)

// playerCmd plays a single audio file and reports progress until it
// finishes, errors, or is interrupted.
var playerCmd = &cobra.Command{
	Use:   "play <audio_file>",
	Short: "Play an audio file (MP3, FLAC, Ogg Vorbis, WAV)",
	Long: `Play an audio file through the default output device, reporting progress
until it finishes, errors, or Ctrl-C is pressed.

Examples:
  the-player play music.mp3
  the-player play -d 0 music.flac
  the-player play --gain 0.3 audio.ogg`,
	Args: cobra.ExactArgs(1),
	Run:  runPlayer,
}

func init() {
	rootCmd.AddCommand(playerCmd)

	playerCmd.Flags().IntVarP(&playDeviceIdx, "device", "d", -1, "Audio output device index (-1 = default)")
	playerCmd.Flags().Uint64VarP(&playRingCapacity, "capacity", "c", 48000, "Sample ring capacity (samples)")
	playerCmd.Flags().IntVarP(&playFramesPerBuffer, "frames", "f", 1024, "PortAudio frames per buffer")
	playerCmd.Flags().Float64VarP(&playGain, "gain", "g", 0.5, "Initial playback gain, 0.0-1.0")
	playerCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
}

func runPlayer(cmd *cobra.Command, args []string) {
	if showVersion {
		fmt.Printf("the-player v%s\n", version)
		os.Exit(0)
	}

	fileName := args[0]
	if _, err := os.Stat(fileName); os.IsNotExist(err) {
		slog.Error("file not found", "path", fileName)
		os.Exit(1)
	}

	deviceIdx := playDeviceIdx
	capacity := playRingCapacity
	framesPerBuffer := playFramesPerBuffer
	gain := playGain
	if cfg != nil {
		if !cmd.Flags().Changed("device") {
			deviceIdx = cfg.Audio.OutputDevice
		}
		if !cmd.Flags().Changed("capacity") {
			capacity = uint64(cfg.Audio.RingCapacity)
		}
		if !cmd.Flags().Changed("frames") {
			framesPerBuffer = cfg.Audio.FramesPerBuffer
		}
		if !cmd.Flags().Changed("gain") {
			gain = cfg.Audio.DefaultGain
		}
	}

	slog.Info("initializing portaudio")
	if err := portaudio.Initialize(); err != nil {
		slog.Error("failed to initialize portaudio", "error", err)
		os.Exit(1)
	}
	defer portaudio.Terminate()
	slog.Info("portaudio initialized", "version", portaudio.GetVersion())

	c := core.New(core.Options{
		DeviceIndex:     deviceIdx,
		RingCapacity:    capacity,
		FramesPerBuffer: framesPerBuffer,
	})
	c.SetGain(float32(gain))

	slog.Info("opening file", "path", fileName)
	if err := c.Append(fileName); err != nil {
		slog.Error("failed to play file", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	progressDone := make(chan struct{})
	go reportProgress(c, progressDone)

	finished := make(chan struct{})
	go func() {
		for ev := range c.Events() {
			if ev == types.EventPlayFinished {
				close(finished)
				return
			}
		}
	}()

	select {
	case <-finished:
		slog.Info("playback completed")
	case sig := <-sigChan:
		slog.Info("signal received, stopping playback", "signal", sig)
	}

	close(progressDone)
	if err := c.Stop(); err != nil {
		slog.Error("failed to stop", "error", err)
	}
	slog.Info("exiting")
}

// reportProgress logs played/duration every two seconds, in the teacher's
// hh:mm:ss status-line idiom.
func reportProgress(c *core.Core, done chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p := c.Player()
			if p == nil {
				continue
			}
			pt := p.PlayTime()
			slog.Info("playback status",
				"played", formatHMS(pt.PlayedSec()),
				"duration", formatHMS(pt.DurationSec()),
				"state", c.State().String())
		case <-done:
			return
		}
	}
}

func formatHMS(totalSec uint64) string {
	h := totalSec / 3600
	m := (totalSec % 3600) / 60
	s := totalSec % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
