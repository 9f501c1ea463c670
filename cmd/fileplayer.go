package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/HIM049/the-player/pkg/core"
	"github.com/HIM049/the-player/pkg/types"

	"github.com/drgolem/go-portaudio/portaudio"
	"github.com/spf13/cobra"
)

var (
	playlistDeviceIdx       int
	playlistRingCapacity    uint64
	playlistFramesPerBuffer int
	playlistGain            float64
)

// playlistCmd plays multiple audio files one after another, closing and
// reopening the pipeline between files.
var playlistCmd = &cobra.Command{
	Use:   "playlist <audio_file> [audio_file...]",
	Short: "Play multiple audio files sequentially",
	Long: `Play a list of audio files one after another, through the default output
device, building a fresh pipeline for each file in turn.

Examples:
  the-player playlist song1.mp3 song2.flac song3.wav
  the-player playlist -d 0 music/*.ogg`,
	Args: cobra.MinimumNArgs(1),
	Run:  runPlaylist,
}

func init() {
	rootCmd.AddCommand(playlistCmd)

	playlistCmd.Flags().IntVarP(&playlistDeviceIdx, "device", "d", -1, "Audio output device index (-1 = default)")
	playlistCmd.Flags().Uint64VarP(&playlistRingCapacity, "capacity", "c", 48000, "Sample ring capacity (samples)")
	playlistCmd.Flags().IntVarP(&playlistFramesPerBuffer, "frames", "p", 1024, "PortAudio frames per buffer")
	playlistCmd.Flags().Float64VarP(&playlistGain, "gain", "g", 0.5, "Playback gain, 0.0-1.0")
}

func runPlaylist(cmd *cobra.Command, args []string) {
	files := args

	slog.Info("initializing portaudio")
	if err := portaudio.Initialize(); err != nil {
		slog.Error("failed to initialize portaudio", "error", err)
		os.Exit(1)
	}
	defer portaudio.Terminate()
	slog.Info("portaudio initialized", "version", portaudio.GetVersion(), "file_count", len(files))

	c := core.New(core.Options{
		DeviceIndex:     playlistDeviceIdx,
		RingCapacity:    playlistRingCapacity,
		FramesPerBuffer: playlistFramesPerBuffer,
	})
	c.SetGain(float32(playlistGain))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	interrupted := false
	for i, fileName := range files {
		if interrupted {
			break
		}

		slog.Info("playing file", "index", i+1, "total", len(files), "file", fileName)

		if err := c.Append(fileName); err != nil {
			slog.Error("failed to play file", "file", fileName, "error", err)
			continue
		}

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
			slog.Info("file completed", "file", fileName)
		case sig := <-sigChan:
			slog.Info("signal received, stopping", "signal", sig)
			interrupted = true
		}

		if err := c.Stop(); err != nil {
			slog.Error("failed to stop", "error", err)
		}
	}

	if interrupted {
		slog.Info("playback interrupted")
	} else {
		slog.Info("all files completed", "total", len(files))
	}
	slog.Info("exiting")
}
