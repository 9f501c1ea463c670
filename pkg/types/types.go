package types

import (
	"errors"
	"time"
)

// AudioDecoder is the common interface for all audio decoders (MP3, FLAC, WAV).
// All decoders must implement these methods to provide a consistent API
// for decoding audio files into raw PCM samples.
type AudioDecoder interface {
	// Open opens an audio file for decoding
	Open(fileName string) error

	// Close closes the decoder and releases resources
	Close() error

	// GetFormat returns the audio format information
	// Returns: sample rate (Hz), channels (1=mono, 2=stereo), bits per sample (8/16/24/32)
	GetFormat() (rate, channels, bitsPerSample int)

	// DecodeSamples decodes audio samples into the provided buffer
	// Parameters:
	//   samples: number of samples to decode (not bytes!)
	//   audio: buffer to write decoded audio data
	// Returns: number of samples actually decoded, error if decoding failed
	// Note: Buffer must be large enough: samples * channels * (bitsPerSample/8) bytes
	DecodeSamples(samples int, audio []byte) (int, error)
}

// PlaybackStatus holds unified playback information for audio players.
// This struct provides real-time metrics for monitoring audio playback.
type PlaybackStatus struct {
	FileName        string        // Name of the currently playing file
	SampleRate      int           // Audio sample rate in Hz (e.g., 44100, 48000)
	Channels        int           // Number of audio channels (1=mono, 2=stereo)
	BitsPerSample   int           // Bit depth (8, 16, 24, or 32)
	FramesPerBuffer int           // PortAudio frames per buffer (if applicable)
	PlayedSamples   uint64        // Samples actually sent to audio output (played)
	BufferedSamples uint64        // Samples decoded but not yet played (in-flight)
	ElapsedTime     time.Duration // Wall-clock time since playback started
}

// PlaybackMonitor is an interface for types that can report playback status.
// Implementing this interface allows consistent status monitoring across
// different player implementations.
type PlaybackMonitor interface {
	GetPlaybackStatus() PlaybackStatus
}

// Ringbuffer errors for short writes and reads, comparable with errors.Is().
// pkg/ring does not return them: its PushSlice and PopSlice report partial
// transfers as counts.
var (
	// ErrInsufficientSpace indicates the ringbuffer doesn't have enough space for the write operation
	ErrInsufficientSpace = errors.New("insufficient space in ringbuffer")

	// ErrInsufficientData indicates the ringbuffer doesn't have enough data for the read operation
	ErrInsufficientData = errors.New("insufficient data in ringbuffer")
)

// TimeBase is a rational ticks-per-second conversion factor, copied from
// codec parameters. Calc converts a frame count to seconds+fraction.
type TimeBase struct {
	Numerator   uint32
	Denominator uint32
}

// Calc converts frames to a (seconds, fractional-seconds) pair.
func (tb TimeBase) Calc(frames uint64) (seconds uint64, frac float64) {
	if tb.Denominator == 0 {
		return 0, 0
	}
	totalSec := float64(frames) * float64(tb.Numerator) / float64(tb.Denominator)
	seconds = uint64(totalSec)
	frac = totalSec - float64(seconds)
	return seconds, frac
}

// TrackMeta holds the immutable per-track parameters needed to compute
// playback position and to build a matching resampler/output stream.
type TrackMeta struct {
	TimeBase      TimeBase
	NFrames       uint64 // 0 if unknown
	Channels      int
	SrcSampleRate int
	DstSampleRate int // filled in once the OutputSink has chosen a device rate
}

// DurationSec returns the track's total duration in seconds, 0 if NFrames is
// unknown (e.g. streamed sources).
func (m TrackMeta) DurationSec() uint64 {
	sec, _ := m.TimeBase.Calc(m.NFrames)
	return sec
}

// PlayState mirrors the playback lifecycle for UI queries. The authoritative
// source of truth for the service loop is always Controller.State(), not
// this mirror.
type PlayState int

const (
	StateStopped PlayState = iota
	StatePlaying
	StatePaused
)

func (s PlayState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

// Event is emitted by the Service thread to the UI-facing receiver.
type Event int

const (
	// EventPlaytimeRefresh is sent at most every 100ms while Playing.
	EventPlaytimeRefresh Event = iota
	// EventPlayFinished is sent once per track when decoding has reached
	// end-of-stream and the ring has fully drained.
	EventPlayFinished
)

func (e Event) String() string {
	switch e {
	case EventPlaytimeRefresh:
		return "playtime_refresh"
	case EventPlayFinished:
		return "play_finished"
	default:
		return "unknown_event"
	}
}

// Error taxonomy kinds from the error handling design: these are sentinel
// values, wrapped with fmt.Errorf("...: %w", ...) at the call site so
// errors.Is still matches the kind after wrapping.
var (
	ErrOpen     = errors.New("open error")
	ErrCodec    = errors.New("codec error")
	ErrSink     = errors.New("sink error")
	ErrResample = errors.New("resample error")
	ErrSeek     = errors.New("seek error")
	ErrChannel  = errors.New("channel send error")
)
