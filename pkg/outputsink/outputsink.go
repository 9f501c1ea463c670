// Package outputsink owns the PortAudio device stream. Its real-time
// callback pulls from a SampleRing, applies gain, and writes the callback
// slice; it must never allocate, lock, or block.
package outputsink

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/HIM049/the-player/pkg/ring"
	"github.com/HIM049/the-player/pkg/types"

	"github.com/drgolem/go-portaudio/portaudio"
)

// OccupiedSetter receives live ring-occupancy updates from the callback.
// *playtime.PlayTime implements this; the callback never imports playtime
// directly, keeping the dependency direction (player -> outputsink) intact.
type OccupiedSetter interface {
	SetOccupied(samples uint64)
}

// Sink opens the default host device at a chosen rate and drives it from a
// SampleRing via a real-time callback.
//
// The pipeline upstream of the device boundary is f32 throughout, per spec.
// No float32 PortAudio sample-format constant is exercised anywhere in the
// dependency's own usage in this codebase (only SampleFmtInt16/24/32 ever
// appear), so the callback converts f32 -> int16 only at the final
// device-write boundary, matching the most common of those proven formats
// rather than inventing an unproven one.
type Sink struct {
	stream   *portaudio.PaStream
	ring     *ring.Ring
	channels int
	dstRate  int

	gain    *atomic.Uint32 // bit-pattern of a float32 in [0,1]
	scratch []float32

	occupiedOut OccupiedSetter // PlayTime.occupied_len, updated every callback tick
}

// Config bundles the parameters needed to open the device stream.
type Config struct {
	DeviceIndex     int
	Channels        int
	SrcSampleRate   int
	FramesPerBuffer int
	Ring            *ring.Ring
	Gain            *atomic.Uint32
	OccupiedOut     OccupiedSetter
}

// fallbackSampleRate is tried when the device refuses to open at the
// source's native rate — e.g. a fixed-rate device that only accepts 44.1kHz.
const fallbackSampleRate = 44100

// Open builds the stream at the configuration policy: try the source rate
// first; if that fails, retry once at fallbackSampleRate. The sink records
// whatever rate it actually opened with as dst_rate. The go-portaudio
// binding exposed by this dependency set has no proven device-enumeration
// surface, so Open probes by attempting to open rather than querying
// supported_output_configs.
func Open(cfg Config) (*Sink, error) {
	s := &Sink{
		ring:        cfg.Ring,
		channels:    cfg.Channels,
		gain:        cfg.Gain,
		occupiedOut: cfg.OccupiedOut,
		scratch:     make([]float32, cfg.FramesPerBuffer*cfg.Channels),
	}

	rate := cfg.SrcSampleRate
	stream, err := s.openAt(cfg, rate)
	if err != nil && rate != fallbackSampleRate {
		rate = fallbackSampleRate
		stream, err = s.openAt(cfg, rate)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open callback: %v", types.ErrSink, err)
	}

	s.stream = stream
	s.dstRate = rate
	return s, nil
}

// openAt attempts to build and open the stream at the given sample rate,
// returning the stream on success without mutating s's recorded dstRate.
func (s *Sink) openAt(cfg Config, rate int) (*portaudio.PaStream, error) {
	stream := &portaudio.PaStream{
		OutputParameters: &portaudio.PaStreamParameters{
			DeviceIndex:  cfg.DeviceIndex,
			ChannelCount: cfg.Channels,
			SampleFormat: portaudio.SampleFmtInt16,
		},
		SampleRate: float64(rate),
	}
	if err := stream.OpenCallback(cfg.FramesPerBuffer, s.audioCallback); err != nil {
		return nil, err
	}
	return stream, nil
}

// DstSampleRate returns the device rate the stream was actually opened at.
func (s *Sink) DstSampleRate() int { return s.dstRate }

// Play starts the device stream.
func (s *Sink) Play() error {
	if err := s.stream.StartStream(); err != nil {
		return fmt.Errorf("%w: start stream: %v", types.ErrSink, err)
	}
	return nil
}

// Pause stops the device stream without closing it. Per the concurrency
// model, callers must pause the sink before flipping the controller to
// Paused/Stopped so the callback does not drain the ring while the service
// thread has suspended.
func (s *Sink) Pause() error {
	if err := s.stream.StopStream(); err != nil {
		return fmt.Errorf("%w: stop stream: %v", types.ErrSink, err)
	}
	return nil
}

// Close tears down the stream entirely.
func (s *Sink) Close() error {
	if err := s.stream.CloseCallback(); err != nil {
		return fmt.Errorf("%w: close callback: %v", types.ErrSink, err)
	}
	return nil
}

// audioCallback is the real-time consumer: pop from the ring, apply gain,
// write int16 samples into output, zero-fill any tail. It must not
// allocate, lock, or call blocking primitives.
func (s *Sink) audioCallback(
	input, output []byte,
	frameCount uint,
	timeInfo *portaudio.StreamCallbackTimeInfo,
	statusFlags portaudio.StreamCallbackFlags,
) portaudio.StreamCallbackResult {
	needSamples := int(frameCount) * s.channels
	if cap(s.scratch) < needSamples {
		needSamples = cap(s.scratch)
	}
	buf := s.scratch[:needSamples]

	n := s.ring.PopSlice(buf)

	gain := math.Float32frombits(s.gain.Load())

	bytesNeeded := int(frameCount) * s.channels * 2
	for i := 0; i < n && i*2+2 <= bytesNeeded; i++ {
		v := buf[i] * gain
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		sample := int16(v * 32767)
		output[i*2] = byte(sample)
		output[i*2+1] = byte(sample >> 8)
	}
	if n*2 < bytesNeeded {
		clear(output[n*2 : bytesNeeded])
	}

	if s.occupiedOut != nil {
		s.occupiedOut.SetOccupied(uint64(s.ring.Occupied()))
	}

	return portaudio.Continue
}
