// Package player bundles one instance of the full pipeline (ring, source,
// resampler, controller, play time, service, output sink) for a single
// track and owns its lifecycle.
package player

import (
	"sync/atomic"
	"time"

	"github.com/HIM049/the-player/pkg/controller"
	"github.com/HIM049/the-player/pkg/outputsink"
	"github.com/HIM049/the-player/pkg/playtime"
	"github.com/HIM049/the-player/pkg/ring"
	"github.com/HIM049/the-player/pkg/service"
	"github.com/HIM049/the-player/pkg/source"
	"github.com/HIM049/the-player/pkg/types"
)

// Options configures the pipeline a Player builds for one file.
type Options struct {
	DeviceIndex     int
	RingCapacity    uint64
	FramesPerBuffer int
	Gain            *atomic.Uint32 // shared with Core; not owned by Player
	Events          chan types.Event
}

// Player constructs the full pipeline for one path and exposes the C8
// facade operations.
type Player struct {
	src      *source.Source
	ring     *ring.Ring
	sink     *outputsink.Sink
	ctrl     *controller.Controller
	playTime *playtime.PlayTime
	svc      *service.Service
	done     chan struct{}
}

// Open builds a Player for path: opens the Source, builds the SampleRing,
// the PlayTime, the OutputSink (at the source rate, or at the sink's
// fallback rate if the device refuses that one) and the Controller, then
// spawns the Service goroutine in the Playing state and starts the sink.
func Open(path string, opts Options) (*Player, error) {
	src, err := source.Open(path)
	if err != nil {
		return nil, err
	}

	rb := ring.New(opts.RingCapacity)

	pt := playtime.New(src.Meta())

	sink, err := outputsink.Open(outputsink.Config{
		DeviceIndex:     opts.DeviceIndex,
		Channels:        src.Channels(),
		SrcSampleRate:   src.SampleRate(),
		FramesPerBuffer: opts.FramesPerBuffer,
		Ring:            rb,
		Gain:            opts.Gain,
		OccupiedOut:     pt,
	})
	if err != nil {
		src.Close()
		return nil, err
	}
	pt.SetDstSampleRate(sink.DstSampleRate())

	ctrl := controller.New()

	events := opts.Events
	if events == nil {
		events = make(chan types.Event, 16)
	}
	svc := service.New(src, rb, ctrl, pt, events, src.SampleRate(), sink.DstSampleRate())

	p := &Player{
		src:      src,
		ring:     rb,
		sink:     sink,
		ctrl:     ctrl,
		playTime: pt,
		svc:      svc,
		done:     make(chan struct{}),
	}

	ctrl.Play()
	go func() {
		svc.Run()
		close(p.done)
	}()

	if err := sink.Play(); err != nil {
		ctrl.Stop()
		return nil, err
	}

	return p, nil
}

// Play resumes playback.
func (p *Player) Play() error {
	if err := p.sink.Play(); err != nil {
		return err
	}
	p.ctrl.Play()
	return nil
}

// Pause pauses playback. Per the concurrency model, the sink is paused
// before the controller flips to Paused, so the consumer does not drain the
// ring while the service thread has suspended.
func (p *Player) Pause() error {
	if err := p.sink.Pause(); err != nil {
		return err
	}
	p.ctrl.Pause()
	return nil
}

// Stop halts playback and signals the service thread to exit. Per the
// concurrency model, the sink is paused before the controller stops.
func (p *Player) Stop() error {
	if err := p.sink.Pause(); err != nil {
		return err
	}
	p.ctrl.Stop()
	select {
	case <-p.done:
	case <-time.After(time.Second):
	}
	return p.sink.Close()
}

// SeekTo requests a seek to the given position.
func (p *Player) SeekTo(pos time.Duration) {
	p.ctrl.SeekTo(pos)
}

// PlayTime returns the shared position tracker for this track.
func (p *Player) PlayTime() *playtime.PlayTime {
	return p.playTime
}

// State returns the controller's current state, mirrored onto PlayState.
func (p *Player) State() types.PlayState {
	switch p.ctrl.State() {
	case controller.Playing, controller.Seek:
		return types.StatePlaying
	case controller.Paused:
		return types.StatePaused
	default:
		return types.StateStopped
	}
}
