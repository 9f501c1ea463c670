// Package service runs the orchestrator thread that pulls decoded packets
// from a Source, optionally resamples them, and feeds a SampleRing, while
// honoring Controller commands and updating PlayTime.
package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/HIM049/the-player/pkg/controller"
	"github.com/HIM049/the-player/pkg/playtime"
	"github.com/HIM049/the-player/pkg/resample"
	"github.com/HIM049/the-player/pkg/ring"
	"github.com/HIM049/the-player/pkg/source"
	"github.com/HIM049/the-player/pkg/types"
)

const progressInterval = 100 * time.Millisecond

// Service is the per-track orchestrator thread (T2 in the concurrency
// model). It exclusively owns the Source, the Resampler (if any), the ring
// producer handle, and the leftover FIFO.
type Service struct {
	src        *source.Source
	resampler  *resample.Resampler
	ring       *ring.Ring
	controller *controller.Controller
	playTime   *playtime.PlayTime
	events     chan types.Event

	channels      int
	needsResample bool
	srcRate       int
	dstRate       int
	leftover      []float32

	expectedLen int
	finished    bool
	lastSent    time.Duration
}

// New builds a Service for one track. events should be a buffered or
// unbounded channel; sends are best-effort (select-default) so a stalled or
// absent receiver never blocks the decode loop. If srcRate != dstRate, the
// Resampler is built lazily on the first decoded packet, per spec §4.6 step
// 7, using that packet's own length as the chunk size.
func New(src *source.Source, rb *ring.Ring, ctrl *controller.Controller, pt *playtime.PlayTime, events chan types.Event, srcRate, dstRate int) *Service {
	return &Service{
		src:           src,
		ring:          rb,
		controller:    ctrl,
		playTime:      pt,
		events:        events,
		channels:      src.Channels(),
		needsResample: srcRate != dstRate,
		srcRate:       srcRate,
		dstRate:       dstRate,
	}
}

// Run executes the orchestrator loop until the controller transitions to
// Stopped or the track finishes. It is meant to run on its own goroutine.
func (s *Service) Run() {
	defer s.closeResampler()
	for {
		switch s.controller.State() {
		case controller.Paused:
			s.controller.WaitIfPaused()
			continue
		case controller.Stopped:
			return
		case controller.Seek:
			s.handleSeek()
			continue
		}

		if s.finished && s.ring.Occupied() == 0 {
			s.trySend(types.EventPlayFinished)
			s.controller.Stop()
			return
		}

		s.maybeSendProgress()

		if len(s.leftover) > 0 {
			n := s.ring.PushSlice(s.leftover)
			s.leftover = s.leftover[n:]
			continue
		}

		if s.ring.IsFull() {
			time.Sleep(20 * time.Millisecond)
			continue
		}

		packet, err := s.src.NextPacket()
		if err != nil {
			if errors.Is(err, source.ErrEndOfStream) {
				s.finished = true
				continue
			}
			slog.Error("decode error, ending track", "error", err)
			s.finished = true
			continue
		}

		frames := len(packet) / s.channels
		packet, err = s.transform(packet)
		if err != nil {
			slog.Error("resample failed, stopping track", "error", err)
			s.controller.Stop()
			return
		}

		s.playTime.AddDecoded(uint64(frames))

		n := s.ring.PushSlice(packet)
		if n < len(packet) {
			s.leftover = append(s.leftover[:0:0], packet[n:]...)
		}
	}
}

// closeResampler releases the SoXR engine, if one was built.
func (s *Service) closeResampler() {
	if s.resampler != nil {
		if err := s.resampler.Close(); err != nil {
			slog.Error("resampler close failed", "error", err)
		}
	}
}

// handleSeek performs the Seek(t) state-dispatch arm: reposition the
// source, drain leftover, reset decoded_len, then return to Playing. The
// ring itself is not cleared — its pre-seek tail is left for the consumer
// to drain naturally.
func (s *Service) handleSeek() {
	target := s.controller.SeekTarget()
	targetFrames := uint64(target.Seconds() * float64(s.src.SampleRate()))

	actualTs, err := s.src.Seek(targetFrames)
	if err != nil {
		slog.Error("seek failed", "error", err)
		s.controller.ToPlaying()
		return
	}

	s.leftover = s.leftover[:0]
	s.playTime.SetDecoded(actualTs)
	s.finished = false
	s.controller.ToPlaying()
}

// maybeSendProgress implements step 3: compute now_sec and try-send
// PlaytimeRefresh at most every progressInterval. Per the resolved Open
// Question, this only ever runs from the Playing dispatch arm.
func (s *Service) maybeSendProgress() {
	sec, frac := s.playTime.PlayedTime()
	now := time.Duration(sec)*time.Second + time.Duration(frac*float64(time.Second))
	if now-s.lastSent >= progressInterval {
		s.trySend(types.EventPlaytimeRefresh)
		s.lastSent = now
	}
}

// transform applies the Resampler, if any, per the fixed-chunk/zero-pad
// contract: on the first packet, expected_len = packet.len() and the
// Resampler is built using expected_len/channels as its chunk size — the
// Source's actual packet size, not an unrelated buffer constant.
func (s *Service) transform(packet []float32) ([]float32, error) {
	if !s.needsResample {
		return packet, nil
	}
	if s.resampler == nil {
		s.expectedLen = len(packet)
		chunkFrames := s.expectedLen / s.channels
		rs, err := resample.New(s.srcRate, s.dstRate, chunkFrames, s.channels)
		if err != nil {
			return nil, err
		}
		s.resampler = rs
	}
	return s.resampler.Process(packet)
}

// trySend is a non-blocking send; per the ChannelSendError taxonomy entry,
// a full or absent receiver is logged and otherwise ignored — the service
// keeps producing audio regardless.
func (s *Service) trySend(ev types.Event) {
	select {
	case s.events <- ev:
	default:
		slog.Debug("event dropped", "event", ev.String(), "kind", types.ErrChannel)
	}
}
