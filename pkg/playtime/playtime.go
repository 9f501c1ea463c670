// Package playtime derives a wall-clock-accurate playback position from
// decoded frame count and ring latency, without locking.
package playtime

import (
	"sync/atomic"

	"github.com/HIM049/the-player/pkg/types"
)

// PlayTime holds the shared atomics the service thread (writer of
// DecodedLen) and the output sink (writer of OccupiedLen) update, plus the
// immutable per-track metadata needed to convert frame counts to seconds.
type PlayTime struct {
	meta types.TrackMeta

	decodedLen  atomic.Uint64 // source-rate frames handed to the ring so far
	occupiedLen atomic.Uint64 // ring occupancy in device-rate samples
}

// New returns a PlayTime for the given immutable track metadata.
func New(meta types.TrackMeta) *PlayTime {
	return &PlayTime{meta: meta}
}

// AddDecoded accounts for frames handed to the ring. frames is the
// pre-resample (source-rate) frame count of the packet, per the accounting
// rule that lets the latency formula cancel the resample ratio.
func (pt *PlayTime) AddDecoded(frames uint64) {
	pt.decodedLen.Add(frames)
}

// SetDecoded overwrites the decoded frame counter outright — used on a
// successful seek, where the position jumps to the seek target rather than
// accumulating.
func (pt *PlayTime) SetDecoded(frames uint64) {
	pt.decodedLen.Store(frames)
}

// DecodedLen returns the raw decoded-frame counter.
func (pt *PlayTime) DecodedLen() uint64 {
	return pt.decodedLen.Load()
}

// SetOccupied records the ring occupancy in device-rate samples, as observed
// by the output sink after its most recent pop.
func (pt *PlayTime) SetOccupied(samples uint64) {
	pt.occupiedLen.Store(samples)
}

// OccupiedLen returns the last-recorded ring occupancy in samples.
func (pt *PlayTime) OccupiedLen() uint64 {
	return pt.occupiedLen.Load()
}

// playedFrames computes decoded_len - latency_frames, floored at zero.
func (pt *PlayTime) playedFrames() uint64 {
	channels := uint64(pt.meta.Channels)
	if channels == 0 {
		channels = 1
	}
	dstRate := uint64(pt.meta.DstSampleRate)
	if dstRate == 0 {
		dstRate = 1
	}
	srcRate := uint64(pt.meta.SrcSampleRate)

	latencyFrames := (pt.occupiedLen.Load() / channels) * srcRate / dstRate
	decoded := pt.decodedLen.Load()
	if latencyFrames >= decoded {
		return 0
	}
	return decoded - latencyFrames
}

// PlayedTime returns the latency-compensated playback position as
// (whole seconds, fractional seconds).
func (pt *PlayTime) PlayedTime() (seconds uint64, frac float64) {
	return pt.meta.TimeBase.Calc(pt.playedFrames())
}

// PlayedSec returns just the integer-seconds component of PlayedTime.
func (pt *PlayTime) PlayedSec() uint64 {
	sec, _ := pt.PlayedTime()
	return sec
}

// DurationSec returns the track's total duration, 0 if unknown.
func (pt *PlayTime) DurationSec() uint64 {
	return pt.meta.DurationSec()
}

// Meta returns the immutable track metadata this PlayTime was built from.
func (pt *PlayTime) Meta() types.TrackMeta {
	return pt.meta
}

// SetDstSampleRate records the device rate the OutputSink actually opened
// at. The OutputSink is opened after PlayTime is constructed (it needs a
// live OccupiedSetter to report into from its very first callback), so this
// one field of the otherwise-immutable TrackMeta is filled in slightly
// after New.
func (pt *PlayTime) SetDstSampleRate(rate int) {
	pt.meta.DstSampleRate = rate
}
