package playtime

import (
	"testing"

	"github.com/HIM049/the-player/pkg/types"
)

func meta44100Stereo(nFrames uint64) types.TrackMeta {
	return types.TrackMeta{
		TimeBase:      types.TimeBase{Numerator: 1, Denominator: 44100},
		NFrames:       nFrames,
		Channels:      2,
		SrcSampleRate: 44100,
		DstSampleRate: 44100,
	}
}

func TestPlayedSecZeroAtStart(t *testing.T) {
	pt := New(meta44100Stereo(441000))
	if sec := pt.PlayedSec(); sec != 0 {
		t.Fatalf("got %d, want 0", sec)
	}
}

func TestPlayedSecAdvancesWithDecoded(t *testing.T) {
	pt := New(meta44100Stereo(441000))
	pt.AddDecoded(44100) // 1 second at 44100 Hz, no ring latency
	if sec := pt.PlayedSec(); sec != 1 {
		t.Fatalf("got %d, want 1", sec)
	}
}

func TestOccupiedSubtractsLatency(t *testing.T) {
	pt := New(meta44100Stereo(441000))
	pt.AddDecoded(44100) // decoded 1s worth
	// 44100 stereo samples buffered = 22050 frames of latency at same rate
	pt.SetOccupied(44100)
	sec := pt.PlayedSec()
	if sec != 0 {
		t.Fatalf("got %d, want 0 (latency should cancel decoded progress)", sec)
	}
}

func TestPlayedFramesNeverNegative(t *testing.T) {
	pt := New(meta44100Stereo(441000))
	pt.SetOccupied(1_000_000) // absurdly large, larger than decoded
	if sec := pt.PlayedSec(); sec != 0 {
		t.Fatalf("got %d, want 0 (floored at zero)", sec)
	}
}

func TestDurationSec(t *testing.T) {
	pt := New(meta44100Stereo(44100 * 5))
	if d := pt.DurationSec(); d != 5 {
		t.Fatalf("got %d, want 5", d)
	}
}

func TestSetDecodedOverwritesForSeek(t *testing.T) {
	pt := New(meta44100Stereo(441000))
	pt.AddDecoded(44100 * 3)
	pt.SetDecoded(44100 * 7)
	if sec := pt.PlayedSec(); sec != 7 {
		t.Fatalf("got %d, want 7 after seek reset", sec)
	}
}

func TestRateConversionCancelsOnResample(t *testing.T) {
	meta := types.TrackMeta{
		TimeBase:      types.TimeBase{Numerator: 1, Denominator: 48000},
		NFrames:       48000 * 10,
		Channels:      2,
		SrcSampleRate: 48000,
		DstSampleRate: 44100,
	}
	pt := New(meta)
	// decoded_len accounts pre-resample (source-rate) frames
	pt.AddDecoded(48000) // 1 second of source-rate decode, no ring yet
	if sec := pt.PlayedSec(); sec != 1 {
		t.Fatalf("got %d, want 1", sec)
	}
}
