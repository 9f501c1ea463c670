package stream

import (
	"context"
	"io"
	"testing"
)

// loopbackProvider hands back a fixed byte pattern until exhausted, then
// io.EOF — a minimal AudioPacketProvider for exercising StreamDecoder
// without a real network or device source.
type loopbackProvider struct {
	format  AudioFormat
	remain  int // frames remaining
	emitted int
}

func (p *loopbackProvider) ReadAudioPacket(ctx context.Context, samples int) (*AudioPacket, error) {
	if p.remain == 0 {
		return nil, io.EOF
	}
	n := samples
	if n > p.remain {
		n = p.remain
	}
	p.remain -= n
	p.emitted += n

	bytesPerFrame := p.format.Channels * p.format.BytesPerSample
	audio := make([]byte, n*bytesPerFrame)
	for i := range audio {
		audio[i] = byte(i)
	}

	return &AudioPacket{
		Audio:        audio,
		SamplesCount: n,
		Format:       p.format,
	}, nil
}

func newLoopbackDecoder(frames int) (*StreamDecoder, *loopbackProvider) {
	format := AudioFormat{SampleRate: 44100, Channels: 2, BytesPerSample: 2}
	provider := &loopbackProvider{format: format, remain: frames}
	dec := NewStreamDecoder(context.Background(), provider, format)
	return dec, provider
}

func TestStreamDecoderGetFormat(t *testing.T) {
	dec, _ := newLoopbackDecoder(100)
	rate, channels, bits := dec.GetFormat()
	if rate != 44100 || channels != 2 || bits != 16 {
		t.Errorf("GetFormat() = (%d, %d, %d), want (44100, 2, 16)", rate, channels, bits)
	}
}

func TestStreamDecoderDecodeSamples(t *testing.T) {
	dec, provider := newLoopbackDecoder(1000)

	buf := make([]byte, 256*2*2)
	total := 0
	for {
		n, err := dec.DecodeSamples(256, buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("DecodeSamples: unexpected error: %v", err)
		}
		if n == 0 {
			break
		}
	}

	if total != provider.emitted {
		t.Errorf("decoded %d frames, provider emitted %d", total, provider.emitted)
	}
}

func TestStreamDecoderOpenCloseAreNoops(t *testing.T) {
	dec, _ := newLoopbackDecoder(0)
	if err := dec.Open("unused"); err != nil {
		t.Errorf("Open: unexpected error: %v", err)
	}
	if err := dec.Close(); err != nil {
		t.Errorf("Close: unexpected error: %v", err)
	}
}

func TestStreamDecoderFormatChangeNotification(t *testing.T) {
	initial := AudioFormat{SampleRate: 44100, Channels: 2, BytesPerSample: 2}
	changed := AudioFormat{SampleRate: 48000, Channels: 2, BytesPerSample: 2}

	provider := &fixedPacketProvider{format: changed, remain: 1}
	dec := NewStreamDecoder(context.Background(), provider, initial)

	buf := make([]byte, 64*2*2)
	if _, err := dec.DecodeSamples(64, buf); err != nil {
		t.Fatalf("DecodeSamples: unexpected error: %v", err)
	}

	select {
	case got := <-dec.FormatChanges():
		if got != changed {
			t.Errorf("FormatChanges() = %+v, want %+v", got, changed)
		}
	default:
		t.Error("expected a format-change notification, got none")
	}

	rate, _, _ := dec.GetFormat()
	if rate != 48000 {
		t.Errorf("GetFormat rate = %d, want 48000 after format change", rate)
	}
}

// fixedPacketProvider always reports the same format on its packets,
// distinct from the decoder's initial format — used to exercise the
// format-change-detection path.
type fixedPacketProvider struct {
	format AudioFormat
	remain int
}

func (p *fixedPacketProvider) ReadAudioPacket(ctx context.Context, samples int) (*AudioPacket, error) {
	if p.remain == 0 {
		return nil, io.EOF
	}
	n := samples
	if n > p.remain {
		n = p.remain
	}
	p.remain -= n

	bytesPerFrame := p.format.Channels * p.format.BytesPerSample
	return &AudioPacket{
		Audio:        make([]byte, n*bytesPerFrame),
		SamplesCount: n,
		Format:       p.format,
	}, nil
}
