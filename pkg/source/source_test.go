package source

import (
	"testing"

	"github.com/HIM049/the-player/pkg/sampleconv"
)

// stubDecoder is a minimal types.AudioDecoder for exercising formatFor
// without a real file or codec library.
type stubDecoder struct {
	isFloat bool
}

func (d *stubDecoder) Open(string) error                     { return nil }
func (d *stubDecoder) Close() error                          { return nil }
func (d *stubDecoder) GetFormat() (int, int, int)            { return 0, 0, 0 }
func (d *stubDecoder) DecodeSamples(int, []byte) (int, error) { return 0, nil }
func (d *stubDecoder) FloatPCM() bool                        { return d.isFloat }

func TestFormatForKnownDepths(t *testing.T) {
	intDec := &stubDecoder{}
	cases := []struct {
		bits int
		want sampleconv.Format
	}{
		{8, sampleconv.U8},
		{16, sampleconv.S16},
		{24, sampleconv.S24},
		{32, sampleconv.S32},
	}
	for _, c := range cases {
		got, err := formatFor(c.bits, intDec)
		if err != nil {
			t.Fatalf("formatFor(%d): unexpected error: %v", c.bits, err)
		}
		if got != c.want {
			t.Errorf("formatFor(%d) = %v, want %v", c.bits, got, c.want)
		}
	}
}

func TestFormatForFloatPCM32Bit(t *testing.T) {
	floatDec := &stubDecoder{isFloat: true}
	got, err := formatFor(32, floatDec)
	if err != nil {
		t.Fatalf("formatFor(32, floatDec): unexpected error: %v", err)
	}
	if got != sampleconv.F32 {
		t.Errorf("formatFor(32, floatDec) = %v, want F32", got)
	}
}

func TestFormatForUnsupportedDepth(t *testing.T) {
	if _, err := formatFor(12, &stubDecoder{}); err == nil {
		t.Error("expected error for unsupported bit depth, got nil")
	}
}

func TestSourceZeroValueAccessors(t *testing.T) {
	var s Source
	if s.Channels() != 0 {
		t.Errorf("Channels() on zero Source = %d, want 0", s.Channels())
	}
	if s.SampleRate() != 0 {
		t.Errorf("SampleRate() on zero Source = %d, want 0", s.SampleRate())
	}
}
