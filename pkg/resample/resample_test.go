package resample

import "testing"

func TestIdentityFastPathNoEngine(t *testing.T) {
	r, err := New(44100, 44100, 4096, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.engine != nil {
		t.Error("identity resampler should not build a SoXR engine")
	}

	in := []float32{0.1, -0.2, 0.3, -0.4}
	out, err := r.Process(in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d samples, want %d (identity pass-through)", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d: got %f, want %f", i, out[i], in[i])
		}
	}
}

func TestIdentityCloseIsNoop(t *testing.T) {
	r, err := New(48000, 48000, 1024, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on identity resampler should be a no-op, got %v", err)
	}
}
