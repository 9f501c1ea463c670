package sampleconv

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestToF32U8(t *testing.T) {
	raw := []byte{0, 128, 255}
	dst := make([]float32, 3)
	n := ToF32(raw, U8, dst)
	if n != 3 {
		t.Fatalf("got %d, want 3", n)
	}
	if dst[0] != -1 {
		t.Errorf("min: got %f, want -1", dst[0])
	}
	if dst[2] != 0.9921875 { // (255/256)*2 - 1
		t.Errorf("max: got %f, want 0.9921875", dst[2])
	}
}

func TestToF32S16FullScale(t *testing.T) {
	raw := make([]byte, 4)
	binary.LittleEndian.PutUint16(raw[0:2], uint16(int16(32767)))
	minS16 := int16(-32768)
	binary.LittleEndian.PutUint16(raw[2:4], uint16(minS16))
	dst := make([]float32, 2)
	ToF32(raw, S16, dst)

	if dst[0] < 0.99 || dst[0] > 1.01 {
		t.Errorf("max positive sample out of range: %f", dst[0])
	}
	if dst[1] > -0.99 {
		t.Errorf("min negative sample out of range: %f", dst[1])
	}
}

func TestToF32S24SignExtension(t *testing.T) {
	// -1 as a 24-bit two's complement value: 0xFFFFFF
	raw := []byte{0xFF, 0xFF, 0xFF}
	dst := make([]float32, 1)
	ToF32(raw, S24, dst)
	want := float32(-1) / 8388608.0
	if dst[0] != want {
		t.Errorf("got %f, want %f", dst[0], want)
	}
}

func TestToF32F32Identity(t *testing.T) {
	raw := make([]byte, 4)
	binary.LittleEndian.PutUint32(raw, math.Float32bits(0.42))
	dst := make([]float32, 1)
	ToF32(raw, F32, dst)
	if dst[0] != 0.42 {
		t.Errorf("got %f, want 0.42", dst[0])
	}
}

func TestToF32TruncatesToDestCapacity(t *testing.T) {
	raw := make([]byte, 8) // 4 S16 samples
	dst := make([]float32, 2)
	n := ToF32(raw, S16, dst)
	if n != 2 {
		t.Errorf("got %d, want 2 (truncated by destination length)", n)
	}
}
