package ring

import (
	"sync"
	"testing"
)

func TestNewRoundsToPowerOf2(t *testing.T) {
	tests := []struct {
		input    uint64
		expected uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{100, 128},
		{48000, 65536},
	}

	for _, tt := range tests {
		r := New(tt.input)
		if r.Capacity() != tt.expected {
			t.Errorf("New(%d): got capacity %d, want %d", tt.input, r.Capacity(), tt.expected)
		}
	}
}

func TestPushPopBasic(t *testing.T) {
	r := New(8)

	samples := []float32{0.1, 0.2, 0.3, 0.4}
	n := r.PushSlice(samples)
	if n != 4 {
		t.Fatalf("PushSlice: got %d, want 4", n)
	}
	if r.Occupied() != 4 {
		t.Errorf("Occupied: got %d, want 4", r.Occupied())
	}

	dst := make([]float32, 4)
	n = r.PopSlice(dst)
	if n != 4 {
		t.Fatalf("PopSlice: got %d, want 4", n)
	}
	for i, v := range samples {
		if dst[i] != v {
			t.Errorf("sample %d: got %f, want %f", i, dst[i], v)
		}
	}
	if r.Occupied() != 0 {
		t.Errorf("Occupied after drain: got %d, want 0", r.Occupied())
	}
}

func TestPushSlicePartialWrite(t *testing.T) {
	r := New(4)

	n := r.PushSlice([]float32{1, 2, 3, 4, 5})
	if n != 4 {
		t.Fatalf("PushSlice: got %d, want 4 (partial write into full-capacity ring)", n)
	}
	if !r.IsFull() {
		t.Error("ring should report full")
	}

	n = r.PushSlice([]float32{6})
	if n != 0 {
		t.Errorf("PushSlice into full ring: got %d, want 0", n)
	}
}

func TestPopSlicePartialRead(t *testing.T) {
	r := New(8)
	r.PushSlice([]float32{1, 2, 3})

	dst := make([]float32, 5)
	n := r.PopSlice(dst)
	if n != 3 {
		t.Fatalf("PopSlice: got %d, want 3", n)
	}
}

func TestWrapAround(t *testing.T) {
	r := New(4)

	r.PushSlice([]float32{1, 2, 3})
	dst := make([]float32, 2)
	r.PopSlice(dst) // occupied now 1, room for 3 more

	n := r.PushSlice([]float32{4, 5, 6})
	if n != 3 {
		t.Fatalf("PushSlice after partial drain: got %d, want 3", n)
	}

	out := make([]float32, 4)
	n = r.PopSlice(out)
	if n != 4 {
		t.Fatalf("PopSlice: got %d, want 4", n)
	}
	want := []float32{3, 4, 5, 6}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("sample %d: got %f, want %f", i, out[i], want[i])
		}
	}
}

func TestConcurrentProducerConsumer(t *testing.T) {
	r := New(256)

	const total = 200000
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		batch := make([]float32, 37)
		for i := range batch {
			batch[i] = float32(i)
		}
		sent := 0
		for sent < total {
			toSend := batch
			if total-sent < len(batch) {
				toSend = batch[:total-sent]
			}
			for len(toSend) > 0 {
				n := r.PushSlice(toSend)
				toSend = toSend[n:]
			}
			sent += len(batch)
			if sent > total {
				sent = total
			}
		}
	}()

	go func() {
		defer wg.Done()
		got := 0
		buf := make([]float32, 23)
		for got < total {
			n := r.PopSlice(buf)
			got += n
		}
	}()

	wg.Wait()
}

func TestOccupiedNeverExceedsCapacity(t *testing.T) {
	r := New(16)
	for i := 0; i < 1000; i++ {
		r.PushSlice([]float32{1, 2, 3})
		if r.Occupied() > r.Capacity() {
			t.Fatalf("occupied %d exceeds capacity %d", r.Occupied(), r.Capacity())
		}
		dst := make([]float32, 1)
		r.PopSlice(dst)
	}
}
