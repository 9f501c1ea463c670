// Package ring implements the lock-free single-producer/single-consumer
// sample ring shared between the decode service and the device callback.
package ring

import "sync/atomic"

// DefaultCapacity is RING_CAPACITY from the component contract: roughly
// 0.5s of stereo audio at 48kHz.
const DefaultCapacity = 48000

// Ring is a fixed-capacity SPSC ring buffer of float32 samples.
//
// Exactly one goroutine may call PushSlice (the producer / service thread);
// exactly one goroutine may call PopSlice (the consumer / device callback).
// Occupied, IsFull and Capacity may be called from any goroutine.
type Ring struct {
	buf      []float32
	size     uint64 // power of 2
	mask     uint64
	writePos atomic.Uint64
	readPos  atomic.Uint64
}

// New creates a ring sized to at least capacity samples, rounded up to the
// next power of 2 for cheap modulo via bitmask.
func New(capacity uint64) *Ring {
	capacity = nextPowerOf2(capacity)
	return &Ring{
		buf:  make([]float32, capacity),
		size: capacity,
		mask: capacity - 1,
	}
}

// PushSlice writes as much of samples as there is room for and returns the
// count actually written. A partial write is not an error: the caller is
// expected to retain the unwritten tail (the service's leftover FIFO) and
// retry later. Producer-only.
func (r *Ring) PushSlice(samples []float32) int {
	n := uint64(len(samples))
	if n == 0 {
		return 0
	}

	available := r.availableWrite()
	toWrite := n
	if toWrite > available {
		toWrite = available
	}
	if toWrite == 0 {
		return 0
	}

	writePos := r.writePos.Load()
	for i := uint64(0); i < toWrite; i++ {
		r.buf[(writePos+i)&r.mask] = samples[i]
	}
	// Release: make the writes above visible before publishing the new
	// write position.
	r.writePos.Store(writePos + toWrite)
	return int(toWrite)
}

// PopSlice reads as many samples as fit into dst and returns the count
// actually read. The remainder of dst (if any) is left untouched — callers
// that need a zero-filled tail (the device callback) must clear it
// themselves. Consumer-only.
func (r *Ring) PopSlice(dst []float32) int {
	n := uint64(len(dst))
	if n == 0 {
		return 0
	}

	available := r.availableRead()
	toRead := n
	if toRead > available {
		toRead = available
	}
	if toRead == 0 {
		return 0
	}

	readPos := r.readPos.Load()
	for i := uint64(0); i < toRead; i++ {
		dst[i] = r.buf[(readPos+i)&r.mask]
	}
	// Acquire/release: publish the new read position only after the reads
	// above have completed, so the producer's capacity check observes a
	// consistent occupancy.
	r.readPos.Store(readPos + toRead)
	return int(toRead)
}

// IsFull reports whether the ring currently has no room for a producer write.
func (r *Ring) IsFull() bool {
	return r.availableWrite() == 0
}

// Occupied returns the current number of buffered samples.
func (r *Ring) Occupied() uint64 {
	return r.availableRead()
}

// Capacity returns the ring's fixed sample capacity.
func (r *Ring) Capacity() uint64 {
	return r.size
}

func (r *Ring) availableWrite() uint64 {
	return r.size - (r.writePos.Load() - r.readPos.Load())
}

func (r *Ring) availableRead() uint64 {
	return r.writePos.Load() - r.readPos.Load()
}

func nextPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}
