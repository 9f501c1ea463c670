// Package core is the top-level holder: at most one Player (the currently
// loaded track), the shared gain atomic, and a mirrored PlayState.
package core

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HIM049/the-player/pkg/player"
	"github.com/HIM049/the-player/pkg/types"
)

// defaultGain matches the original implementation's default (0.5, not a
// full-scale 1.0) — see DESIGN.md.
const defaultGain = 0.5

// Options configures every Player that Core builds.
type Options struct {
	DeviceIndex     int
	RingCapacity    uint64
	FramesPerBuffer int
}

// Core holds the current Player, if any, and the shared gain atomic.
type Core struct {
	mu      sync.Mutex
	current *player.Player
	path    string
	opts    Options

	gain   atomic.Uint32
	events chan types.Event
}

// New returns a Core with gain initialized to the spec-and-original default
// of 0.5.
func New(opts Options) *Core {
	c := &Core{
		opts:   opts,
		events: make(chan types.Event, 16),
	}
	c.gain.Store(math.Float32bits(defaultGain))
	return c
}

// Append builds a fresh Player for path, implicitly dropping (stopping) any
// prior one, and sets state to Playing.
func (c *Core) Append(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		c.current.Stop()
		c.current = nil
	}

	p, err := player.Open(path, player.Options{
		DeviceIndex:     c.opts.DeviceIndex,
		RingCapacity:    c.opts.RingCapacity,
		FramesPerBuffer: c.opts.FramesPerBuffer,
		Gain:            &c.gain,
		Events:          c.events,
	})
	if err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}

	c.current = p
	c.path = path
	return nil
}

// Play forwards to the current Player.
func (c *Core) Play() error {
	c.mu.Lock()
	p := c.current
	c.mu.Unlock()
	if p == nil {
		return fmt.Errorf("no track loaded")
	}
	return p.Play()
}

// Pause forwards to the current Player.
func (c *Core) Pause() error {
	c.mu.Lock()
	p := c.current
	c.mu.Unlock()
	if p == nil {
		return fmt.Errorf("no track loaded")
	}
	return p.Pause()
}

// Stop forwards to the current Player, then drops it and clears current.
func (c *Core) Stop() error {
	c.mu.Lock()
	p := c.current
	c.current = nil
	c.path = ""
	c.mu.Unlock()
	if p == nil {
		return nil
	}
	return p.Stop()
}

// SeekTo forwards to the current Player.
func (c *Core) SeekTo(pos time.Duration) error {
	c.mu.Lock()
	p := c.current
	c.mu.Unlock()
	if p == nil {
		return fmt.Errorf("no track loaded")
	}
	p.SeekTo(pos)
	return nil
}

// SetGain performs a relaxed store of g (clamped to [0,1]) into the shared
// gain atomic.
func (c *Core) SetGain(g float32) {
	if g < 0 {
		g = 0
	} else if g > 1 {
		g = 1
	}
	c.gain.Store(math.Float32bits(g))
}

// Gain returns the current gain value.
func (c *Core) Gain() float32 {
	return math.Float32frombits(c.gain.Load())
}

// State returns the current PlayState, Stopped if no track is loaded.
func (c *Core) State() types.PlayState {
	c.mu.Lock()
	p := c.current
	c.mu.Unlock()
	if p == nil {
		return types.StateStopped
	}
	return p.State()
}

// Player returns the currently loaded Player, or nil if none.
func (c *Core) Player() *player.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// CurrentPath returns the path of the currently loaded track, or "".
func (c *Core) CurrentPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path
}

// Events returns the event channel shared by every Player this Core builds.
func (c *Core) Events() <-chan types.Event {
	return c.events
}
