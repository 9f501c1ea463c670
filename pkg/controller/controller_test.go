package controller

import (
	"testing"
	"time"
)

func TestInitialStateStopped(t *testing.T) {
	c := New()
	if c.State() != Stopped {
		t.Fatalf("got %s, want stopped", c.State())
	}
}

func TestPlayPauseStop(t *testing.T) {
	c := New()
	c.Play()
	if c.State() != Playing {
		t.Fatalf("got %s, want playing", c.State())
	}
	c.Pause()
	if c.State() != Paused {
		t.Fatalf("got %s, want paused", c.State())
	}
	c.Stop()
	if c.State() != Stopped {
		t.Fatalf("got %s, want stopped", c.State())
	}
}

func TestPauseIdempotent(t *testing.T) {
	c := New()
	c.Play()
	c.Pause()
	c.Pause()
	if c.State() != Paused {
		t.Fatalf("got %s, want paused after double pause", c.State())
	}
}

func TestSeekToRecordsTarget(t *testing.T) {
	c := New()
	c.Play()
	c.SeekTo(7 * time.Second)
	if c.State() != Seek {
		t.Fatalf("got %s, want seek", c.State())
	}
	if c.SeekTarget() != 7*time.Second {
		t.Errorf("got %v, want 7s", c.SeekTarget())
	}
	c.ToPlaying()
	if c.State() != Playing {
		t.Fatalf("got %s, want playing after ToPlaying", c.State())
	}
}

func TestWaitIfPausedUnblocksOnPlay(t *testing.T) {
	c := New()
	c.Pause()

	done := make(chan struct{})
	go func() {
		c.WaitIfPaused()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("WaitIfPaused returned before Play() was called")
	case <-time.After(50 * time.Millisecond):
	}

	c.Play()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitIfPaused did not unblock after Play()")
	}
}

func TestWaitIfPausedUnblocksOnStop(t *testing.T) {
	c := New()
	c.Pause()

	done := make(chan struct{})
	go func() {
		c.WaitIfPaused()
		close(done)
	}()

	c.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitIfPaused did not unblock after Stop()")
	}
}
