package app

import (
	"context"

	"github.com/Faultbox/axion/internal/engine/scene"
)

// Handoff passes snapshots from the update thread to the render thread.
// Only the newest unconsumed snapshot is kept.
type Handoff struct {
	ch chan scene.Snapshot
}

// NewHandoff returns an empty handoff.
func NewHandoff() *Handoff {
	return &Handoff{ch: make(chan scene.Snapshot, 1)}
}

// Publish stores s, replacing an unconsumed older snapshot. It never
// blocks.
func (h *Handoff) Publish(s scene.Snapshot) {
	for {
		select {
		case h.ch <- s:
			return
		default:
		}
		select {
		case <-h.ch:
		default:
		}
	}
}

// Latest takes the pending snapshot, if any.
func (h *Handoff) Latest() (scene.Snapshot, bool) {
	select {
	case s := <-h.ch:
		return s, true
	default:
		return scene.Snapshot{}, false
	}
}

// Wait blocks until a snapshot is published or ctx is done.
func (h *Handoff) Wait(ctx context.Context) (scene.Snapshot, error) {
	select {
	case s := <-h.ch:
		return s, nil
	case <-ctx.Done():
		return scene.Snapshot{}, ctx.Err()
	}
}
