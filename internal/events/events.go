// Package events provides the freeze status change notification channel.
//
// The freeze state machine emits an event only when the persisted flag
// actually flips; a no-op evaluation produces no signal. Handlers register
// with the emitter and receive events after the flipping operation has
// committed, so a handler can never observe an uncommitted state.
package events

import (
	"context"
	"time"
)

// FreezeStatusChanged describes one freeze flag flip.
type FreezeStatusChanged struct {
	ScholarshipID uint64    `json:"scholarship_id"`
	Frozen        bool      `json:"frozen"`
	// Average is the weighted average score (2-decimal fixed point) at the
	// time of the flip. For a manual override it is the score on record,
	// which did not necessarily cause the flip.
	Average  uint64    `json:"average"`
	Manual   bool      `json:"manual"`
	Occurred time.Time `json:"occurred"`
}

// Handler is implemented by components that want to observe freeze flips.
type Handler interface {
	HandleFreezeStatusChanged(ctx context.Context, ev FreezeStatusChanged) error
}

// Emitter is implemented by components that publish freeze flips.
type Emitter interface {
	Emit(ctx context.Context, ev FreezeStatusChanged) error
}
