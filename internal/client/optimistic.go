package client

import (
	"errors"
	"sync"
)

// ErrTogglePending is returned when a toggle is attempted while the
// previous one has not been confirmed or rolled back yet.
var ErrTogglePending = errors.New("toggle already pending")

// ToggleState is the flag and count a toggle mutates as one unit.
type ToggleState struct {
	Active bool
	Count  int
}

// OptimisticToggle tracks one relation's client-side state through the
// Idle -> Pending -> Idle cycle. The UI flips immediately on Begin; the
// server's answer either confirms the prediction or rolls the state back
// to exactly what it was before.
type OptimisticToggle struct {
	mu       sync.Mutex
	state    ToggleState
	previous ToggleState
	pending  bool
}

// NewOptimisticToggle starts in Idle with the given confirmed state.
func NewOptimisticToggle(initial ToggleState) *OptimisticToggle {
	return &OptimisticToggle{state: initial}
}

// State returns the state the UI should render right now.
func (o *OptimisticToggle) State() ToggleState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Pending reports whether a toggle is awaiting its server response.
func (o *OptimisticToggle) Pending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pending
}

// Begin predicts the toggled state and enters Pending. The predicted
// state flips the flag and moves the count by one in the matching
// direction. A second Begin while Pending is rejected; the caller drops
// the input rather than queueing it.
func (o *OptimisticToggle) Begin() (ToggleState, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.pending {
		return o.state, ErrTogglePending
	}

	o.previous = o.state

	predicted := ToggleState{Active: !o.state.Active}
	if predicted.Active {
		predicted.Count = o.state.Count + 1
	} else {
		predicted.Count = o.state.Count - 1
		if predicted.Count < 0 {
			predicted.Count = 0
		}
	}

	o.state = predicted
	o.pending = true
	return predicted, nil
}

// Confirm settles the pending toggle with the server's authoritative
// state and returns to Idle. Confirm without a pending toggle is a no-op
// apart from adopting the server state (e.g. a push update).
func (o *OptimisticToggle) Confirm(server ToggleState) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = server
	o.pending = false
}

// Rollback abandons the pending toggle and restores the exact state from
// before Begin, flag and count together.
func (o *OptimisticToggle) Rollback() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.pending {
		return
	}
	o.state = o.previous
	o.pending = false
}
