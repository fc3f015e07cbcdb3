// Package app wires the batch buffer and the dispatch executor into the
// sink that logging calls land on.
package app

import (
	"sync"

	"github.com/bft-labs/mailsink/internal/domain"
	"github.com/bft-labs/mailsink/internal/ports"
)

// State represents the lifecycle state of the sink.
type State int

const (
	StateUnconfigured State = iota
	StateConfigured
	StateClosed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "Unconfigured"
	case StateConfigured:
		return "Configured"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Lifecycle manages the state machine for the sink:
// Unconfigured -> Configured -> Closed, one way only.
type Lifecycle struct {
	mu     sync.RWMutex
	state  State
	logger ports.Logger
}

// NewLifecycle creates a lifecycle manager in StateUnconfigured.
func NewLifecycle(logger ports.Logger) *Lifecycle {
	return &Lifecycle{state: StateUnconfigured, logger: logger}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo attempts to transition to a new state.
// Returns an error identifying the misuse if the transition is not valid:
// configuring twice, using before configuring, or using after close.
func (l *Lifecycle) TransitionTo(newState State) error {
	l.mu.Lock()
	oldState := l.state

	switch oldState {
	case StateUnconfigured:
		if newState != StateConfigured && newState != StateClosed {
			l.mu.Unlock()
			return domain.ErrNotConfigured
		}
	case StateConfigured:
		if newState != StateClosed {
			l.mu.Unlock()
			return domain.ErrAlreadyConfigured
		}
	case StateClosed:
		l.mu.Unlock()
		return domain.ErrClosed
	}

	l.state = newState
	l.mu.Unlock()

	l.logger.Info("state transition",
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()))
	return nil
}
