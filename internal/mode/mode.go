// Package mode tracks which key mode a document context is in and hands
// control to the handler registered for it.
package mode

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/zjrosen/caret/internal/log"
	"github.com/zjrosen/caret/internal/pubsub"
)

// ErrUnknownMode is returned when no handler is registered for a mode.
var ErrUnknownMode = errors.New("unknown mode")

// KeyMode identifies a key mode.
type KeyMode int

const (
	Normal KeyMode = iota
	Caret
	Insert
	Command
)

func (m KeyMode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Caret:
		return "caret"
	case Insert:
		return "insert"
	case Command:
		return "command"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Parse resolves a mode name.
func Parse(name string) (KeyMode, error) {
	for _, m := range []KeyMode{Normal, Caret, Insert, Command} {
		if m.String() == name {
			return m, nil
		}
	}
	return Normal, fmt.Errorf("%w: %s", ErrUnknownMode, name)
}

// Handler is notified when its mode is entered or left. An error aborts
// the transition.
type Handler interface {
	Enter(ctx context.Context) error
	Leave(ctx context.Context) error
}

// Transition is the payload of mode events.
type Transition struct {
	From KeyMode
	To   KeyMode
}

// Manager switches between key modes. Normal needs no handler and is where
// leaving a mode returns to.
type Manager struct {
	mu       sync.Mutex
	current  KeyMode
	handlers map[KeyMode]Handler
	events   *pubsub.Broker[Transition]
}

// NewManager starts in Normal mode.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[KeyMode]Handler),
		events:   pubsub.NewBroker[Transition](),
	}
}

// Register sets the handler for m, replacing any previous one.
func (mm *Manager) Register(m KeyMode, h Handler) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.handlers[m] = h
}

// Current returns the active mode.
func (mm *Manager) Current() KeyMode {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return mm.current
}

// Subscribe returns mode transitions until ctx is done.
func (mm *Manager) Subscribe(ctx context.Context) <-chan pubsub.Event[Transition] {
	return mm.events.Subscribe(ctx)
}

// Close releases subscribers.
func (mm *Manager) Close() {
	mm.events.Close()
}

// Enter switches to m, leaving the current mode first. Entering the active
// mode again is a no-op.
func (mm *Manager) Enter(ctx context.Context, m KeyMode) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if m == mm.current {
		return nil
	}
	h, ok := mm.handlers[m]
	if !ok && m != Normal {
		return fmt.Errorf("%w: %s", ErrUnknownMode, m)
	}
	if err := mm.leaveLocked(ctx); err != nil {
		return err
	}
	if h != nil {
		if err := h.Enter(ctx); err != nil {
			log.Warn(log.CatMode, "enter failed", "mode", m, "error", err)
			return fmt.Errorf("enter %s mode: %w", m, err)
		}
	}

	prev := mm.current
	mm.current = m
	log.Info(log.CatMode, "mode entered", "mode", m, "from", prev)
	mm.events.Publish(pubsub.ModeEnteredEvent, Transition{From: prev, To: m})
	return nil
}

// Leave returns from m to Normal. Leaving a mode that is not active is a
// no-op.
func (mm *Manager) Leave(ctx context.Context, m KeyMode) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if m != mm.current || m == Normal {
		return nil
	}
	return mm.leaveLocked(ctx)
}

func (mm *Manager) leaveLocked(ctx context.Context) error {
	m := mm.current
	if m == Normal {
		return nil
	}
	if h := mm.handlers[m]; h != nil {
		if err := h.Leave(ctx); err != nil {
			log.Warn(log.CatMode, "leave failed", "mode", m, "error", err)
			return fmt.Errorf("leave %s mode: %w", m, err)
		}
	}
	mm.current = Normal
	log.Info(log.CatMode, "mode left", "mode", m)
	mm.events.Publish(pubsub.ModeLeftEvent, Transition{From: m, To: Normal})
	return nil
}
