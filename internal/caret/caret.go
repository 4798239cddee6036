// Package caret implements caret browsing: a keyboard driven cursor moved
// through the rendered document, optionally extending a selection as it goes.
//
// The engine's native selection is the only record of where the caret is.
// A Caret never caches a position; every movement is a request to the engine
// to move its selection focus.
package caret

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/caret/internal/engine"
	"github.com/zjrosen/caret/internal/log"
	"github.com/zjrosen/caret/internal/pubsub"
	"github.com/zjrosen/caret/internal/tracing"
)

var (
	// ErrNotActive is returned by a Caret after caret mode was left.
	ErrNotActive = errors.New("caret mode is not active")
	// ErrTimeout is returned when the engine did not answer in time.
	ErrTimeout = engine.ErrTimeout
	// ErrEmptySelection is returned by Yank when nothing is selected.
	ErrEmptySelection = errors.New("nothing selected")
)

// DefaultQueryTimeout bounds an engine round-trip when the caller's context
// has no deadline.
const DefaultQueryTimeout = 2 * time.Second

// Engine is the part of the rendering engine caret mode drives. Every method
// answers asynchronously through its callback, in request order.
type Engine interface {
	Selection(cb func(engine.Selection))
	SetSelection(sel engine.Selection, cb func(engine.Selection))
	Collapse(cb func(engine.Selection))
	Clear(cb func(engine.Selection))
	SelectedText(cb func(string))
	Modify(alter engine.Alter, dir engine.Direction, g engine.Granularity, cb func(engine.Selection))
	Done() <-chan struct{}
}

// Locker is the single-writer token of a document context.
type Locker interface {
	Acquire(ctx context.Context) (func(), error)
}

// SelectionState mirrors the last selection the engine acknowledged.
type SelectionState struct {
	Selecting bool
	Anchor    int
	Focus     int
}

// Option configures a Controller.
type Option func(*Controller)

// WithQueryTimeout overrides DefaultQueryTimeout.
func WithQueryTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithTracer records a span per command.
func WithTracer(t trace.Tracer) Option {
	return func(c *Controller) { c.tracer = t }
}

// Controller hands out Caret handles while caret mode is active. It is the
// mode handler for caret mode.
type Controller struct {
	eng     Engine
	token   Locker
	timeout time.Duration
	tracer  trace.Tracer
	events  *pubsub.Broker[SelectionState]

	mu     sync.Mutex
	active *Caret
}

// NewController creates a controller for one document context.
func NewController(eng Engine, token Locker, opts ...Option) *Controller {
	c := &Controller{
		eng:     eng,
		token:   token,
		timeout: DefaultQueryTimeout,
		tracer:  tracing.Noop(),
		events:  pubsub.NewBroker[SelectionState](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe returns selection events until ctx is done.
func (c *Controller) Subscribe(ctx context.Context) <-chan pubsub.Event[SelectionState] {
	return c.events.Subscribe(ctx)
}

// Close releases subscribers.
func (c *Controller) Close() {
	c.events.Close()
}

// Active returns the live handle, or ErrNotActive outside caret mode.
func (c *Controller) Active() (*Caret, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return nil, ErrNotActive
	}
	return c.active, nil
}

// Enter starts caret mode. An empty native selection becomes a caret at the
// document start; a collapsed one is kept; a range, such as a search match,
// is adopted as an active selection anchored at its start.
func (c *Controller) Enter(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, tracing.SpanPrefixMode+"caret.enter")
	defer span.End()

	release, err := c.token.Acquire(ctx)
	if err != nil {
		return fail(span, err)
	}
	defer release()

	sel, err := await(ctx, c, c.eng.Selection)
	if err != nil {
		return fail(span, err)
	}

	state := SelectionState{Anchor: sel.Focus, Focus: sel.Focus}
	switch sel.Type {
	case engine.SelectionNone:
		sel, err = await(ctx, c, func(cb func(engine.Selection)) {
			c.eng.SetSelection(engine.Collapsed(0), cb)
		})
		if err != nil {
			return fail(span, err)
		}
		state = SelectionState{Anchor: sel.Focus, Focus: sel.Focus}
	case engine.SelectionRange:
		state = SelectionState{Selecting: true, Anchor: sel.Anchor, Focus: sel.Focus}
	}

	k := &Caret{ctl: c, state: state}

	c.mu.Lock()
	if c.active != nil {
		c.active.revoked.Store(true)
	}
	c.active = k
	c.mu.Unlock()

	span.SetAttributes(
		attribute.Bool(tracing.AttrSelecting, state.Selecting),
		attribute.Int(tracing.AttrPosition, state.Focus),
	)
	log.Info(log.CatCaret, "caret mode entered",
		"selection", sel.Type, "selecting", state.Selecting, "focus", state.Focus)
	if state.Selecting {
		c.events.Publish(pubsub.SelectionToggledEvent, state)
	}
	return nil
}

// Leave ends caret mode: the native selection is cleared and the current
// handle stops working.
func (c *Controller) Leave(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, tracing.SpanPrefixMode+"caret.leave")
	defer span.End()

	if _, err := c.Active(); err != nil {
		return nil
	}

	// The handle stays live until the selection is cleared.
	release, err := c.token.Acquire(ctx)
	if err != nil {
		return fail(span, err)
	}
	defer release()

	if _, err := await(ctx, c, c.eng.Clear); err != nil {
		return fail(span, err)
	}

	c.mu.Lock()
	k := c.active
	c.active = nil
	c.mu.Unlock()
	if k == nil {
		return nil
	}
	k.revoked.Store(true)

	log.Info(log.CatCaret, "caret mode left")
	if k.State().Selecting {
		c.events.Publish(pubsub.SelectionDroppedEvent, SelectionState{})
	}
	return nil
}

// Caret is the capability to drive caret mode. It is only valid between the
// Enter that created it and the next Leave.
type Caret struct {
	ctl     *Controller
	revoked atomic.Bool

	mu    sync.Mutex
	state SelectionState
}

// Selecting reports whether movements extend the selection.
func (k *Caret) Selecting() bool {
	return k.State().Selecting
}

// State returns the mirrored selection state.
func (k *Caret) State() SelectionState {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.state
}

func (k *Caret) setState(s SelectionState) {
	k.mu.Lock()
	k.state = s
	k.mu.Unlock()
}

// mirror records an engine acknowledgement, keeping the selecting flag.
func (k *Caret) mirror(sel engine.Selection) {
	k.mu.Lock()
	k.state.Anchor = sel.Anchor
	k.state.Focus = sel.Focus
	k.mu.Unlock()
}

// Position returns the caret position as the engine reports it.
func (k *Caret) Position(ctx context.Context) (int, error) {
	var pos int
	err := k.run(ctx, "position", 0, func(ctx context.Context) error {
		sel, err := await(ctx, k.ctl, k.ctl.eng.Selection)
		pos = sel.Focus
		return err
	})
	return pos, err
}

// run executes one command while holding the document token.
func (k *Caret) run(ctx context.Context, name string, count int, fn func(ctx context.Context) error) error {
	if k.revoked.Load() {
		return ErrNotActive
	}

	ctx, span := k.ctl.tracer.Start(ctx, tracing.SpanPrefixCaret+name,
		trace.WithAttributes(
			attribute.String(tracing.AttrCommand, name),
			attribute.Int(tracing.AttrCount, count),
		))
	defer span.End()

	release, err := k.ctl.token.Acquire(ctx)
	if err != nil {
		return fail(span, err)
	}
	defer release()

	// Leave may have run while we waited for the token.
	if k.revoked.Load() {
		return fail(span, ErrNotActive)
	}

	if err := fn(ctx); err != nil {
		log.Warn(log.CatCaret, "command failed", "command", name, "error", err)
		return fail(span, err)
	}

	state := k.State()
	span.SetAttributes(
		attribute.Bool(tracing.AttrSelecting, state.Selecting),
		attribute.Int(tracing.AttrPosition, state.Focus),
	)
	return nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
