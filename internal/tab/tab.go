// Package tab wires one document context: the engine that renders it, the
// token that serializes commands on it, caret mode, search and key modes.
package tab

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/caret/internal/caret"
	"github.com/zjrosen/caret/internal/config"
	"github.com/zjrosen/caret/internal/document"
	"github.com/zjrosen/caret/internal/engine"
	"github.com/zjrosen/caret/internal/log"
	"github.com/zjrosen/caret/internal/mode"
	"github.com/zjrosen/caret/internal/pubsub"
	"github.com/zjrosen/caret/internal/search"
	"github.com/zjrosen/caret/internal/tracing"
)

// Loaded is published after the document was replaced.
type Loaded struct {
	Revision  int
	Graphemes int
}

// Option configures a Tab.
type Option func(*options)

type options struct {
	tracer trace.Tracer
	engine []engine.Option
}

// WithTracer records spans for caret and search commands.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithEngineOptions passes extra options to the engine.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(o *options) { o.engine = append(o.engine, opts...) }
}

// Tab is one document context.
type Tab struct {
	id     uuid.UUID
	cfg    config.Config
	eng    *engine.Engine
	caret  *caret.Controller
	search *search.Search
	modes  *mode.Manager
	loaded *pubsub.Broker[Loaded]
}

// New builds a tab showing doc, in Normal mode.
func New(doc *document.Document, cfg config.Config, opts ...Option) *Tab {
	o := options{tracer: tracing.Noop()}
	for _, opt := range opts {
		opt(&o)
	}

	engOpts := append([]engine.Option{
		engine.WithViewportWidth(cfg.Engine.ViewportWidth),
		engine.WithLayoutCacheTTL(cfg.Engine.LayoutCacheTTL),
	}, o.engine...)
	eng := engine.New(doc, engOpts...)

	t := &Tab{
		id:  eng.ID(),
		cfg: cfg,
		eng: eng,
		caret: caret.NewController(eng, eng.Token(),
			caret.WithQueryTimeout(cfg.Caret.QueryTimeout),
			caret.WithTracer(o.tracer),
		),
		search: search.New(eng, eng.Token(),
			search.WithIgnoreCase(cfg.Search.IgnoreCase),
			search.WithWrap(cfg.Search.Wrap),
			search.WithQueryTimeout(cfg.Caret.QueryTimeout),
			search.WithTracer(o.tracer),
		),
		modes:  mode.NewManager(),
		loaded: pubsub.NewBroker[Loaded](),
	}
	t.modes.Register(mode.Caret, t.caret)
	t.modes.Register(mode.Insert, passive{})

	log.Info(log.CatEngine, "tab opened", "tab", t.id, "graphemes", doc.Len())
	return t
}

// passive handles modes that need no setup.
type passive struct{}

func (passive) Enter(context.Context) error { return nil }
func (passive) Leave(context.Context) error { return nil }

// ID identifies the tab.
func (t *Tab) ID() uuid.UUID {
	return t.id
}

// Engine exposes the rendering engine.
func (t *Tab) Engine() *engine.Engine {
	return t.eng
}

// Search exposes find-in-page.
func (t *Tab) Search() *search.Search {
	return t.search
}

// Modes exposes the key mode manager.
func (t *Tab) Modes() *mode.Manager {
	return t.modes
}

// CaretController exposes the caret mode handler for subscriptions.
func (t *Tab) CaretController() *caret.Controller {
	return t.caret
}

// Caret returns the active caret handle, or caret.ErrNotActive outside caret
// mode.
func (t *Tab) Caret() (*caret.Caret, error) {
	return t.caret.Active()
}

// EnterCaretMode switches to caret mode.
func (t *Tab) EnterCaretMode(ctx context.Context) error {
	return t.modes.Enter(ctx, mode.Caret)
}

// LeaveCaretMode returns to normal mode.
func (t *Tab) LeaveCaretMode(ctx context.Context) error {
	return t.modes.Leave(ctx, mode.Caret)
}

// SyncCaret makes an active caret mode pick up a selection changed behind
// its back, such as a search match. Outside caret mode it does nothing.
func (t *Tab) SyncCaret(ctx context.Context) error {
	if t.modes.Current() != mode.Caret {
		return nil
	}
	return t.caret.Enter(ctx)
}

// SubscribeLoads returns document reloads until ctx is done.
func (t *Tab) SubscribeLoads(ctx context.Context) <-chan pubsub.Event[Loaded] {
	return t.loaded.Subscribe(ctx)
}

// Reload swaps the document. The selection is clamped to the new content.
func (t *Tab) Reload(ctx context.Context, doc *document.Document) error {
	release, err := t.eng.Token().Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if _, err := engine.Await(ctx, t.eng.Done(), t.cfg.Caret.QueryTimeout, func(cb func(engine.Selection)) {
		t.eng.Load(doc, cb)
	}); err != nil {
		return fmt.Errorf("reload document: %w", err)
	}
	snap, err := t.Snapshot(ctx)
	if err != nil {
		return err
	}
	t.loaded.Publish(pubsub.DocumentLoadedEvent, Loaded{Revision: snap.Revision, Graphemes: snap.Document.Len()})
	return nil
}

// Resize changes the viewport width between commands.
func (t *Tab) Resize(ctx context.Context, width int) error {
	release, err := t.eng.Token().Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	_, err = engine.Await(ctx, t.eng.Done(), t.cfg.Caret.QueryTimeout, func(cb func(int)) {
		t.eng.Resize(width, cb)
	})
	return err
}

// Snapshot returns the document, layout and selection for rendering.
func (t *Tab) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	return engine.Await(ctx, t.eng.Done(), t.cfg.Caret.QueryTimeout, t.eng.Snapshot)
}

// Close stops the engine and releases subscribers.
func (t *Tab) Close() {
	t.caret.Close()
	t.search.Close()
	t.modes.Close()
	t.loaded.Close()
	t.eng.Close()
	log.Info(log.CatEngine, "tab closed", "tab", t.id)
}
