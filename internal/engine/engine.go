// Package engine is an in-process reference rendering engine. It owns the
// document, its layout and the native selection on a single event-loop
// goroutine; every query is posted to that loop and answered through a
// callback, in the order the queries were posted.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/caret/internal/cachemanager"
	"github.com/zjrosen/caret/internal/document"
	"github.com/zjrosen/caret/internal/log"
)

// ErrClosed is returned by Await once the engine stopped.
var ErrClosed = errors.New("engine closed")

// Option configures an Engine.
type Option func(*Engine)

// WithViewportWidth sets the wrap width in cells. 0 disables wrapping.
func WithViewportWidth(width int) Option {
	return func(e *Engine) { e.width = max(0, width) }
}

// WithLatency delays every request by d before it is processed.
func WithLatency(d time.Duration) Option {
	return func(e *Engine) { e.latency = d }
}

// WithLayoutCacheTTL sets how long computed layouts stay cached.
func WithLayoutCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) { e.layoutTTL = ttl }
}

// WithLayoutCache shares a layout cache between engines.
func WithLayoutCache(c cachemanager.CacheManager[*Layout]) Option {
	return func(e *Engine) { e.layoutStore = c }
}

// Engine is one document context.
type Engine struct {
	id      uuid.UUID
	token   *Token
	latency time.Duration

	mu        sync.Mutex
	queue     []func()
	gate      chan struct{} // non-nil while suspended
	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	layoutTTL   time.Duration
	layoutStore cachemanager.CacheManager[*Layout]
	layouts     *cachemanager.ReadThroughCache[*Layout, layoutInput]

	// Owned by the loop goroutine after New returns.
	doc      *document.Document
	revision int
	width    int
	sel      Selection
	words    []span
}

type layoutInput struct {
	doc   *document.Document
	width int
}

// New starts an engine showing doc. The native selection starts empty.
func New(doc *document.Document, opts ...Option) *Engine {
	if doc == nil {
		doc = document.New()
	}
	e := &Engine{
		id:        uuid.New(),
		token:     NewToken(),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
		layoutTTL: cachemanager.DefaultExpiration,
		doc:       doc,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.layoutStore == nil {
		e.layoutStore = cachemanager.NewInMemoryCacheManager[*Layout]("layouts", e.layoutTTL, cachemanager.DefaultCleanupInterval)
	}
	e.layouts = cachemanager.NewReadThroughCache(e.layoutStore, func(in layoutInput) *Layout {
		log.Debug(log.CatEngine, "computing layout", "engine", e.id, "width", in.width)
		return computeLayout(in.doc, in.width)
	}, e.layoutTTL)
	e.words = indexWords(doc)

	go e.loop()
	return e
}

// ID identifies the document context.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Token returns the single-writer token of this document context.
func (e *Engine) Token() *Token {
	return e.token
}

// Done is closed once the engine stops.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Close stops the loop. Requests still queued, and any posted later, are
// never answered.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		close(e.done)
		e.layouts.Invalidate(e.id.String())
		log.Debug(log.CatEngine, "engine closed", "engine", e.id)
	})
}

// Suspend stops processing requests until Resume. Requests keep queueing.
func (e *Engine) Suspend() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gate == nil {
		e.gate = make(chan struct{})
	}
}

// Resume continues processing after Suspend.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gate != nil {
		close(e.gate)
		e.gate = nil
	}
}

// post queues fn for the loop. It never blocks.
func (e *Engine) post(fn func()) {
	select {
	case <-e.done:
		return
	default:
	}

	e.mu.Lock()
	e.queue = append(e.queue, fn)
	e.mu.Unlock()

	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *Engine) next() (func(), chan struct{}, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return nil, nil, false
	}
	fn := e.queue[0]
	e.queue[0] = nil
	e.queue = e.queue[1:]
	return fn, e.gate, true
}

func (e *Engine) loop() {
	for {
		select {
		case <-e.done:
			return
		case <-e.wake:
		}

		for {
			fn, gate, ok := e.next()
			if !ok {
				break
			}
			if gate != nil {
				select {
				case <-gate:
				case <-e.done:
					return
				}
			}
			if e.latency > 0 {
				select {
				case <-time.After(e.latency):
				case <-e.done:
					return
				}
			}
			select {
			case <-e.done:
				return
			default:
			}
			fn()
		}
	}
}

func (e *Engine) layout() *Layout {
	key := fmt.Sprintf("%s:%d:%d", e.id, e.revision, e.width)
	return e.layouts.Get(key, layoutInput{doc: e.doc, width: e.width})
}

// Selection reports the native selection.
func (e *Engine) Selection(cb func(Selection)) {
	e.post(func() {
		deliver(cb, e.sel)
	})
}

// SetSelection replaces the native selection, clamped to the document.
func (e *Engine) SetSelection(sel Selection, cb func(Selection)) {
	e.post(func() {
		e.sel = e.clampSelection(sel)
		log.Debug(log.CatEngine, "selection set", "selection", e.sel)
		deliver(cb, e.sel)
	})
}

// Collapse collapses the selection onto its focus. An empty selection stays empty.
func (e *Engine) Collapse(cb func(Selection)) {
	e.post(func() {
		if e.sel.Type != SelectionNone {
			e.sel = Collapsed(e.sel.Focus)
		}
		deliver(cb, e.sel)
	})
}

// Clear removes the selection and the caret.
func (e *Engine) Clear(cb func(Selection)) {
	e.post(func() {
		e.sel = NoSelection()
		deliver(cb, e.sel)
	})
}

// Modify moves or extends the selection focus by one unit of g in dir.
// Requests that cannot move leave the selection as it is.
func (e *Engine) Modify(alter Alter, dir Direction, g Granularity, cb func(Selection)) {
	e.post(func() {
		if e.sel.Type == SelectionNone {
			deliver(cb, e.sel)
			return
		}
		target := e.resolve(e.sel.Focus, dir, g)
		if alter == Extend {
			e.sel = Span(e.sel.Anchor, target)
		} else {
			e.sel = Collapsed(target)
		}
		log.Debug(log.CatEngine, "modify",
			"alter", alter, "direction", dir, "granularity", g, "selection", e.sel)
		deliver(cb, e.sel)
	})
}

// SelectedText reports the text between anchor and focus.
func (e *Engine) SelectedText(cb func(string)) {
	e.post(func() {
		text := ""
		if e.sel.Type == SelectionRange {
			text = e.doc.Slice(e.sel.Anchor, e.sel.Focus)
		}
		deliver(cb, text)
	})
}

// Load replaces the document. The selection is clamped to the new content.
func (e *Engine) Load(doc *document.Document, cb func(Selection)) {
	e.post(func() {
		if doc == nil {
			doc = document.New()
		}
		e.layouts.Invalidate(fmt.Sprintf("%s:%d:", e.id, e.revision))
		e.doc = doc
		e.revision++
		e.words = indexWords(doc)
		e.sel = e.clampSelection(e.sel)
		log.Info(log.CatEngine, "document loaded", "engine", e.id, "revision", e.revision, "graphemes", doc.Len())
		deliver(cb, e.sel)
	})
}

// Resize changes the wrap width.
func (e *Engine) Resize(width int, cb func(int)) {
	e.post(func() {
		e.width = max(0, width)
		deliver(cb, e.width)
	})
}

// Snapshot is a consistent view of the engine state for rendering.
type Snapshot struct {
	Document  *document.Document
	Layout    *Layout
	Selection Selection
	Revision  int
}

// Snapshot reports the current document, layout and selection together.
func (e *Engine) Snapshot(cb func(Snapshot)) {
	e.post(func() {
		deliver(cb, Snapshot{
			Document:  e.doc,
			Layout:    e.layout(),
			Selection: e.sel,
			Revision:  e.revision,
		})
	})
}

func (e *Engine) clampSelection(sel Selection) Selection {
	if sel.Type == SelectionNone {
		return sel
	}
	return Span(e.doc.Clamp(sel.Anchor), e.doc.Clamp(sel.Focus))
}

func deliver[T any](cb func(T), v T) {
	if cb != nil {
		cb(v)
	}
}
