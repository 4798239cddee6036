// Package search is find-in-page. A hit selects the match in the engine, which
// is how caret mode picks up where a search left off.
package search

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/caret/internal/config"
	"github.com/zjrosen/caret/internal/engine"
	"github.com/zjrosen/caret/internal/log"
	"github.com/zjrosen/caret/internal/pubsub"
	"github.com/zjrosen/caret/internal/tracing"
)

// ErrNoQuery is returned by NextResult and PrevResult before any Search.
var ErrNoQuery = errors.New("no search in progress")

// Finder is the part of the engine search drives.
type Finder interface {
	Find(query string, opts engine.FindOptions, cb func(engine.Match, bool))
	Selection(cb func(engine.Selection))
	SetSelection(sel engine.Selection, cb func(engine.Selection))
	Done() <-chan struct{}
}

// Locker is the single-writer token of a document context.
type Locker interface {
	Acquire(ctx context.Context) (func(), error)
}

// Result describes the outcome of one search request.
type Result struct {
	Query    string
	Found    bool
	Backward bool
	Match    engine.Match
}

// Option configures a Search.
type Option func(*Search)

// WithIgnoreCase sets the case mode: config.IgnoreCaseSmart, Always or Never.
func WithIgnoreCase(mode string) Option {
	return func(s *Search) { s.ignoreCase = mode }
}

// WithWrap controls whether searches wrap around the document edges.
func WithWrap(wrap bool) Option {
	return func(s *Search) { s.wrap = wrap }
}

// WithQueryTimeout bounds each engine round-trip when ctx has no deadline.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Search) { s.timeout = d }
}

// WithTracer records a span per search request.
func WithTracer(t trace.Tracer) Option {
	return func(s *Search) { s.tracer = t }
}

// Search runs find-in-page requests for one document context.
type Search struct {
	eng        Finder
	token      Locker
	ignoreCase string
	wrap       bool
	timeout    time.Duration
	tracer     trace.Tracer
	events     *pubsub.Broker[Result]

	mu    sync.Mutex
	query string
	last  Result
}

// New creates a Search over eng.
func New(eng Finder, token Locker, opts ...Option) *Search {
	s := &Search{
		eng:        eng,
		token:      token,
		ignoreCase: config.IgnoreCaseSmart,
		wrap:       true,
		timeout:    2 * time.Second,
		tracer:     tracing.Noop(),
		events:     pubsub.NewBroker[Result](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe returns search results until ctx is done.
func (s *Search) Subscribe(ctx context.Context) <-chan pubsub.Event[Result] {
	return s.events.Subscribe(ctx)
}

// Close releases subscribers.
func (s *Search) Close() {
	s.events.Close()
}

// Query returns the active query, "" when none.
func (s *Search) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Last returns the most recent result.
func (s *Search) Last() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Search looks for query from the start of the current selection, or from
// the document start when there is none.
func (s *Search) Search(ctx context.Context, query string) (bool, error) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
	return s.find(ctx, "find", query, false, engine.FromSelectionStart)
}

// NextResult finds the next match after the current selection.
func (s *Search) NextResult(ctx context.Context) (bool, error) {
	query := s.Query()
	if query == "" {
		return false, ErrNoQuery
	}
	return s.find(ctx, "next", query, false, engine.FromSelectionEnd)
}

// PrevResult finds the previous match before the current selection.
func (s *Search) PrevResult(ctx context.Context) (bool, error) {
	query := s.Query()
	if query == "" {
		return false, ErrNoQuery
	}
	return s.find(ctx, "prev", query, true, engine.FromSelectionStart)
}

// Clear forgets the query. A selected match collapses onto its start.
func (s *Search) Clear(ctx context.Context) error {
	s.mu.Lock()
	last := s.last
	s.query = ""
	s.last = Result{}
	s.mu.Unlock()

	if !last.Found {
		return nil
	}

	release, err := s.token.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	sel, err := engine.Await(ctx, s.eng.Done(), s.timeout, s.eng.Selection)
	if err != nil {
		return err
	}
	if sel.Type == engine.SelectionRange && sel.Start() == last.Match.Start && sel.End() == last.Match.End {
		_, err = engine.Await(ctx, s.eng.Done(), s.timeout, func(cb func(engine.Selection)) {
			s.eng.SetSelection(engine.Collapsed(last.Match.Start), cb)
		})
	}
	return err
}

func (s *Search) find(ctx context.Context, op, query string, backward bool, origin engine.FindOrigin) (bool, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixSearch+op,
		trace.WithAttributes(
			attribute.String(tracing.AttrQuery, query),
			attribute.Bool(tracing.AttrBackward, backward),
		))
	defer span.End()

	release, err := s.token.Acquire(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	defer release()

	opts := engine.FindOptions{
		Backward:   backward,
		IgnoreCase: s.foldCase(query),
		Wrap:       s.wrap,
		Origin:     origin,
	}
	type answer struct {
		match engine.Match
		found bool
	}
	a, err := engine.Await(ctx, s.eng.Done(), s.timeout, func(cb func(answer)) {
		s.eng.Find(query, opts, func(m engine.Match, found bool) { cb(answer{m, found}) })
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn(log.CatSearch, "search failed", "op", op, "query", query, "error", err)
		return false, err
	}

	result := Result{Query: query, Found: a.found, Backward: backward, Match: a.match}
	s.mu.Lock()
	s.last = result
	s.mu.Unlock()

	span.SetAttributes(attribute.Bool(tracing.AttrFound, a.found))
	if a.found {
		span.SetAttributes(attribute.Int(tracing.AttrMatchStart, a.match.Start))
	}
	log.Debug(log.CatSearch, "search", "op", op, "query", query, "found", a.found, "start", a.match.Start)
	s.events.Publish(pubsub.SearchResultEvent, result)
	return a.found, nil
}

// foldCase resolves the case mode for query. Smart case ignores case unless
// the query contains an upper-case letter.
func (s *Search) foldCase(query string) bool {
	switch s.ignoreCase {
	case config.IgnoreCaseAlways:
		return true
	case config.IgnoreCaseNever:
		return false
	}
	for _, r := range query {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
