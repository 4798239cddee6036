package engine

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/zjrosen/caret/internal/log"
)

// FindOrigin is the edge of the native selection a search starts from.
type FindOrigin int

const (
	FromSelectionStart FindOrigin = iota
	FromSelectionEnd
)

// FindOptions controls a single Find request.
type FindOptions struct {
	Backward   bool
	IgnoreCase bool
	Wrap       bool
	Origin     FindOrigin
}

// Match is the grapheme range of a find result.
type Match struct {
	Start int
	End   int
}

// Find looks for query starting at the native selection and, on a hit,
// selects the match with the anchor at its start. Forward searches accept a
// match starting at the origin; backward searches need one starting before it.
// Without a selection the search starts at the document edge.
func (e *Engine) Find(query string, opts FindOptions, cb func(Match, bool)) {
	e.post(func() {
		m, ok := e.find(query, opts)
		if ok {
			e.sel = Span(m.Start, m.End)
		}
		log.Debug(log.CatEngine, "find", "query", query, "backward", opts.Backward, "found", ok, "start", m.Start)
		if cb != nil {
			cb(m, ok)
		}
	})
}

func (e *Engine) find(query string, opts FindOptions) (Match, bool) {
	size := uniseg.GraphemeClusterCount(query)
	n := e.doc.Len()
	if size == 0 || size > n {
		return Match{}, false
	}

	origin := 0
	switch {
	case e.sel.Type == SelectionNone && opts.Backward:
		origin = n
	case e.sel.Type == SelectionNone:
		origin = 0
	case opts.Origin == FromSelectionEnd:
		origin = e.sel.End()
	default:
		origin = e.sel.Start()
	}

	matchAt := func(p int) bool {
		candidate := e.doc.Slice(p, p+size)
		if opts.IgnoreCase {
			return strings.EqualFold(candidate, query)
		}
		return candidate == query
	}
	found := func(p int) (Match, bool) {
		return Match{Start: p, End: p + size}, true
	}

	last := n - size
	if !opts.Backward {
		for p := origin; p <= last; p++ {
			if matchAt(p) {
				return found(p)
			}
		}
		if opts.Wrap {
			for p := 0; p < origin && p <= last; p++ {
				if matchAt(p) {
					return found(p)
				}
			}
		}
		return Match{}, false
	}

	for p := min(origin-1, last); p >= 0; p-- {
		if matchAt(p) {
			return found(p)
		}
	}
	if opts.Wrap {
		for p := last; p >= origin && p >= 0; p-- {
			if matchAt(p) {
				return found(p)
			}
		}
	}
	return Match{}, false
}
