package tracing

// Span attribute keys.
const (
	AttrCommand     = "caret.command"
	AttrCount       = "caret.count"
	AttrSelecting   = "caret.selecting"
	AttrPosition    = "caret.position"
	AttrTabID       = "tab.id"
	AttrQuery       = "search.query"
	AttrBackward    = "search.backward"
	AttrFound       = "search.found"
	AttrMatchStart  = "search.match.start"
	AttrMode        = "mode.name"
	AttrErrorType   = "error.type"
	AttrErrorReason = "error.message"
)

// Span name prefixes.
const (
	SpanPrefixCaret  = "caret."
	SpanPrefixSearch = "search."
	SpanPrefixMode   = "mode."
)
