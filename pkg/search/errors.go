package search

import (
	"errors"

	"wiki_ladder/pkg/links"
)

var (
	// ErrNotFound is returned when the frontier is exhausted without reaching the target.
	ErrNotFound = errors.New("no ladder found")

	// ErrTimeout is returned when the deadline or the step budget runs out first.
	ErrTimeout = errors.New("search budget exhausted")
)

// RetrievalError is the Link Source failure type surfaced when a search
// is configured to abort on retrieval errors.
type RetrievalError = links.RetrievalError
