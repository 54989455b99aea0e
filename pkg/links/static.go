package links

import (
	"context"
	"errors"
)

// ErrNoPage is wrapped by RetrievalError when a Static source has no
// entry for the requested identifier.
var ErrNoPage = errors.New("page not found")

// Static is an in-memory Fetcher backed by an adjacency map. Identifiers
// absent from the map fail with ErrNoPage unless Lenient is set, in which
// case they have no links.
type Static struct {
	Links   map[string][]string
	Lenient bool
}

// Fetch returns the links recorded for id.
func (s Static) Fetch(ctx context.Context, id string) (Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, ok := s.Links[id]
	if !ok && !s.Lenient {
		return nil, &RetrievalError{ID: id, Err: ErrNoPage}
	}
	return NewSet(out...), nil
}
