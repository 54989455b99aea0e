package links

import (
	"errors"
	"fmt"
)

// ErrBadStatus is wrapped by RetrievalError when the page server answers
// with a non-2xx status.
var ErrBadStatus = errors.New("unexpected status")

// RetrievalError reports that the links of a page could not be fetched
// or parsed.
type RetrievalError struct {
	ID  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve %q: %v", e.ID, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }
