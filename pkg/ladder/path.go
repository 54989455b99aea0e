// Package ladder holds the path type shared by the frontier and the search.
package ladder

import "strings"

// Path is an ordered, append-only sequence of page identifiers.
// The zero value is an empty path. A Path never shares its backing array
// with another Path: Append always copies.
type Path struct {
	ids []string
}

// New returns a single-element path.
func New(start string) Path {
	return Path{ids: []string{start}}
}

// FromIDs returns a path holding a copy of ids.
func FromIDs(ids ...string) Path {
	if len(ids) == 0 {
		return Path{}
	}
	cp := make([]string, len(ids))
	copy(cp, ids)
	return Path{ids: cp}
}

// Append returns a new path with id added to the end. p is left untouched.
func (p Path) Append(id string) Path {
	ids := make([]string, len(p.ids)+1)
	copy(ids, p.ids)
	ids[len(p.ids)] = id
	return Path{ids: ids}
}

// Len returns the number of identifiers in the path.
func (p Path) Len() int { return len(p.ids) }

// IsEmpty reports whether the path has no identifiers.
func (p Path) IsEmpty() bool { return len(p.ids) == 0 }

// Last returns the final identifier, or "" for an empty path.
func (p Path) Last() string {
	if len(p.ids) == 0 {
		return ""
	}
	return p.ids[len(p.ids)-1]
}

// IDs returns a copy of the identifiers.
func (p Path) IDs() []string {
	if len(p.ids) == 0 {
		return nil
	}
	cp := make([]string, len(p.ids))
	copy(cp, p.ids)
	return cp
}

// String renders the path as "[A B C]".
func (p Path) String() string {
	return "[" + strings.Join(p.ids, " ") + "]"
}
