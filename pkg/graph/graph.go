// Package graph stores crawled link graphs in CSR (Compressed Sparse Row)
// form so searches can run against a fixed snapshot instead of live pages.
package graph

import (
	"context"
	"errors"
	"sync"

	"wiki_ladder/pkg/links"
)

// ErrUnknownPage is wrapped in a links.RetrievalError when a page was not
// expanded while the snapshot was crawled.
var ErrUnknownPage = errors.New("page not in snapshot")

// LinkGraph is a directed page graph in CSR format.
// Titles are sorted, so node i is the i-th title in lexical order.
type LinkGraph struct {
	NumNodes uint32
	NumEdges uint32
	Titles   []string // len: NumNodes
	Expanded []bool   // len: NumNodes; false for pages only seen as link targets
	FirstOut []uint32 // len: NumNodes + 1; FirstOut[i]..FirstOut[i+1] are edges from node i
	Head     []uint32 // len: NumEdges; target node for each edge

	index     map[string]uint32
	indexOnce sync.Once
}

// EdgesFrom returns the range of edge indices for edges originating from node u.
func (g *LinkGraph) EdgesFrom(u uint32) (start, end uint32) {
	return g.FirstOut[u], g.FirstOut[u+1]
}

// Lookup returns the node index of title. It is safe for concurrent use.
func (g *LinkGraph) Lookup(title string) (uint32, bool) {
	g.indexOnce.Do(func() {
		if g.index == nil {
			g.buildIndex()
		}
	})
	u, ok := g.index[title]
	return u, ok
}

// NumExpanded returns the number of pages whose links were crawled.
func (g *LinkGraph) NumExpanded() int {
	n := 0
	for _, e := range g.Expanded {
		if e {
			n++
		}
	}
	return n
}

// Fetch implements links.Fetcher over the snapshot.
func (g *LinkGraph) Fetch(ctx context.Context, id string) (links.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, ok := g.Lookup(id)
	if !ok || !g.Expanded[u] {
		return nil, &links.RetrievalError{ID: id, Err: ErrUnknownPage}
	}
	start, end := g.EdgesFrom(u)
	set := make(links.Set, end-start)
	for e := start; e < end; e++ {
		set[g.Titles[g.Head[e]]] = struct{}{}
	}
	return set, nil
}

func (g *LinkGraph) buildIndex() {
	g.index = make(map[string]uint32, len(g.Titles))
	for i, t := range g.Titles {
		g.index[t] = uint32(i)
	}
}
