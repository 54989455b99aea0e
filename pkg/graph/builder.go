package graph

import (
	"sort"
)

// RawLink is a directed link discovered while crawling.
type RawLink struct {
	From string
	To   string
}

// Build creates a CSR LinkGraph from crawled links. expanded lists the
// pages whose outbound links were fully collected; a page in expanded with
// no links is a genuine dead end. Duplicate links are dropped.
func Build(rawLinks []RawLink, expanded []string) *LinkGraph {
	// Step 1: Collect all titles and assign indices in lexical order.
	titleSet := make(map[string]struct{}, len(expanded))
	for _, t := range expanded {
		titleSet[t] = struct{}{}
	}
	for _, l := range rawLinks {
		titleSet[l.From] = struct{}{}
		titleSet[l.To] = struct{}{}
	}
	if len(titleSet) == 0 {
		return &LinkGraph{FirstOut: []uint32{0}}
	}

	titles := make([]string, 0, len(titleSet))
	for t := range titleSet {
		titles = append(titles, t)
	}
	sort.Strings(titles)

	index := make(map[string]uint32, len(titles))
	for i, t := range titles {
		index[t] = uint32(i)
	}
	numNodes := uint32(len(titles))

	// Step 2: Remap, sort by source, and deduplicate.
	type compactEdge struct{ from, to uint32 }
	compact := make([]compactEdge, len(rawLinks))
	for i, l := range rawLinks {
		compact[i] = compactEdge{from: index[l.From], to: index[l.To]}
	}
	sort.Slice(compact, func(i, j int) bool {
		if compact[i].from != compact[j].from {
			return compact[i].from < compact[j].from
		}
		return compact[i].to < compact[j].to
	})
	uniq := compact[:0]
	for _, e := range compact {
		if len(uniq) > 0 && e == uniq[len(uniq)-1] {
			continue
		}
		uniq = append(uniq, e)
	}

	// Step 3: Build CSR arrays.
	numEdges := uint32(len(uniq))
	firstOut := make([]uint32, numNodes+1)
	head := make([]uint32, numEdges)
	for i, e := range uniq {
		head[i] = e.to
		firstOut[e.from+1]++
	}
	// Prefix sum.
	for i := uint32(1); i <= numNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}

	// Step 4: Mark expanded pages. A page with outbound links was expanded
	// even if the caller forgot to list it.
	exp := make([]bool, numNodes)
	for _, t := range expanded {
		exp[index[t]] = true
	}
	for _, e := range uniq {
		exp[e.from] = true
	}

	return &LinkGraph{
		NumNodes: numNodes,
		NumEdges: numEdges,
		Titles:   titles,
		Expanded: exp,
		FirstOut: firstOut,
		Head:     head,
		index:    index,
	}
}
