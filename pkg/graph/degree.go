package graph

import (
	"math"
	"sort"
)

// DegreeBin quantizes a degree into the coarse bin used by Method 2's
// candidate pools. Deliberately coarse; must match bit-for-bit across
// implementations, per design note in the original reference tool.
func DegreeBin(d int) int {
	if d < 1 {
		return 0
	}
	return int(math.Round(math.Log(float64(d)) + 1))
}

// DegreeIndex maps a degree bin to the nodes currently in it. Built from
// the original graph once per run by the orchestrator, and again on every
// call of the label-swap generator. The Assignment variants copy a bin's
// nodes into their own candidate pool and leave the index unchanged.
type DegreeIndex struct {
	bins map[int][]NodeHandle
}

// BuildDegreeIndex computes the degree index of gr as it stands right now.
func BuildDegreeIndex(gr *Graph) *DegreeIndex {
	idx := &DegreeIndex{bins: make(map[int][]NodeHandle)}
	for _, v := range gr.Nodes() {
		b := DegreeBin(gr.Degree(v))
		idx.bins[b] = append(idx.bins[b], v)
	}
	for _, nodes := range idx.bins {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	}
	return idx
}

// Bin returns the nodes currently indexed under bin b, order unspecified.
func (idx *DegreeIndex) Bin(b int) []NodeHandle { return idx.bins[b] }

// Remove deletes v from bin b's list. A no-op if v is not present.
func (idx *DegreeIndex) Remove(b int, v NodeHandle) {
	nodes := idx.bins[b]
	for i, n := range nodes {
		if n == v {
			idx.bins[b] = append(nodes[:i], nodes[i+1:]...)
			return
		}
	}
}

// RefreshNeighborBins recomputes and caches, for every node in gr, the
// multiset of degree bins of its current neighbors. Required by Method 2
// and must be called against the original graph before that generator
// runs; the cache is then copied onto the replica via CopyNeighborBins.
func (gr *Graph) RefreshNeighborBins() {
	gr.neighborBins = make(map[NodeHandle][]int, len(gr.labels))
	for _, v := range gr.Nodes() {
		neighbors := gr.Neighbors(v)
		bins := make([]int, len(neighbors))
		for i, u := range neighbors {
			bins[i] = DegreeBin(gr.Degree(u))
		}
		gr.neighborBins[v] = bins
	}
}

// NeighborBins returns the cached neighbor-degree-bin multiset for v, or
// nil if RefreshNeighborBins was never called.
func (gr *Graph) NeighborBins(v NodeHandle) []int { return gr.neighborBins[v] }

// CopyNeighborBins copies src's neighbor-degree-bin cache onto gr, keyed by
// handle. Node sets of gr and src must match.
func (gr *Graph) CopyNeighborBins(src *Graph) {
	gr.neighborBins = make(map[NodeHandle][]int, len(src.neighborBins))
	for h, bins := range src.neighborBins {
		cp := make([]int, len(bins))
		copy(cp, bins)
		gr.neighborBins[h] = cp
	}
}
