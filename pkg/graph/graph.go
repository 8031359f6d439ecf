// Package graph implements the undirected simple graph container used as
// the original network and as the reusable randomized replica.
package graph

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
)

// NodeHandle identifies a node independent of its label. Handles are stable
// for the lifetime of a Graph; they are gonum node IDs underneath.
type NodeHandle int64

// Edge is a materialized (u, v, weight) triple with u < v by handle value.
type Edge struct {
	U, V   NodeHandle
	Weight float64
}

// Graph is an undirected simple graph with string node labels and real edge
// weights, backed by gonum's WeightedUndirectedGraph.
type Graph struct {
	g       *simple.WeightedUndirectedGraph
	labels  map[NodeHandle]string
	byLabel map[string]NodeHandle
	nextID  int64

	// neighborBins caches, per node, the degree bins of its neighbors in
	// this graph at the time RefreshNeighborBins was last called. Only
	// populated when a null-model method needs it (Method 2).
	neighborBins map[NodeHandle][]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		g:       simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		labels:  make(map[NodeHandle]string),
		byLabel: make(map[string]NodeHandle),
	}
}

// AddNode creates a new node with the given label and returns its handle.
// Labels must be unique within a graph.
func (gr *Graph) AddNode(label string) (NodeHandle, error) {
	if _, exists := gr.byLabel[label]; exists {
		return 0, fmt.Errorf("graph: duplicate node label %q", label)
	}
	h := NodeHandle(gr.nextID)
	gr.nextID++
	gr.g.AddNode(simple.Node(int64(h)))
	gr.labels[h] = label
	gr.byLabel[label] = h
	return h, nil
}

// AddEdge adds an undirected edge u-v with the given weight. It is a no-op
// if the edge already exists, and fails if u == v.
func (gr *Graph) AddEdge(u, v NodeHandle, weight float64) error {
	if u == v {
		return fmt.Errorf("graph: self-loop rejected for node %d", u)
	}
	if gr.HasEdge(u, v) {
		return nil
	}
	gr.g.SetWeightedEdge(simple.WeightedEdge{
		F: simple.Node(int64(u)),
		T: simple.Node(int64(v)),
		W: weight,
	})
	return nil
}

// RemoveEdge removes the undirected edge u-v if present.
func (gr *Graph) RemoveEdge(u, v NodeHandle) {
	gr.g.RemoveEdge(int64(u), int64(v))
}

// ClearEdges removes every edge while keeping all nodes and labels.
func (gr *Graph) ClearEdges() {
	for _, e := range gr.EdgesSnapshot() {
		gr.RemoveEdge(e.U, e.V)
	}
}

// HasEdge reports whether u and v are adjacent.
func (gr *Graph) HasEdge(u, v NodeHandle) bool {
	return gr.g.HasEdgeBetween(int64(u), int64(v))
}

// Degree returns the number of distinct neighbors of v.
func (gr *Graph) Degree(v NodeHandle) int {
	return gr.g.From(int64(v)).Len()
}

// Neighbors returns the handles adjacent to v, order unspecified.
func (gr *Graph) Neighbors(v NodeHandle) []NodeHandle {
	it := gr.g.From(int64(v))
	out := make([]NodeHandle, 0, it.Len())
	for it.Next() {
		out = append(out, NodeHandle(it.Node().ID()))
	}
	return out
}

// EdgesSnapshot returns every edge as a materialized slice, safe to mutate
// the graph while iterating the result. Every generator takes this snapshot
// before starting a swap walk.
func (gr *Graph) EdgesSnapshot() []Edge {
	it := gr.g.Edges()
	out := make([]Edge, 0, gr.NumEdges())
	for it.Next() {
		e := it.Edge().(simple.WeightedEdge)
		u := NodeHandle(e.F.ID())
		v := NodeHandle(e.T.ID())
		if u > v {
			u, v = v, u
		}
		out = append(out, Edge{U: u, V: v, Weight: e.W})
	}
	return out
}

// Nodes returns every node handle in ascending handle order.
func (gr *Graph) Nodes() []NodeHandle {
	out := make([]NodeHandle, 0, len(gr.labels))
	for h := range gr.labels {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NumNodes returns the node count.
func (gr *Graph) NumNodes() int { return len(gr.labels) }

// NumEdges returns the edge count.
func (gr *Graph) NumEdges() int { return gr.g.Edges().Len() }

// Label returns the label of v.
func (gr *Graph) Label(v NodeHandle) string { return gr.labels[v] }

// NodeByLabel looks up a node handle by its (already uppercased) label.
func (gr *Graph) NodeByLabel(label string) (NodeHandle, bool) {
	h, ok := gr.byLabel[label]
	return h, ok
}

// CloneTopology returns a new Graph with the same nodes, labels and edges.
// Used by the orchestrator to create the reusable replica graph once per
// run; its edge set is then restored before every iteration by ResetFrom.
func (gr *Graph) CloneTopology() *Graph {
	out := New()
	out.nextID = gr.nextID
	for h, label := range gr.labels {
		out.g.AddNode(simple.Node(int64(h)))
		out.labels[h] = label
		out.byLabel[label] = h
	}
	for _, e := range gr.EdgesSnapshot() {
		out.AddEdge(e.U, e.V, e.Weight)
	}
	return out
}

// RelabelAll replaces every node's label according to newLabels, keyed by
// handle. Used by the label-permutation null model, which changes labels
// without touching topology. newLabels must be a permutation of the
// existing labels (unique, covering every node).
func (gr *Graph) RelabelAll(newLabels map[NodeHandle]string) {
	gr.byLabel = make(map[string]NodeHandle, len(newLabels))
	for h, label := range newLabels {
		gr.labels[h] = label
		gr.byLabel[label] = h
	}
}

// ResetFrom overwrites gr's edge set (and only its edge set — node identity
// and labels are assumed already aligned) to match src, without allocating
// a new underlying container. Node sets of gr and src must be identical.
func (gr *Graph) ResetFrom(src *Graph) {
	gr.ClearEdges()
	for _, e := range src.EdgesSnapshot() {
		gr.AddEdge(e.U, e.V, e.Weight)
	}
}
