package nullmodel

import (
	"sort"

	"github.com/crosstalkz/crosstalkz/pkg/crosstalkerr"
	"github.com/crosstalkz/crosstalkz/pkg/graph"
)

// DegreeError names one node whose replica degree does not match the
// original. Deficit is the signed difference degree_G(v) - degree_Gr(v);
// positive means the replica is short edges at v.
type DegreeError struct {
	Node    graph.NodeHandle
	Deficit int
}

// Validate walks the original and replica node sets in the same handle
// order (they share handles by construction) and reports every degree
// mismatch, sorted by ascending signed deficit. A label mismatch between
// the two graphs at the same handle is a bug, not a recoverable error.
func Validate(original, replica *graph.Graph) ([]DegreeError, error) {
	origNodes := original.Nodes()
	replNodes := replica.Nodes()
	if len(origNodes) != len(replNodes) {
		return nil, &crosstalkerr.InternalInvariantError{
			Detail: "replica node count does not match original",
		}
	}
	for i, v := range origNodes {
		if replNodes[i] != v {
			return nil, &crosstalkerr.InternalInvariantError{
				Detail: "replica node handles diverge from original during validation walk",
			}
		}
		if original.Label(v) != replica.Label(v) {
			return nil, &crosstalkerr.InternalInvariantError{
				Detail: "label mismatch between original and replica at the same handle",
			}
		}
	}

	var errs []DegreeError
	for _, v := range origNodes {
		dg, dr := original.Degree(v), replica.Degree(v)
		if dg != dr {
			errs = append(errs, DegreeError{Node: v, Deficit: dg - dr})
		}
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Deficit < errs[j].Deficit })
	return errs, nil
}

// IsValid reports whether a replica passes validation: no degree errors
// and matching node/edge counts.
func IsValid(original, replica *graph.Graph, errs []DegreeError) bool {
	return len(errs) == 0 &&
		original.NumNodes() == replica.NumNodes() &&
		original.NumEdges() == replica.NumEdges()
}

// Repair attempts to eliminate every degree error in place, odd deficits
// first and then even deficits — this order is load-bearing, reversing it
// converges worse on sparse inputs. Returns the residual errors, empty on
// full success.
func Repair(replica *graph.Graph, errs []DegreeError) []DegreeError {
	deficits := make(map[graph.NodeHandle]int)
	for _, e := range errs {
		if e.Deficit > 0 {
			deficits[e.Node] = e.Deficit
		}
	}

	repairOddDeficits(replica, deficits)
	repairEvenDeficits(replica, deficits)

	out := make([]DegreeError, 0, len(deficits))
	for v, d := range deficits {
		if d != 0 {
			out = append(out, DegreeError{Node: v, Deficit: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deficit < out[j].Deficit })
	return out
}

func repairOddDeficits(replica *graph.Graph, deficits map[graph.NodeHandle]int) {
	for {
		odds := oddDeficitNodes(deficits)
		if len(odds) < 2 {
			return
		}
		paired := false
		for i := 0; i < len(odds) && !paired; i++ {
			for j := i + 1; j < len(odds); j++ {
				a, b := odds[i], odds[j]
				if rewireForPair(replica, a, b) {
					deficits[a]--
					deficits[b]--
					if deficits[a] == 0 {
						delete(deficits, a)
					}
					if deficits[b] == 0 {
						delete(deficits, b)
					}
					paired = true
					break
				}
			}
		}
		if !paired {
			return
		}
	}
}

func oddDeficitNodes(deficits map[graph.NodeHandle]int) []graph.NodeHandle {
	out := make([]graph.NodeHandle, 0, len(deficits))
	for v, d := range deficits {
		if d%2 != 0 {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// rewireForPair looks for an edge (u,v) disjoint from {a,b} such that
// breaking it and adding (u,a) and (v,b) introduces no parallel edge.
// Applies the first one found.
func rewireForPair(replica *graph.Graph, a, b graph.NodeHandle) bool {
	for _, e := range replica.EdgesSnapshot() {
		u, v := e.U, e.V
		if u == a || u == b || v == a || v == b {
			continue
		}
		if replica.HasEdge(u, a) || replica.HasEdge(v, b) {
			continue
		}
		replica.RemoveEdge(u, v)
		replica.AddEdge(u, a, 1.0)
		replica.AddEdge(v, b, 1.0)
		return true
	}
	return false
}

func repairEvenDeficits(replica *graph.Graph, deficits map[graph.NodeHandle]int) {
	for e, delta := range deficits {
		ops := delta / 2
		for k := 0; k < ops; k++ {
			if !swallowEdge(replica, e) {
				break
			}
			deficits[e] -= 2
		}
		if deficits[e] == 0 {
			delete(deficits, e)
		}
	}
}

// swallowEdge finds an edge (u,v) with neither endpoint equal or adjacent
// to e, removes it, and reattaches both endpoints to e.
func swallowEdge(replica *graph.Graph, e graph.NodeHandle) bool {
	for _, edge := range replica.EdgesSnapshot() {
		u, v := edge.U, edge.V
		if u == e || v == e {
			continue
		}
		if replica.HasEdge(u, e) || replica.HasEdge(v, e) {
			continue
		}
		replica.RemoveEdge(u, v)
		replica.AddEdge(u, e, 1.0)
		replica.AddEdge(v, e, 1.0)
		return true
	}
	return false
}
