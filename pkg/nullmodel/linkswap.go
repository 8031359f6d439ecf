package nullmodel

import (
	"math/rand"

	"github.com/crosstalkz/crosstalkz/pkg/graph"
)

// linkSwap runs the double-edge-swap randomizer (Method 0) in place on
// replica, which must already hold a topological copy of the original
// graph. Returns the number of edges touched (2x successful swaps).
func linkSwap(rng *rand.Rand, replica *graph.Graph) int {
	L := replica.EdgesSnapshot()
	tried := make(map[[2]int]struct{})
	successes := 0

	for len(L) >= 2 {
		i := rng.Intn(len(L))
		j := rng.Intn(len(L))
		for j == i {
			j = rng.Intn(len(L))
		}
		lo, hi := i, j
		if lo > hi {
			lo, hi = hi, lo
		}
		key := [2]int{lo, hi}
		if _, already := tried[key]; already {
			continue
		}

		a, b := L[i].U, L[i].V
		c, d := L[j].U, L[j].V
		distinct := a != c && a != d && b != c && b != d

		var rewire1Legal, rewire2Legal bool
		if distinct {
			rewire1Legal = !replica.HasEdge(a, c) && !replica.HasEdge(b, d)
			rewire2Legal = !replica.HasEdge(a, d) && !replica.HasEdge(b, c)
		}

		if distinct && (rewire1Legal || rewire2Legal) {
			replica.RemoveEdge(a, b)
			replica.RemoveEdge(c, d)
			if rewire1Legal {
				replica.AddEdge(a, c, 1.0)
				replica.AddEdge(b, d, 1.0)
			} else {
				replica.AddEdge(a, d, 1.0)
				replica.AddEdge(b, c, 1.0)
			}
			successes++
			L = removeIndices(L, i, j)
			tried = make(map[[2]int]struct{})
			continue
		}

		tried[key] = struct{}{}
		if len(tried) >= len(L) || len(tried) >= len(L)*(len(L)-1)/2 {
			break
		}
	}

	return 2 * successes
}

func removeIndices(L []graph.Edge, i, j int) []graph.Edge {
	out := make([]graph.Edge, 0, len(L)-2)
	for k, e := range L {
		if k == i || k == j {
			continue
		}
		out = append(out, e)
	}
	return out
}
