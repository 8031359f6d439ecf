package nullmodel

import (
	"math/rand"

	"github.com/crosstalkz/crosstalkz/pkg/graph"
)

// labelSwap copies G's edges into replica unchanged, then for every node
// swaps its label with a uniformly chosen node from the same degree bin
// (Method 3). Topology is preserved exactly; only the label assignment
// changes. Does not guarantee a derangement — a node may keep its label.
func labelSwap(rng *rand.Rand, original, replica *graph.Graph) {
	replica.ResetFrom(original)

	idx := graph.BuildDegreeIndex(original)
	labels := make(map[graph.NodeHandle]string, original.NumNodes())
	for _, v := range original.Nodes() {
		labels[v] = replica.Label(v)
	}

	for _, v := range original.Nodes() {
		bin := graph.DegreeBin(original.Degree(v))
		pool := idx.Bin(bin)
		if len(pool) == 0 {
			continue
		}
		u := pool[rng.Intn(len(pool))]
		labels[v], labels[u] = labels[u], labels[v]
	}

	replica.RelabelAll(labels)
}
