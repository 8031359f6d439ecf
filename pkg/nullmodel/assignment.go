package nullmodel

import (
	"math/rand"

	"github.com/crosstalkz/crosstalkz/pkg/graph"
)

// linkAssignment rebuilds replica's edge set from an empty graph by walking
// a shuffled node order and greedily filling each node's residual degree
// (Method 1), or by additionally restricting candidates to the original
// graph's cached neighbor-degree bins (Method 2, secondOrder=true).
//
// originalDegIdx is only consulted when secondOrder is true.
func linkAssignment(rng *rand.Rand, original, replica *graph.Graph, secondOrder bool, originalDegIdx *graph.DegreeIndex) {
	nodes := original.Nodes()
	target := make(map[graph.NodeHandle]int, len(nodes))
	for _, v := range nodes {
		target[v] = original.Degree(v)
	}
	replica.ClearEdges()

	W := make([]graph.NodeHandle, 0, len(nodes))
	inW := make(map[graph.NodeHandle]bool, len(nodes))
	for _, v := range nodes {
		if target[v] > 0 {
			W = append(W, v)
			inW[v] = true
		}
	}

	order := make([]graph.NodeHandle, len(W))
	copy(order, W)
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	var remainingBins map[graph.NodeHandle][]int
	if secondOrder {
		remainingBins = make(map[graph.NodeHandle][]int, len(nodes))
		for _, v := range nodes {
			bins := original.NeighborBins(v)
			cp := make([]int, len(bins))
			copy(cp, bins)
			remainingBins[v] = cp
		}
	}

	removeFromW := func(v graph.NodeHandle) {
		if !inW[v] {
			return
		}
		inW[v] = false
		for i, u := range W {
			if u == v {
				W = append(W[:i], W[i+1:]...)
				break
			}
		}
	}

restart:
	for idx := 0; idx < len(order); idx++ {
		k := order[idx]
		for target[k] > 0 && replica.Degree(k) < target[k] {
			var pool []graph.NodeHandle
			if secondOrder {
				bins := remainingBins[k]
				if len(bins) == 0 {
					break
				}
				bi := rng.Intn(len(bins))
				bin := bins[bi]
				remainingBins[k] = append(bins[:bi], bins[bi+1:]...)
				pool = append(pool, originalDegIdx.Bin(bin)...)
			} else {
				pool = append(pool, W...)
			}

			accepted := false
			for len(pool) > 0 {
				ci := rng.Intn(len(pool))
				cand := pool[ci]
				if cand == k || replica.HasEdge(k, cand) || replica.Degree(cand) >= target[cand] || !inW[cand] {
					pool = append(pool[:ci], pool[ci+1:]...)
					continue
				}
				replica.AddEdge(k, cand, 1.0)
				accepted = true

				mutated := false
				if replica.Degree(k) >= target[k] {
					removeFromW(k)
					mutated = true
				}
				if replica.Degree(cand) >= target[cand] {
					removeFromW(cand)
					mutated = true
				}
				if mutated {
					goto restart
				}
				break
			}
			if !accepted {
				break
			}
		}
	}
}
