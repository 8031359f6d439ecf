// Package crosstalk tallies links between gene groups for a single graph
// (original or one null-model replica), under either an all-vs-all or an
// A-vs-B comparison and either filter rule.
package crosstalk

import (
	"github.com/crosstalkz/crosstalkz/pkg/graph"
	"github.com/crosstalkz/crosstalkz/pkg/groups"
)

// Mode selects the shared-member filter rule applied to inter-group links.
type Mode int

const (
	// ModeSkipEitherBoth skips a link when either endpoint belongs to both
	// groups under consideration. This is the default.
	ModeSkipEitherBoth Mode = 0
	// ModeSkipBothBoth skips a link only when both endpoints belong to
	// both groups under consideration.
	ModeSkipBothBoth Mode = 1
)

// PairKey identifies one group pair's counter. In all-vs-all mode A and B
// are canonicalized (A >= B lexicographically); in A-vs-B mode A always
// names a group from the first file and B a group from the second.
type PairKey struct {
	A, B string
}

func canonicalKey(a, b string) PairKey {
	if a < b {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// membership abstracts "set of group ids containing this label" so the
// filter can be shared between the single-map (all-vs-all) and
// dual-map (A-vs-B) cases.
type membership interface {
	Contains(label, groupID string) bool
}

type combinedMembership struct{ a, b *groups.GeneGroupMap }

func (c combinedMembership) Contains(label, groupID string) bool {
	return c.a.Contains(label, groupID) || c.b.Contains(label, groupID)
}

// skip implements filter F(S_u, a, S_v, b) from the counting rule: true
// means the link must not be counted for this (a, b) pair.
func skip(mode Mode, m membership, labelU, a, labelV, b string) bool {
	bInSu := m.Contains(labelU, b)
	aInSv := m.Contains(labelV, a)
	if mode == ModeSkipBothBoth {
		return bInSu && aInSv
	}
	return bInSu || aInSv
}

// CountAllVsAll tallies links for every ordered pair of groups registered
// in ggm, canonicalizing pair keys by lexicographic max/min group id.
func CountAllVsAll(g *graph.Graph, ggm *groups.GeneGroupMap, mode Mode) map[PairKey]int {
	counts := make(map[PairKey]int)
	for _, e := range g.EdgesSnapshot() {
		labelU, labelV := g.Label(e.U), g.Label(e.V)
		for _, a := range ggm.GroupsOf(labelU) {
			for _, b := range ggm.GroupsOf(labelV) {
				if a == b {
					counts[PairKey{A: a, B: a}]++
					continue
				}
				if skip(mode, ggm, labelU, a, labelV, b) {
					continue
				}
				counts[canonicalKey(a, b)]++
			}
		}
	}
	return counts
}

// CountAvsB tallies links between groups drawn from two separate group
// files. Keys are ordered by file membership (A from mapA, B from mapB),
// not canonicalized. Because the symmetric traversal double-counts
// self-pairs where the same id happens to exist in both files, those
// counts are halved before returning.
func CountAvsB(g *graph.Graph, mapA, mapB *groups.GeneGroupMap, mode Mode) map[PairKey]int {
	counts := make(map[PairKey]int)
	m := combinedMembership{a: mapA, b: mapB}

	accumulate := func(labelA, labelB string, groupsA, groupsB []string) {
		for _, a := range groupsA {
			for _, b := range groupsB {
				if a == b {
					counts[PairKey{A: a, B: b}]++
					continue
				}
				if skip(mode, m, labelA, a, labelB, b) {
					continue
				}
				counts[PairKey{A: a, B: b}]++
			}
		}
	}

	for _, e := range g.EdgesSnapshot() {
		labelU, labelV := g.Label(e.U), g.Label(e.V)
		uInA := len(mapA.GroupsOf(labelU)) > 0
		vInB := len(mapB.GroupsOf(labelV)) > 0
		uInB := len(mapB.GroupsOf(labelU)) > 0
		vInA := len(mapA.GroupsOf(labelV)) > 0

		if uInA && vInB {
			accumulate(labelU, labelV, mapA.GroupsOf(labelU), mapB.GroupsOf(labelV))
		}
		if uInB && vInA {
			accumulate(labelV, labelU, mapA.GroupsOf(labelV), mapB.GroupsOf(labelU))
		}
	}

	for k, v := range counts {
		if k.A == k.B {
			counts[k] = v / 2
		}
	}
	return counts
}

// AllPairKeys returns every canonicalized (A.id >= B.id) pair key across
// the groups registered in an all-vs-all run, so the aggregator can
// pre-register counters even for pairs with zero observed links.
func AllPairKeys(gs []*groups.Group) []PairKey {
	keys := make([]PairKey, 0, len(gs)*(len(gs)+1)/2)
	for i := 0; i < len(gs); i++ {
		for j := i; j < len(gs); j++ {
			keys = append(keys, canonicalKey(gs[i].ID, gs[j].ID))
		}
	}
	return keys
}

// AvsBPairKeys returns every (A.id, B.id) pair key for an A-vs-B run.
func AvsBPairKeys(gsA, gsB []*groups.Group) []PairKey {
	keys := make([]PairKey, 0, len(gsA)*len(gsB))
	for _, a := range gsA {
		for _, b := range gsB {
			keys = append(keys, PairKey{A: a.ID, B: b.ID})
		}
	}
	return keys
}
