package nullmodel

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/crosstalkz/crosstalkz/pkg/graph"
)

// buildTestGraph builds a small graph with a skewed degree sequence: one hub
// connected to several leaves plus a ring among the leaves, giving every
// method a non-trivial degree sequence to preserve.
func buildTestGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	labels := []string{"H", "L1", "L2", "L3", "L4", "L5"}
	handles := make(map[string]graph.NodeHandle)
	for _, l := range labels {
		h, err := g.AddNode(l)
		if err != nil {
			t.Fatalf("AddNode(%s): %v", l, err)
		}
		handles[l] = h
	}
	edges := [][2]string{
		{"H", "L1"}, {"H", "L2"}, {"H", "L3"}, {"H", "L4"}, {"H", "L5"},
		{"L1", "L2"}, {"L2", "L3"}, {"L3", "L4"}, {"L4", "L5"}, {"L5", "L1"},
	}
	for _, e := range edges {
		if err := g.AddEdge(handles[e[0]], handles[e[1]], 1.0); err != nil {
			t.Fatalf("AddEdge %v: %v", e, err)
		}
	}
	return g
}

func degreeSequenceEqual(t *testing.T, original, replica *graph.Graph) bool {
	t.Helper()
	for _, v := range original.Nodes() {
		if original.Degree(v) != replica.Degree(v) {
			return false
		}
	}
	return true
}

func hasNoSelfLoopsOrParallels(g *graph.Graph) bool {
	seen := make(map[graph.Edge]bool)
	for _, e := range g.EdgesSnapshot() {
		if e.U == e.V {
			return false
		}
		if seen[e] {
			return false
		}
		seen[e] = true
	}
	return true
}

func TestLinkSwapPreservesDegreeSequence(t *testing.T) {
	original := buildTestGraph(t)
	replica := original.CloneTopology()
	rng := rand.New(rand.NewSource(1))
	log := zerolog.Nop()

	for i := 0; i < 20; i++ {
		err := Generate(rng, original, replica, MethodLinkSwap, nil, log)
		if err != nil {
			continue // generator failures are allowed; just skip this iteration
		}
		if !degreeSequenceEqual(t, original, replica) {
			t.Fatalf("iteration %d: degree sequence mismatch after link-swap", i)
		}
		if original.NumEdges() != replica.NumEdges() {
			t.Fatalf("iteration %d: edge count mismatch", i)
		}
		if !hasNoSelfLoopsOrParallels(replica) {
			t.Fatalf("iteration %d: self-loop or parallel edge found", i)
		}
	}
}

func TestLinkAssignmentPreservesDegreeSequence(t *testing.T) {
	original := buildTestGraph(t)
	replica := original.CloneTopology()
	rng := rand.New(rand.NewSource(2))
	log := zerolog.Nop()

	successes := 0
	for i := 0; i < 30; i++ {
		err := Generate(rng, original, replica, MethodLinkAssignment, nil, log)
		if err != nil {
			continue
		}
		successes++
		if !degreeSequenceEqual(t, original, replica) {
			t.Fatalf("iteration %d: degree sequence mismatch after link-assignment", i)
		}
		if !hasNoSelfLoopsOrParallels(replica) {
			t.Fatalf("iteration %d: self-loop or parallel edge found", i)
		}
	}
	if successes == 0 {
		t.Fatal("link-assignment never converged across 30 attempts")
	}
}

func TestLinkAssignmentSecondOrderPreservesDegreeSequence(t *testing.T) {
	original := buildTestGraph(t)
	original.RefreshNeighborBins()
	replica := original.CloneTopology()
	degIdx := graph.BuildDegreeIndex(original)
	rng := rand.New(rand.NewSource(3))
	log := zerolog.Nop()

	successes := 0
	for i := 0; i < 30; i++ {
		replica.CopyNeighborBins(original)
		err := Generate(rng, original, replica, MethodLinkAssignmentSecondOrder, degIdx, log)
		if err != nil {
			continue
		}
		successes++
		if !degreeSequenceEqual(t, original, replica) {
			t.Fatalf("iteration %d: degree sequence mismatch after second-order assignment", i)
		}
	}
	if successes == 0 {
		t.Fatal("second-order link-assignment never converged across 30 attempts")
	}
}

func TestLabelSwapPreservesTopologyExactly(t *testing.T) {
	original := buildTestGraph(t)
	replica := original.CloneTopology()
	rng := rand.New(rand.NewSource(4))
	log := zerolog.Nop()

	if err := Generate(rng, original, replica, MethodLabelSwap, nil, log); err != nil {
		t.Fatalf("label-swap returned error: %v", err)
	}
	if !degreeSequenceEqual(t, original, replica) {
		t.Fatal("label-swap changed the degree sequence")
	}

	// Unlabelled topology must be identical: the same number of edges
	// between nodes at the same handles.
	if original.NumEdges() != replica.NumEdges() {
		t.Fatal("label-swap changed the edge count")
	}
	for _, v := range original.Nodes() {
		for _, u := range original.Nodes() {
			if original.HasEdge(u, v) != replica.HasEdge(u, v) {
				t.Fatalf("label-swap altered topology between handles %v and %v", u, v)
			}
		}
	}
}

func TestValidateDetectsDegreeMismatch(t *testing.T) {
	original := buildTestGraph(t)
	replica := original.CloneTopology()
	nodes := replica.Nodes()
	replica.RemoveEdge(nodes[0], nodes[1])

	errs, err := Validate(original, replica)
	if err != nil {
		t.Fatalf("Validate returned unexpected error: %v", err)
	}
	if len(errs) == 0 {
		t.Fatal("expected degree errors after removing an edge, got none")
	}
	if IsValid(original, replica, errs) {
		t.Fatal("IsValid reported valid for a mismatched replica")
	}
}
