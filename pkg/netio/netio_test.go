package netio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crosstalkz/crosstalkz/pkg/graph"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDetectAndParseSimpleTSV(t *testing.T) {
	path := writeTempFile(t, "net.tsv", "a\tb\t1.0\nb\tc\t2.0\n")
	g, err := DetectAndParseNetwork(path, 0, false)
	if err != nil {
		t.Fatalf("DetectAndParseNetwork: %v", err)
	}
	if g.NumNodes() != 3 || g.NumEdges() != 2 {
		t.Fatalf("got %d nodes, %d edges; want 3 nodes, 2 edges", g.NumNodes(), g.NumEdges())
	}
	if _, ok := g.NodeByLabel("A"); !ok {
		t.Fatal("labels not uppercased on load")
	}
}

func TestDetectAndParseFunCoupTSV(t *testing.T) {
	header := "score\tc1\tc2\tc3\tc4\tprotein1\tprotein2\n"
	row := "0.9\tx\tx\tx\tx\tgeneA\tgeneB\n"
	path := writeTempFile(t, "net.funcoup", header+row)
	g, err := DetectAndParseNetwork(path, 0, false)
	if err != nil {
		t.Fatalf("DetectAndParseNetwork: %v", err)
	}
	if g.NumEdges() != 1 {
		t.Fatalf("got %d edges, want 1", g.NumEdges())
	}
	if _, ok := g.NodeByLabel("GENEA"); !ok {
		t.Fatal("expected GENEA node from FunCoup column 5")
	}
}

func TestDetectAndParseXGMMLPrunesZeroDegree(t *testing.T) {
	xml := `<?xml version="1.0"?>
<graph>
  <node id="1" label="A"/>
  <node id="2" label="B"/>
  <node id="3" label="ISOLATED"/>
  <edge source="1" target="2" weight="1.0"/>
</graph>`
	path := writeTempFile(t, "net.xgmml", xml)
	g, err := DetectAndParseNetwork(path, 0, false)
	if err != nil {
		t.Fatalf("DetectAndParseNetwork: %v", err)
	}
	if g.NumNodes() != 2 {
		t.Fatalf("got %d nodes, want 2 after zero-degree pruning", g.NumNodes())
	}
	if _, ok := g.NodeByLabel("ISOLATED"); ok {
		t.Fatal("isolated node survived pruning")
	}
}

func TestDetectAndParseXGMMLWeightCutoff(t *testing.T) {
	xml := `<?xml version="1.0"?>
<graph>
  <node id="1" label="A"/>
  <node id="2" label="B"/>
  <node id="3" label="C"/>
  <edge source="1" target="2" weight="0.1"/>
  <edge source="1" target="3" weight="0.9"/>
</graph>`
	path := writeTempFile(t, "net.xgmml", xml)
	g, err := DetectAndParseNetwork(path, 0.5, true)
	if err != nil {
		t.Fatalf("DetectAndParseNetwork: %v", err)
	}
	if g.NumEdges() != 1 {
		t.Fatalf("got %d edges after cutoff, want 1", g.NumEdges())
	}
}

func TestDetectAndParseXGMMLWeightCutoffBypassesUnweightedEdges(t *testing.T) {
	xml := `<?xml version="1.0"?>
<graph>
  <node id="1" label="A"/>
  <node id="2" label="B"/>
  <node id="3" label="C"/>
  <edge source="1" target="2"/>
  <edge source="1" target="3" weight="0.9"/>
</graph>`
	path := writeTempFile(t, "net.xgmml", xml)
	g, err := DetectAndParseNetwork(path, 5.0, true)
	if err != nil {
		t.Fatalf("DetectAndParseNetwork: %v", err)
	}
	if g.NumEdges() != 1 {
		t.Fatalf("got %d edges after cutoff, want 1 (unweighted edge must bypass the cutoff)", g.NumEdges())
	}
	if _, ok := g.NodeByLabel("B"); !ok {
		t.Fatal("edge A-B (no weight attribute) was dropped even though it should bypass the cutoff")
	}
}

func TestDetectAndParseSimpleTSVWeightCutoffBypassesUnweightedLines(t *testing.T) {
	tsv := "A\tB\nA\tC\t0.9\n"
	path := writeTempFile(t, "net.tsv", tsv)
	g, err := DetectAndParseNetwork(path, 5.0, true)
	if err != nil {
		t.Fatalf("DetectAndParseNetwork: %v", err)
	}
	if g.NumEdges() != 1 {
		t.Fatalf("got %d edges after cutoff, want 1 (2-column line with no weight must bypass the cutoff)", g.NumEdges())
	}
	if !g.HasEdge(mustNode(t, g, "A"), mustNode(t, g, "B")) {
		t.Fatal("edge A-B (no weight column) was dropped even though it should bypass the cutoff")
	}
}

func mustNode(t *testing.T, g *graph.Graph, label string) graph.NodeHandle {
	t.Helper()
	h, ok := g.NodeByLabel(label)
	if !ok {
		t.Fatalf("node %s not found", label)
	}
	return h
}

func buildNet(t *testing.T, labels ...string) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, l := range labels {
		if _, err := g.AddNode(l); err != nil {
			t.Fatalf("AddNode(%s): %v", l, err)
		}
	}
	return g
}

func TestParseGroupsFiltersAbsentGenesAndSmallGroups(t *testing.T) {
	net := buildNet(t, "A", "B", "C")
	content := "a\tg1\nb\tg1\nmissing\tg1\nc\tg2\n"
	path := writeTempFile(t, "groups.tsv", content)

	gs, ggm, stats, err := ParseGroups(path, net, 2)
	if err != nil {
		t.Fatalf("ParseGroups: %v", err)
	}
	if len(gs) != 1 {
		t.Fatalf("got %d groups after filtering at minSize=2, want 1 (g2 has only 1 member)", len(gs))
	}
	if gs[0].ID != "g1" || gs[0].Len() != 2 {
		t.Fatalf("unexpected surviving group: %+v", gs[0])
	}
	if !ggm.Contains("A", "g1") || !ggm.Contains("B", "g1") {
		t.Fatal("gene-group map missing expected membership")
	}
	if stats.GroupsBeforeFilter != 2 || stats.GroupsAfterFilter != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.UniqueGenesNotFound != 1 {
		t.Fatalf("UniqueGenesNotFound = %d, want 1", stats.UniqueGenesNotFound)
	}
}

func TestParseGroupsNoGroupsSurviveIsError(t *testing.T) {
	net := buildNet(t, "A")
	content := "a\tg1\n"
	path := writeTempFile(t, "groups.tsv", content)

	if _, _, _, err := ParseGroups(path, net, 10); err == nil {
		t.Fatal("expected NoGroupsError when every group is filtered out, got nil")
	}
}

func TestWriteSimpleTSVRoundTrips(t *testing.T) {
	g := graph.New()
	a, _ := g.AddNode("A")
	b, _ := g.AddNode("B")
	g.AddEdge(a, b, 3.5)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.tsv")
	if err := WriteSimpleTSV(path, g); err != nil {
		t.Fatalf("WriteSimpleTSV: %v", err)
	}

	reread, err := DetectAndParseNetwork(path, 0, false)
	if err != nil {
		t.Fatalf("re-reading written file: %v", err)
	}
	if reread.NumEdges() != 1 {
		t.Fatalf("round-tripped graph has %d edges, want 1", reread.NumEdges())
	}
}
