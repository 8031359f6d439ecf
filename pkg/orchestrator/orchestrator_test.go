package orchestrator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/crosstalkz/crosstalkz/pkg/crosstalk"
	"github.com/crosstalkz/crosstalkz/pkg/nullmodel"
)

// Triangle scenario from the testable-properties set: nodes A,B,C, edges
// A-B, B-C, A-C; groups g1={A,B}, g2={B,C}; Mode 0, Method 3. Every
// replica keeps the same 3 edges (label-swap never touches topology), so
// the observed and expected counts are identical and every pair is
// reported NA.
func TestRunAllVsAllTriangleLabelSwap(t *testing.T) {
	dir := t.TempDir()
	netPath := writeFile(t, dir, "net.tsv", "A\tB\nB\tC\nA\tC\n")
	groupPath := writeFile(t, dir, "groups.tsv", "A\tg1\nB\tg1\nB\tg2\nC\tg2\n")

	log := zerolog.Nop()
	result, err := Run(Params{
		NetworkPath:  netPath,
		GroupPath:    groupPath,
		Method:       nullmodel.MethodLabelSwap,
		Replicas:     10,
		CountingMode: crosstalk.ModeSkipEitherBoth,
		MinGroupSize: 1,
	}, log)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result == nil {
		t.Fatal("expected a non-nil result")
	}

	if result.Summary.NumNodes != 3 || result.Summary.NumEdges != 3 {
		t.Fatalf("summary = %+v, want 3 nodes / 3 edges", result.Summary)
	}

	for _, p := range result.Pairs {
		if p.Valid {
			t.Errorf("pair %s-%s: expected std=0 (label-swap preserves topology), got Valid=true", p.A, p.B)
		}
		if p.Observed != p.Expected {
			t.Errorf("pair %s-%s: observed %v != expected %v under Method 3", p.A, p.B, p.Observed, p.Expected)
		}
	}
}

func TestRunWriteReplicaExitsEarly(t *testing.T) {
	dir := t.TempDir()
	netPath := writeFile(t, dir, "net.tsv", "A\tB\nB\tC\nA\tC\n")
	outPath := filepath.Join(dir, "replica.tsv")

	log := zerolog.Nop()
	result, err := Run(Params{
		NetworkPath:      netPath,
		GroupPath:        "ignored.tsv", // not read on the -w path
		Method:           nullmodel.MethodLabelSwap,
		WriteReplicaPath: outPath,
	}, log)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result != nil {
		t.Fatal("expected nil result on the write-replica path")
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("expected replica file to be written: %v", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		t.Error("expected a non-empty replica edge list")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
