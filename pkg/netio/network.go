// Package netio implements the network and group file parsers, and the
// plain-TSV writer used by the -w "dump one replica" flag.
package netio

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/crosstalkz/crosstalkz/pkg/crosstalkerr"
	"github.com/crosstalkz/crosstalkz/pkg/graph"
)

type xgmmlNode struct {
	ID    string `xml:"id,attr"`
	Label string `xml:"label,attr"`
}

type xgmmlEdge struct {
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
	Weight string `xml:"weight,attr"`
}

type xgmmlGraph struct {
	Nodes []xgmmlNode `xml:"node"`
	Edges []xgmmlEdge `xml:"edge"`
}

// DetectAndParseNetwork auto-detects XGMML vs TSV by peeking the file's
// leading bytes, then dispatches to the matching parser. cutoff only
// applies when useCutoff is true: edges with weight below it are dropped.
func DetectAndParseNetwork(path string, cutoff float64, useCutoff bool) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &crosstalkerr.InputFormatError{Path: path, Err: err}
	}
	defer f.Close()

	br := bufio.NewReader(f)
	peek, _ := br.Peek(512)
	trimmed := strings.TrimSpace(string(peek))

	if strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<graph") {
		g, err := parseXGMML(br, path, cutoff, useCutoff)
		if err != nil {
			return nil, err
		}
		return pruneZeroDegree(g), nil
	}
	return parseTSV(br, path, cutoff, useCutoff)
}

func parseXGMML(r io.Reader, path string, cutoff float64, useCutoff bool) (*graph.Graph, error) {
	var doc xgmmlGraph
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &crosstalkerr.InputFormatError{Path: path, Err: err}
	}

	g := graph.New()
	idToHandle := make(map[string]graph.NodeHandle, len(doc.Nodes))
	for _, n := range doc.Nodes {
		label := strings.ToUpper(strings.TrimSpace(n.Label))
		if label == "" {
			label = strings.ToUpper(strings.TrimSpace(n.ID))
		}
		h, ok := g.NodeByLabel(label)
		if !ok {
			var err error
			h, err = g.AddNode(label)
			if err != nil {
				return nil, &crosstalkerr.InputFormatError{Path: path, Err: err}
			}
		}
		idToHandle[n.ID] = h
	}

	for _, e := range doc.Edges {
		u, uok := idToHandle[e.Source]
		v, vok := idToHandle[e.Target]
		if !uok || !vok || u == v {
			continue
		}
		weight := 1.0
		hasWeight := false
		if e.Weight != "" {
			if w, err := strconv.ParseFloat(e.Weight, 64); err == nil {
				weight = w
				hasWeight = true
			}
		}
		if useCutoff && hasWeight && weight < cutoff {
			continue
		}
		g.AddEdge(u, v, weight)
	}
	return g, nil
}

func parseTSV(r io.Reader, path string, cutoff float64, useCutoff bool) (*graph.Graph, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &crosstalkerr.InputFormatError{Path: path, Err: err}
	}
	if len(lines) == 0 {
		return nil, &crosstalkerr.InputFormatError{Path: path, Err: fmt.Errorf("file is empty")}
	}

	tokens := strings.Fields(lines[0])
	if len(tokens) > 3 {
		return parseFunCoupTSV(lines[1:], cutoff, useCutoff), nil
	}
	return parseSimpleTSV(lines, cutoff, useCutoff), nil
}

func parseSimpleTSV(lines []string, cutoff float64, useCutoff bool) *graph.Graph {
	g := graph.New()
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		u := getOrAddNode(g, strings.ToUpper(strings.TrimSpace(fields[0])))
		v := getOrAddNode(g, strings.ToUpper(strings.TrimSpace(fields[1])))
		weight := 1.0
		hasWeight := false
		if len(fields) >= 3 {
			if w, err := strconv.ParseFloat(fields[2], 64); err == nil {
				weight = w
				hasWeight = true
			}
		}
		if useCutoff && hasWeight && weight < cutoff {
			continue
		}
		if u != v {
			g.AddEdge(u, v, weight)
		}
	}
	return g
}

// parseFunCoupTSV reads FunCoup-style rows: column 0 is the max score,
// columns 5 and 6 are the two protein identifiers. lines must already
// exclude the header row.
func parseFunCoupTSV(lines []string, cutoff float64, useCutoff bool) *graph.Graph {
	g := graph.New()
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) <= 6 {
			continue
		}
		weight := 1.0
		hasWeight := false
		if w, err := strconv.ParseFloat(fields[0], 64); err == nil {
			weight = w
			hasWeight = true
		}
		if useCutoff && hasWeight && weight < cutoff {
			continue
		}
		p1 := strings.ToUpper(strings.TrimSpace(fields[5]))
		p2 := strings.ToUpper(strings.TrimSpace(fields[6]))
		u := getOrAddNode(g, p1)
		v := getOrAddNode(g, p2)
		if u != v {
			g.AddEdge(u, v, weight)
		}
	}
	return g
}

func getOrAddNode(g *graph.Graph, label string) graph.NodeHandle {
	if h, ok := g.NodeByLabel(label); ok {
		return h
	}
	h, _ := g.AddNode(label)
	return h
}

// pruneZeroDegree returns a new graph containing only the nodes of gr that
// have at least one edge, applied after loading XGMML input.
func pruneZeroDegree(gr *graph.Graph) *graph.Graph {
	out := graph.New()
	mapping := make(map[graph.NodeHandle]graph.NodeHandle)
	for _, v := range gr.Nodes() {
		if gr.Degree(v) > 0 {
			h, _ := out.AddNode(gr.Label(v))
			mapping[v] = h
		}
	}
	for _, e := range gr.EdgesSnapshot() {
		u, okU := mapping[e.U]
		v, okV := mapping[e.V]
		if okU && okV {
			out.AddEdge(u, v, e.Weight)
		}
	}
	return out
}
