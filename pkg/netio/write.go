package netio

import (
	"bufio"
	"fmt"
	"os"

	"github.com/crosstalkz/crosstalkz/pkg/graph"
)

// WriteSimpleTSV dumps g as a simple TSV edge list (label, label, weight),
// the same shape ParseGroups' sibling network parser reads back. Used by
// the -w flag to write one randomized replica and exit.
func WriteSimpleTSV(path string, g *graph.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()
	for _, e := range g.EdgesSnapshot() {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%g\n", g.Label(e.U), g.Label(e.V), e.Weight); err != nil {
			return err
		}
	}
	return nil
}
