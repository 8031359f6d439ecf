// Package report writes the two output files a run produces: the
// per-pair TSV statistics table and the companion info file.
package report

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/crosstalkz/crosstalkz/pkg/stats"
)

const na = "NA"

// WriteResults writes one TSV row per pair, in the order given. Fields
// that Finalize left undefined (std == 0) render as the literal NA.
func WriteResults(path string, pairs []*stats.PairStats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	fmt.Fprintln(w, "PAIR\ttype1\ttype2\tclass\tobserved\texpected\tz\tp\tfdr\tstd\treduced_chi_sqr\tp_hyper")
	for _, s := range pairs {
		class := "inter"
		if s.IsIntra {
			class = "intra"
		}
		fmt.Fprintf(w, "%s-%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.A, s.B,
			s.Type1, s.Type2,
			class,
			formatFloat(s.Observed),
			formatFloat(s.Expected),
			formatValidFloat(s.Valid, s.ZScore),
			formatValidFloat(s.Valid, s.PValue),
			formatValidFloat(s.Valid, s.FDR),
			formatFloat(s.StdDev),
			formatValidFloat(s.Valid && s.ChiSqr != 0, s.ChiSqr),
			formatHyper(s),
		)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func formatValidFloat(valid bool, v float64) string {
	if !valid {
		return na
	}
	return formatFloat(v)
}

func formatHyper(s *stats.PairStats) string {
	if !s.HasHyper {
		return na
	}
	return formatFloat(s.PHyper)
}

// RunSummary is the subset of run-level facts the info file echoes.
type RunSummary struct {
	NetworkPath      string
	GroupPaths       []string
	Method           string
	Replicas         int
	CountingMode     int
	MinGroupSize     int
	WeightCutoff     float64
	UseWeightCutoff  bool
	Hypergeometric   bool
	NumNodes         int
	NumEdges         int
	MinDegree        int
	MaxDegree        int
	GroupsBefore     int
	GroupsAfter      int
	UniqueGenesInNet int
	UniqueGenesOut   int
}

// WriteInfo writes the parameter/summary echo file alongside the results
// TSV.
func WriteInfo(path string, s RunSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating info file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	fmt.Fprintf(w, "network\t%s\n", s.NetworkPath)
	for _, p := range s.GroupPaths {
		fmt.Fprintf(w, "groups\t%s\n", p)
	}
	fmt.Fprintf(w, "method\t%s\n", s.Method)
	fmt.Fprintf(w, "replicas\t%d\n", s.Replicas)
	fmt.Fprintf(w, "counting_mode\t%d\n", s.CountingMode)
	fmt.Fprintf(w, "min_group_size\t%d\n", s.MinGroupSize)
	fmt.Fprintf(w, "weight_cutoff\t%g\n", s.WeightCutoff)
	fmt.Fprintf(w, "use_weight_cutoff\t%t\n", s.UseWeightCutoff)
	fmt.Fprintf(w, "hypergeometric\t%t\n", s.Hypergeometric)
	fmt.Fprintf(w, "nodes\t%d\n", s.NumNodes)
	fmt.Fprintf(w, "edges\t%d\n", s.NumEdges)
	fmt.Fprintf(w, "degree_min\t%d\n", s.MinDegree)
	fmt.Fprintf(w, "degree_max\t%d\n", s.MaxDegree)
	fmt.Fprintf(w, "groups_before_filter\t%d\n", s.GroupsBefore)
	fmt.Fprintf(w, "groups_after_filter\t%d\n", s.GroupsAfter)
	fmt.Fprintf(w, "unique_genes_in_network\t%d\n", s.UniqueGenesInNet)
	fmt.Fprintf(w, "unique_genes_not_in_network\t%d\n", s.UniqueGenesOut)
	return nil
}
