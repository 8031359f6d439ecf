// Package stats aggregates per-replica link counts into the reported
// z-score, p-value, reduced chi-square, Benjamini-Hochberg FDR, and
// optional hypergeometric overlap probability for one group pair.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/combin"
)

var chiSqrCutpoints = []float64{-1.6, -1.2, -0.8, -0.4, 0.0, 0.4, 0.8, 1.2, 1.6}

// PairStats accumulates the null-model count vector for one group pair and
// derives the reported statistics from it.
type PairStats struct {
	A, B    string
	Type1   string // A's system/category label, for report display
	Type2   string // B's system/category label, for report display
	IsIntra bool

	LinkCounts []int
	Observed   float64
	Expected   float64
	StdDev     float64
	ZScore     float64
	PValue     float64
	ChiSqr     float64
	FDR        float64
	PHyper     float64
	HasHyper   bool

	// Valid is false when StdDev == 0: ZScore, PValue, ChiSqr and FDR are
	// undefined and must render as NA.
	Valid bool
}

// New returns an empty accumulator for the pair (a, b).
func New(a, b string, isIntra bool) *PairStats {
	return &PairStats{A: a, B: b, IsIntra: isIntra}
}

// AddReplicaCount records one replica's observed link count for this pair.
func (s *PairStats) AddReplicaCount(c int) {
	s.LinkCounts = append(s.LinkCounts, c)
}

// Finalize computes mean, population standard deviation, z-score, two-sided
// p-value and reduced chi-square from the accumulated replica counts
// against the supplied observed count from the original graph. FDR is
// computed afterward, across a full set of pairs, by ApplyFDR.
func (s *PairStats) Finalize(observed int) {
	s.Observed = float64(observed)
	R := len(s.LinkCounts)
	if R == 0 {
		s.Valid = false
		return
	}

	var sum float64
	for _, c := range s.LinkCounts {
		sum += float64(c)
	}
	mean := sum / float64(R)

	var sqSum float64
	for _, c := range s.LinkCounts {
		d := float64(c) - mean
		sqSum += d * d
	}
	std := math.Sqrt(sqSum / float64(R))

	s.Expected = mean
	s.StdDev = std

	if std == 0 {
		s.Valid = false
		return
	}
	s.Valid = true
	s.ZScore = (s.Observed - mean) / std
	s.PValue = math.Erfc(math.Abs(s.ZScore) / math.Sqrt2)
	if R > 3 {
		s.ChiSqr = reducedChiSquare(s.LinkCounts, mean, std, R)
	}
}

// reducedChiSquare bins the normalized replica counts into 10 classes at
// cut-points -1.6..1.6 step 0.4 and compares against the normal-theory
// expected frequency per bin.
func reducedChiSquare(counts []int, mean, std float64, R int) float64 {
	observed := make([]int, len(chiSqrCutpoints)+1)
	for _, c := range counts {
		z := (float64(c) - mean) / std
		bin := 0
		for bin < len(chiSqrCutpoints) && z >= chiSqrCutpoints[bin] {
			bin++
		}
		observed[bin]++
	}

	boundaries := make([]float64, 0, len(chiSqrCutpoints)+2)
	boundaries = append(boundaries, math.Inf(-1))
	boundaries = append(boundaries, chiSqrCutpoints...)
	boundaries = append(boundaries, math.Inf(1))

	var chiSqr float64
	for j := 0; j < len(observed); j++ {
		bj, bj1 := boundaries[j], boundaries[j+1]
		expected := float64(R) / 2 * (math.Erfc(-bj1/math.Sqrt2) - math.Erfc(-bj/math.Sqrt2))
		diff := (float64(observed[j]) - expected) / std
		chiSqr += diff * diff
	}
	return chiSqr / float64(R-3)
}

// ApplyFDR sorts stats ascending by p-value and assigns Benjamini-Hochberg
// adjusted p-values in place, skipping entries where Valid is false. Call
// it once for the intra-group subset and once for the inter-group subset
// of an all-vs-all run; call it once over the whole set for an A-vs-B run.
func ApplyFDR(all []*PairStats) {
	valid := make([]*PairStats, 0, len(all))
	for _, s := range all {
		if s.Valid {
			valid = append(valid, s)
		}
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].PValue < valid[j].PValue })

	n := len(valid)
	for i, s := range valid {
		rank := i + 1
		if rank == 1 {
			s.FDR = s.PValue
			continue
		}
		fdr := s.PValue * float64(n) / float64(n-rank+1)
		if fdr > 1.0 {
			fdr = 1.0
		}
		s.FDR = fdr
	}
}

// Hypergeometric computes the exact overlap probability for two sets drawn
// from a universe of size N: P(overlap = k | |A|, |B|), with n = min(|A|,
// |B|) and m = max(|A|,|B|).
func Hypergeometric(N, n, m, k int) float64 {
	if N <= 0 || n < 0 || m < 0 || k < 0 || k > n || k > m || n-k > N-m {
		return 0
	}
	return float64(combin.Binomial(m, k)) * float64(combin.Binomial(N-m, n-k)) / float64(combin.Binomial(N, n))
}
