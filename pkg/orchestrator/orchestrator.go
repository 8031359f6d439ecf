// Package orchestrator runs the full pipeline: load network and groups,
// draw R null-model replicas, count crosstalk on each, and finalize the
// per-pair statistics.
package orchestrator

import (
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/crosstalkz/crosstalkz/pkg/crosstalk"
	"github.com/crosstalkz/crosstalkz/pkg/crosstalkerr"
	"github.com/crosstalkz/crosstalkz/pkg/graph"
	"github.com/crosstalkz/crosstalkz/pkg/groups"
	"github.com/crosstalkz/crosstalkz/pkg/netio"
	"github.com/crosstalkz/crosstalkz/pkg/nullmodel"
	"github.com/crosstalkz/crosstalkz/pkg/report"
	"github.com/crosstalkz/crosstalkz/pkg/stats"
)

// Params collects every run-level knob, one field per CLI flag.
type Params struct {
	NetworkPath      string
	GroupPath        string // all-vs-all
	GroupAPath       string // A-vs-B
	GroupBPath       string
	WeightCutoff     float64
	UseWeightCutoff  bool
	Method           nullmodel.Method
	Replicas         int
	CountingMode     crosstalk.Mode
	MinGroupSize     int
	Hypergeometric   bool
	WriteReplicaPath string
	Seed             int64
	UseFixedSeed     bool
}

// Result is everything the report writer needs.
type Result struct {
	Pairs   []*stats.PairStats
	Summary report.RunSummary
}

// Run executes the full pipeline described by params. If
// params.WriteReplicaPath is set, it writes one replica to that path and
// returns a nil Result instead of running the statistical analysis.
func Run(params Params, log zerolog.Logger) (*Result, error) {
	net, err := netio.DetectAndParseNetwork(params.NetworkPath, params.WeightCutoff, params.UseWeightCutoff)
	if err != nil {
		return nil, err
	}

	seed := params.Seed
	if !params.UseFixedSeed {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	degIdx := graph.BuildDegreeIndex(net)
	if params.Method == nullmodel.MethodLinkAssignmentSecondOrder {
		net.RefreshNeighborBins()
	}

	if params.WriteReplicaPath != "" {
		replica := net.CloneTopology()
		if params.Method == nullmodel.MethodLinkAssignmentSecondOrder {
			replica.CopyNeighborBins(net)
		}
		if err := nullmodel.Generate(rng, net, replica, params.Method, degIdx, log); err != nil {
			return nil, err
		}
		if err := netio.WriteSimpleTSV(params.WriteReplicaPath, replica); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if params.GroupPath != "" {
		return runAllVsAll(params, net, rng, degIdx, log)
	}
	return runAvsB(params, net, rng, degIdx, log)
}

func runAllVsAll(params Params, net *graph.Graph, rng *rand.Rand, degIdx *graph.DegreeIndex, log zerolog.Logger) (*Result, error) {
	groupList, ggm, gstats, err := netio.ParseGroups(params.GroupPath, net, params.MinGroupSize)
	if err != nil {
		return nil, err
	}
	byID := groupIndex(groupList)
	keys := crosstalk.AllPairKeys(groupList)
	pairs := initPairStats(keys, byID, byID)

	observed := crosstalk.CountAllVsAll(net, ggm, params.CountingMode)

	countFn := func(g *graph.Graph) map[crosstalk.PairKey]int {
		return crosstalk.CountAllVsAll(g, ggm, params.CountingMode)
	}
	successes := runReplicas(params, net, rng, degIdx, log, countFn, pairs)

	finalizeAll(pairs, observed)
	splitAndApplyFDR(pairs)
	if params.Hypergeometric {
		universe := universeSize(groupList)
		applyHypergeometric(pairs, byID, byID, universe)
	}

	minDeg, maxDeg := degreeRange(net)
	summary := report.RunSummary{
		NetworkPath:      params.NetworkPath,
		GroupPaths:       []string{params.GroupPath},
		Method:           params.Method.String(),
		Replicas:         successes,
		CountingMode:     int(params.CountingMode),
		MinGroupSize:     params.MinGroupSize,
		WeightCutoff:     params.WeightCutoff,
		UseWeightCutoff:  params.UseWeightCutoff,
		Hypergeometric:   params.Hypergeometric,
		NumNodes:         net.NumNodes(),
		NumEdges:         net.NumEdges(),
		MinDegree:        minDeg,
		MaxDegree:        maxDeg,
		GroupsBefore:     gstats.GroupsBeforeFilter,
		GroupsAfter:      gstats.GroupsAfterFilter,
		UniqueGenesInNet: gstats.UniqueGenesInNetwork,
		UniqueGenesOut:   gstats.UniqueGenesNotFound,
	}
	return &Result{Pairs: pairs, Summary: summary}, nil
}

func runAvsB(params Params, net *graph.Graph, rng *rand.Rand, degIdx *graph.DegreeIndex, log zerolog.Logger) (*Result, error) {
	groupsA, mapA, statsA, err := netio.ParseGroups(params.GroupAPath, net, params.MinGroupSize)
	if err != nil {
		return nil, err
	}
	groupsB, mapB, statsB, err := netio.ParseGroups(params.GroupBPath, net, params.MinGroupSize)
	if err != nil {
		return nil, err
	}
	byA, byB := groupIndex(groupsA), groupIndex(groupsB)
	keys := crosstalk.AvsBPairKeys(groupsA, groupsB)
	pairs := initPairStats(keys, byA, byB)

	observed := crosstalk.CountAvsB(net, mapA, mapB, params.CountingMode)

	countFn := func(g *graph.Graph) map[crosstalk.PairKey]int {
		return crosstalk.CountAvsB(g, mapA, mapB, params.CountingMode)
	}
	successes := runReplicas(params, net, rng, degIdx, log, countFn, pairs)

	finalizeAll(pairs, observed)
	stats.ApplyFDR(pairs)
	if params.Hypergeometric {
		universe := universeSize(groupsA, groupsB)
		applyHypergeometric(pairs, byA, byB, universe)
	}

	minDeg, maxDeg := degreeRange(net)
	summary := report.RunSummary{
		NetworkPath:      params.NetworkPath,
		GroupPaths:       []string{params.GroupAPath, params.GroupBPath},
		Method:           params.Method.String(),
		Replicas:         successes,
		CountingMode:     int(params.CountingMode),
		MinGroupSize:     params.MinGroupSize,
		WeightCutoff:     params.WeightCutoff,
		UseWeightCutoff:  params.UseWeightCutoff,
		Hypergeometric:   params.Hypergeometric,
		NumNodes:         net.NumNodes(),
		NumEdges:         net.NumEdges(),
		MinDegree:        minDeg,
		MaxDegree:        maxDeg,
		GroupsBefore:     statsA.GroupsBeforeFilter + statsB.GroupsBeforeFilter,
		GroupsAfter:      statsA.GroupsAfterFilter + statsB.GroupsAfterFilter,
		UniqueGenesInNet: statsA.UniqueGenesInNetwork + statsB.UniqueGenesInNetwork,
		UniqueGenesOut:   statsA.UniqueGenesNotFound + statsB.UniqueGenesNotFound,
	}
	return &Result{Pairs: pairs, Summary: summary}, nil
}

// runReplicas draws params.Replicas valid replicas (retrying once on a
// generator failure before giving up on that iteration) and accumulates
// counts into pairs. Returns the number of replicas actually counted.
func runReplicas(params Params, net *graph.Graph, rng *rand.Rand, degIdx *graph.DegreeIndex, log zerolog.Logger, countFn func(*graph.Graph) map[crosstalk.PairKey]int, pairs []*stats.PairStats) int {
	replica := net.CloneTopology()
	successes := 0

	for i := 0; i < params.Replicas; i++ {
		if params.Method == nullmodel.MethodLinkAssignmentSecondOrder {
			replica.CopyNeighborBins(net)
		}

		err := nullmodel.Generate(rng, net, replica, params.Method, degIdx, log)
		if err != nil {
			var genFail *crosstalkerr.GeneratorFailureError
			if !errors.As(err, &genFail) {
				log.Error().Err(err).Msg("internal invariant violated during generation")
				panic(err)
			}
			log.Warn().Err(err).Int("replica", i).Msg("discarding failed replica")

			if params.Method == nullmodel.MethodLinkAssignmentSecondOrder {
				replica.CopyNeighborBins(net)
			}
			if retryErr := nullmodel.Generate(rng, net, replica, params.Method, degIdx, log); retryErr != nil {
				log.Warn().Err(retryErr).Int("replica", i).Msg("retry also failed, skipping iteration")
				continue
			}
		}

		counts := countFn(replica)
		accumulate(pairs, counts)
		successes++
	}
	return successes
}

func groupIndex(gs []*groups.Group) map[string]*groups.Group {
	m := make(map[string]*groups.Group, len(gs))
	for _, g := range gs {
		m[g.ID] = g
	}
	return m
}

func initPairStats(keys []crosstalk.PairKey, byA, byB map[string]*groups.Group) []*stats.PairStats {
	out := make([]*stats.PairStats, 0, len(keys))
	for _, k := range keys {
		s := stats.New(k.A, k.B, k.A == k.B)
		if g, ok := byA[k.A]; ok {
			s.Type1 = g.System
		}
		if g, ok := byB[k.B]; ok {
			s.Type2 = g.System
		}
		out = append(out, s)
	}
	return out
}

func accumulate(pairs []*stats.PairStats, counts map[crosstalk.PairKey]int) {
	for _, s := range pairs {
		s.AddReplicaCount(counts[crosstalk.PairKey{A: s.A, B: s.B}])
	}
}

func finalizeAll(pairs []*stats.PairStats, observed map[crosstalk.PairKey]int) {
	for _, s := range pairs {
		s.Finalize(observed[crosstalk.PairKey{A: s.A, B: s.B}])
	}
}

func splitAndApplyFDR(pairs []*stats.PairStats) {
	var intra, inter []*stats.PairStats
	for _, s := range pairs {
		if s.IsIntra {
			intra = append(intra, s)
		} else {
			inter = append(inter, s)
		}
	}
	stats.ApplyFDR(intra)
	stats.ApplyFDR(inter)
}

func applyHypergeometric(pairs []*stats.PairStats, byA, byB map[string]*groups.Group, universe int) {
	for _, s := range pairs {
		ga, ok1 := byA[s.A]
		gb, ok2 := byB[s.B]
		if !ok1 || !ok2 {
			continue
		}
		k := intersectionSize(ga.Members, gb.Members)
		n, m := len(ga.Members), len(gb.Members)
		if n > m {
			n, m = m, n
		}
		s.PHyper = stats.Hypergeometric(universe, n, m, k)
		s.HasHyper = true
	}
}

func intersectionSize(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, x := range a {
		set[x] = true
	}
	count := 0
	for _, y := range b {
		if set[y] {
			count++
		}
	}
	return count
}

func universeSize(groupLists ...[]*groups.Group) int {
	set := make(map[string]bool)
	for _, list := range groupLists {
		for _, g := range list {
			for _, m := range g.Members {
				set[m] = true
			}
		}
	}
	return len(set)
}

func degreeRange(g *graph.Graph) (min, max int) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0, 0
	}
	min, max = g.Degree(nodes[0]), g.Degree(nodes[0])
	for _, v := range nodes[1:] {
		d := g.Degree(v)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}
