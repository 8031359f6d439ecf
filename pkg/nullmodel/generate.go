package nullmodel

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/crosstalkz/crosstalkz/pkg/crosstalkerr"
	"github.com/crosstalkz/crosstalkz/pkg/graph"
)

// Generate runs the selected randomization method against replica,
// overwriting its edge set in place (replica must share its node set and
// handles with original, e.g. produced by original.CloneTopology()).
//
// originalDegIdx is the degree index of the original graph and is only
// consulted by MethodLinkAssignmentSecondOrder; callers may pass nil for
// the other three methods.
//
// State machine: READY -> BUILDING -> (VALID | REPAIRING -> (VALID |
// FAILED)). A non-nil *crosstalkerr.GeneratorFailureError return means
// FAILED: the caller must discard this replica, not count it. Any other
// non-nil error is an internal invariant violation and should be treated
// as fatal.
func Generate(rng *rand.Rand, original, replica *graph.Graph, method Method, originalDegIdx *graph.DegreeIndex, log zerolog.Logger) error {
	if !method.Valid() {
		return &crosstalkerr.InternalInvariantError{Detail: fmt.Sprintf("unknown generator method %d", method)}
	}

	replica.ResetFrom(original)

	switch method {
	case MethodLinkSwap:
		linkSwap(rng, replica)
	case MethodLinkAssignment:
		linkAssignment(rng, original, replica, false, nil)
	case MethodLinkAssignmentSecondOrder:
		linkAssignment(rng, original, replica, true, originalDegIdx)
	case MethodLabelSwap:
		labelSwap(rng, original, replica)
		return nil
	}

	errs, err := Validate(original, replica)
	if err != nil {
		return err
	}
	if IsValid(original, replica, errs) {
		return nil
	}

	if method == MethodLinkSwap {
		return &crosstalkerr.GeneratorFailureError{
			Method:  method.String(),
			Deficit: sumAbsDeficit(errs),
		}
	}

	Repair(replica, errs)

	errs2, err2 := Validate(original, replica)
	if err2 != nil {
		return err2
	}
	if IsValid(original, replica, errs2) {
		return nil
	}

	deficit := sumAbsDeficit(errs2)
	log.Warn().
		Str("method", method.String()).
		Int("residual_deficit", deficit).
		Msg("generator failed to converge after repair, discarding replica")
	return &crosstalkerr.GeneratorFailureError{Method: method.String(), Deficit: deficit}
}

func sumAbsDeficit(errs []DegreeError) int {
	total := 0
	for _, e := range errs {
		if e.Deficit < 0 {
			total -= e.Deficit
		} else {
			total += e.Deficit
		}
	}
	return total
}
