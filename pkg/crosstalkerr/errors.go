// Package crosstalkerr defines the typed error kinds the orchestrator and
// CLI distinguish between, in the style of a validation-error hierarchy:
// each kind carries the structured detail a caller needs without parsing
// a message string.
package crosstalkerr

import "fmt"

// InputFormatError reports an unparsable network or group file.
type InputFormatError struct {
	Path string
	Err  error
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("cannot parse %s: %v", e.Path, e.Err)
}

func (e *InputFormatError) Unwrap() error { return e.Err }

// InputMissingError reports a required CLI flag that was not supplied.
type InputMissingError struct {
	Flag string
}

func (e *InputMissingError) Error() string {
	return fmt.Sprintf("required flag %s not supplied", e.Flag)
}

// NoGroupsError reports that zero groups survived size filtering.
type NoGroupsError struct {
	Path string
}

func (e *NoGroupsError) Error() string {
	return fmt.Sprintf("no groups of sufficient size remain after filtering: %s", e.Path)
}

// GeneratorFailureError reports that a null-model generator could not
// converge for one replica. Non-fatal: the orchestrator logs it as a
// warning and discards the replica.
type GeneratorFailureError struct {
	Method  string
	Deficit int
}

func (e *GeneratorFailureError) Error() string {
	return fmt.Sprintf("generator %s failed to converge, residual absolute deficit %d", e.Method, e.Deficit)
}

// OutOfMemoryError reports a resource exhaustion condition with a
// remediation hint.
type OutOfMemoryError struct {
	Hint string
}

func (e *OutOfMemoryError) Error() string {
	return fmt.Sprintf("out of memory: %s", e.Hint)
}

// InternalInvariantError reports a condition that should be impossible
// absent a bug, such as a label mismatch between original and replica
// graphs during validation.
type InternalInvariantError struct {
	Detail string
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated: %s", e.Detail)
}
