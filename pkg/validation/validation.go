// Package validation checks CLI-level preconditions before the
// orchestrator starts: input files exist and are readable, the output
// directory is writable, and the flag combination is internally
// consistent.
package validation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/crosstalkz/crosstalkz/pkg/crosstalkerr"
)

// RequireReadableFile checks that path exists and can be opened. An empty
// path is reported as the InputMissing error kind naming flagName; a file
// that cannot be opened is wrapped as the InputFormat error kind.
func RequireReadableFile(flagName, path string) error {
	if path == "" {
		return &crosstalkerr.InputMissingError{Flag: flagName}
	}
	f, err := os.Open(path)
	if err != nil {
		return &crosstalkerr.InputFormatError{Path: path, Err: err}
	}
	return f.Close()
}

// ValidateOutputDirectory checks that the directory holding outputPath
// exists or can be created, and is writable.
func ValidateOutputDirectory(outputPath string) error {
	dir := filepath.Dir(outputPath)
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
			return &crosstalkerr.OutOfMemoryError{Hint: fmt.Sprintf("cannot create output directory %s: %v", dir, mkErr)}
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path's parent exists but is not a directory: %s", dir)
	}

	testFile := filepath.Join(dir, ".crosstalkz_write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("output directory is not writable: %w", err)
	}
	os.Remove(testFile)
	return nil
}

// CLIFlags is the subset of parsed flags needed to check cross-flag
// consistency before any file is opened.
type CLIFlags struct {
	NetworkPath  string
	GroupPath    string
	GroupAPath   string
	GroupBPath   string
	Method       int
	CountingMode int
}

// ValidateFlagCombination enforces the mutually-exclusive and
// mutually-required relationships among the CLI's group-file flags and
// the enum-valued flags.
func ValidateFlagCombination(f CLIFlags) error {
	if f.NetworkPath == "" {
		return &crosstalkerr.InputMissingError{Flag: "-n"}
	}

	hasSingle := f.GroupPath != ""
	hasPair := f.GroupAPath != "" || f.GroupBPath != ""
	if !hasSingle && !hasPair {
		return &crosstalkerr.InputMissingError{Flag: "-g or (-a and -b)"}
	}
	if hasSingle && hasPair {
		return fmt.Errorf("specify either -g or -a/-b, not both")
	}
	if hasPair && (f.GroupAPath == "" || f.GroupBPath == "") {
		return fmt.Errorf("-a and -b must be supplied together")
	}

	if f.Method < 0 || f.Method > 3 {
		return fmt.Errorf("generator method -d must be 0, 1, 2 or 3, got %d", f.Method)
	}
	if f.CountingMode != 0 && f.CountingMode != 1 {
		return fmt.Errorf("counting mode -m must be 0 or 1, got %d", f.CountingMode)
	}
	return nil
}
