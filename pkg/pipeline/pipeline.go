// Package pipeline formats kmonad configuration files on disk.
//
// It wraps [format.Formatter] with file I/O, a clean-file cache and bounded
// parallelism so the CLI and the server share one code path.
//
// # Usage
//
//	runner := pipeline.NewRunner(formatter, cache, nil, logger)
//	results, err := runner.Run(ctx, paths, pipeline.ModeCheck)
//	if err != nil {
//	    return err // context cancelled
//	}
//	if pipeline.Summarize(results).Changed > 0 {
//	    // not formatted
//	}
package pipeline

import (
	"fmt"
	"time"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultTTL is how long a clean-file marker stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Marker is the value stored for a clean file.
var Marker = []byte("clean")

// =============================================================================
// Modes
// =============================================================================

// Mode selects what happens with formatted output.
type Mode int

const (
	// ModeWrite rewrites changed files in place.
	ModeWrite Mode = iota
	// ModeCheck only reports which files would change.
	ModeCheck
	// ModeStdout returns the formatted text without touching files.
	ModeStdout
)

func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "write"
	case ModeCheck:
		return "check"
	case ModeStdout:
		return "stdout"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// =============================================================================
// Results
// =============================================================================

// FileResult is the outcome for one file.
type FileResult struct {
	Path     string
	Changed  bool   // formatting altered the text
	Cached   bool   // a clean marker skipped formatting
	Info     string // formatter summary, e.g. "Formatted 2/3 layers"
	Skipped  []string
	Output   string // formatted text, ModeStdout only
	Duration time.Duration
	Err      error
}

// Summary counts file results.
type Summary struct {
	Files   int
	Changed int
	Cached  int
	Failed  int
}

// Summarize counts results.
func Summarize(results []FileResult) Summary {
	s := Summary{Files: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Changed:
			s.Changed++
		}
		if r.Cached {
			s.Cached++
		}
	}
	return s
}
