package freqMotif

import "fmt"

// SourceOpenError is fatal: the input could not be opened, decompressed or read.
type SourceOpenError struct {
	Path string
	Op   string // "open" or "read"
	Err  error
}

func (e *SourceOpenError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SourceOpenError) Unwrap() error {
	return e.Err
}

// EmptyAnalysisWarning is returned with an all-zero table when no read was analyzed.
type EmptyAnalysisWarning struct {
	ReadsSkipped   int
	ReadsMalformed int
}

func (w *EmptyAnalysisWarning) Error() string {
	return fmt.Sprintf(
		"no reads analyzed (skipped %d, malformed %d): proportions are all zero",
		w.ReadsSkipped, w.ReadsMalformed,
	)
}
