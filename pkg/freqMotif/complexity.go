package freqMotif

import (
	"fmt"
	"math"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/complexity"
	"github.com/biogo/biogo/seq/linear"
)

// LowComplexityScorer scores a window in percent, higher means less complex
type LowComplexityScorer interface {
	Score(window []byte) float64
}

// RunLength scores the longest run of one repeated symbol relative to the window length.
type RunLength struct{}

func (RunLength) Score(window []byte) float64 {
	return Percent(MaxRun(window), len(window))
}

// MaxRun is the length of the longest stretch of one symbol, case-insensitive
func MaxRun(window []byte) int {
	var (
		best, run int
		prev      byte
	)
	for i, b := range window {
		if 'a' <= b && b <= 'z' {
			b -= 'a' - 'A'
		}
		if i > 0 && b == prev {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
		prev = b
	}
	return best
}

// WoottonFederhen scores (1 - WF complexity) of the window over the DNA alphabet.
type WoottonFederhen struct{}

func (WoottonFederhen) Score(window []byte) float64 {
	if len(window) == 0 {
		return 0
	}
	var s = linear.NewSeq("window", alphabet.BytesToLetters(window), alphabet.DNA)
	cz, err := complexity.WF(s, s.Start(), s.End())
	// WF has no value for windows without a single A/C/G/T
	if err != nil || math.IsNaN(cz) {
		return RunLength{}.Score(window)
	}
	return min(max((1-cz)*100, 0), 100)
}

const (
	ScorerRunLength       = "run"
	ScorerWoottonFederhen = "wf"
)

// NewScorer resolves a -lc option value
func NewScorer(name string) (LowComplexityScorer, error) {
	switch name {
	case "", ScorerRunLength:
		return RunLength{}, nil
	case ScorerWoottonFederhen:
		return WoottonFederhen{}, nil
	}
	return nil, fmt.Errorf("unknown low complexity scorer %q, want %q or %q", name, ScorerRunLength, ScorerWoottonFederhen)
}
