package freqMotif

// Counts holds overlapping occurrence counts of one window
type Counts struct {
	Length int
	Di     [DinucleotideCount]int
	Tri    [TrinucleotideCount]int
}

// Frequencies are per-window percentages indexed by Motif
type Frequencies [MotifCount]float64

// Flags marks the categories whose frequency reached the ratio for one read
type Flags [MotifCount]bool

// Count scans every adjacent pair and triple of window, overlaps included.
// Pairs and triples containing a base outside A/C/G/T match no motif.
func Count(window []byte) (c Counts) {
	c.Length = len(window)
	for i := 1; i < len(window); i++ {
		if m, ok := Dinucleotide(window[i-1], window[i]); ok {
			c.Di[m]++
		}
		if i < 2 {
			continue
		}
		if m, ok := Trinucleotide(window[i-2], window[i-1], window[i]); ok {
			c.Tri[m-DinucleotideCount]++
		}
	}
	return
}

// Percent is n/total as a percentage, 0 when total is not positive
func Percent(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

// Exceeds is the single place the threshold rule lives: a category is flagged
// when its percentage reaches ratio. Every category currently shares one ratio.
func Exceeds(m Motif, percent, ratio float64) bool {
	return percent >= ratio
}

type Counter struct {
	// Ratio is the per-read threshold, in percent
	Ratio  float64
	Scorer LowComplexityScorer
}

func NewCounter(ratio float64, scorer LowComplexityScorer) *Counter {
	if scorer == nil {
		scorer = RunLength{}
	}
	return &Counter{Ratio: ratio, Scorer: scorer}
}

// Frequencies computes all 81 percentages of window. Dinucleotides divide by
// len-1, trinucleotides by len-2, both are 0 when no pair/triple exists.
func (counter *Counter) Frequencies(window []byte) (f Frequencies) {
	var (
		c      = Count(window)
		pairs  = c.Length - 1
		triple = c.Length - 2
	)
	for i, n := range c.Di {
		f[i] = Percent(n, pairs)
	}
	for i, n := range c.Tri {
		f[DinucleotideCount+i] = Percent(n, triple)
	}
	f[LowComplexity] = counter.Scorer.Score(window)
	return
}

// Flags applies the threshold to every category of window.
func (counter *Counter) Flags(window []byte) (flags Flags) {
	var f = counter.Frequencies(window)
	for _, m := range Motifs {
		flags[m] = Exceeds(m, f[m], counter.Ratio)
	}
	return
}
