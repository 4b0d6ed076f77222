package freqMotif

// Aggregator is the run-scoped state: how many analyzed reads exceeded the
// ratio for each category. It has a single owner.
type Aggregator struct {
	Counts [MotifCount]int

	ReadsSkipped   int
	ReadsAnalyzed  int
	ReadsMalformed int
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add folds one analyzed read into the counters
func (agg *Aggregator) Add(flags *Flags) {
	agg.ReadsAnalyzed++
	for m, hit := range flags {
		if hit {
			agg.Counts[m]++
		}
	}
}

// Merge adds the counters of a partial state built over another partition.
func (agg *Aggregator) Merge(o *Aggregator) {
	for m, n := range o.Counts {
		agg.Counts[m] += n
	}
	agg.ReadsSkipped += o.ReadsSkipped
	agg.ReadsAnalyzed += o.ReadsAnalyzed
	agg.ReadsMalformed += o.ReadsMalformed
}

// Finalize converts counters to percentages of the analyzed reads, in Motifs order.
// With no analyzed read the table is all zero and an *EmptyAnalysisWarning is returned.
func (agg *Aggregator) Finalize() (Table, error) {
	var table = make(Table, MotifCount)
	for _, m := range Motifs {
		table[m] = Row{
			Motif:      m,
			Proportion: Percent(agg.Counts[m], agg.ReadsAnalyzed),
		}
	}
	if agg.ReadsAnalyzed == 0 {
		return table, &EmptyAnalysisWarning{
			ReadsSkipped:   agg.ReadsSkipped,
			ReadsMalformed: agg.ReadsMalformed,
		}
	}
	return table, nil
}
