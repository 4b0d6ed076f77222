package freqMotif

import (
	"errors"
	"io"
	"log/slog"

	"FreqMotif/pkg/fastq"
)

// Source yields raw reads; fastq.Reader implements it.
type Source interface {
	Next() (*fastq.Record, error)
}

// Sampler walks the source in order: the first Skip records are discarded,
// the next MaxReads are analyzed, the rest is never read.
type Sampler struct {
	Skip     int
	MaxReads int
	Counter  *Counter

	// OnAnalyzed is called after every analyzed read with the running count
	OnAnalyzed func(analyzed int)
}

// Run feeds agg. Malformed records take their position and are counted in
// agg.ReadsMalformed; any other source error is returned as is.
func (s *Sampler) Run(src Source, agg *Aggregator) error {
	var end = s.Skip + s.MaxReads
	for idx := 0; idx < end; idx++ {
		var record, err = src.Next()
		if err == io.EOF {
			return nil
		}
		if errors.Is(err, fastq.ErrMalformed) {
			agg.ReadsMalformed++
			slog.Debug("skip malformed record", "idx", idx, "err", err)
			continue
		}
		if err != nil {
			return err
		}

		if idx < s.Skip {
			agg.ReadsSkipped++
			continue
		}

		var flags = s.Counter.Flags(Window(record.Seq))
		agg.Add(&flags)
		if s.OnAnalyzed != nil {
			s.OnAnalyzed(agg.ReadsAnalyzed)
		}
	}
	return nil
}
