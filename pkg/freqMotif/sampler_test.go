package freqMotif

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"FreqMotif/pkg/fastq"
)

// fakeSource replays seqs; an entry of "!" is a malformed record and "?"
// a stream failure
type fakeSource struct {
	seqs  []string
	calls int
}

var errBroken = errors.New("broken stream")

func (s *fakeSource) Next() (*fastq.Record, error) {
	if s.calls >= len(s.seqs) {
		return nil, io.EOF
	}
	var seq = s.seqs[s.calls]
	s.calls++
	switch seq {
	case "!":
		return nil, &fastq.ParseError{Record: s.calls - 1, Line: 4*s.calls - 3, Reason: "test"}
	case "?":
		return nil, errBroken
	}
	return &fastq.Record{Name: []byte("r"), Seq: []byte(seq), Qual: []byte(strings.Repeat("I", len(seq)))}, nil
}

func TestSamplerSkipAndMax(t *testing.T) {
	var seqs = []string{"AAAA", "AAAA", "CCCC", "GGGG", "TTTT", "AAAA", "AAAA", "AAAA", "AAAA", "AAAA"}
	var (
		src     = &fakeSource{seqs: seqs}
		agg     = NewAggregator()
		counts  []int
		sampler = &Sampler{
			Skip:       2,
			MaxReads:   3,
			Counter:    NewCounter(DefaultRatio, nil),
			OnAnalyzed: func(n int) { counts = append(counts, n) },
		}
	)
	if err := sampler.Run(src, agg); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if agg.ReadsSkipped != 2 || agg.ReadsAnalyzed != 3 {
		t.Errorf("skipped %d analyzed %d; want 2 and 3", agg.ReadsSkipped, agg.ReadsAnalyzed)
	}
	if src.calls != 5 {
		t.Errorf("source read %d records; want 5", src.calls)
	}
	if !reflect.DeepEqual(counts, []int{1, 2, 3}) {
		t.Errorf("OnAnalyzed got %v", counts)
	}
	for _, name := range []string{"CC", "GG", "TT"} {
		if n := agg.Counts[mustMotif(t, name)]; n != 1 {
			t.Errorf("%s count %d; want 1", name, n)
		}
	}
	if n := agg.Counts[mustMotif(t, "AA")]; n != 0 {
		t.Errorf("AA count %d; want 0, the AAAA reads are outside the sample", n)
	}
}

func TestSamplerShortInput(t *testing.T) {
	var agg = NewAggregator()
	var sampler = &Sampler{Skip: 3, MaxReads: 10, Counter: NewCounter(DefaultRatio, nil)}
	if err := sampler.Run(&fakeSource{seqs: []string{"ACGT", "ACGT"}}, agg); err != nil {
		t.Fatal(err)
	}
	if agg.ReadsSkipped != 2 || agg.ReadsAnalyzed != 0 {
		t.Errorf("skipped %d analyzed %d", agg.ReadsSkipped, agg.ReadsAnalyzed)
	}
	var _, warning = agg.Finalize()
	var empty *EmptyAnalysisWarning
	if !errors.As(warning, &empty) || empty.ReadsSkipped != 2 {
		t.Errorf("expected an empty analysis warning, got %v", warning)
	}
}

func TestSamplerMalformed(t *testing.T) {
	var agg = NewAggregator()
	var sampler = &Sampler{Skip: 1, MaxReads: 3, Counter: NewCounter(DefaultRatio, nil)}
	var src = &fakeSource{seqs: []string{"!", "ACGT", "!", "ACGT", "ACGT", "ACGT"}}
	if err := sampler.Run(src, agg); err != nil {
		t.Fatal(err)
	}
	// malformed records at positions 0 and 2 still use up their positions
	if agg.ReadsMalformed != 2 || agg.ReadsSkipped != 0 || agg.ReadsAnalyzed != 2 {
		t.Errorf("malformed %d skipped %d analyzed %d", agg.ReadsMalformed, agg.ReadsSkipped, agg.ReadsAnalyzed)
	}
	if src.calls != 4 {
		t.Errorf("source read %d records; want 4", src.calls)
	}
}

func TestSamplerFatal(t *testing.T) {
	var sampler = &Sampler{MaxReads: 10, Counter: NewCounter(DefaultRatio, nil)}
	var err = sampler.Run(&fakeSource{seqs: []string{"ACGT", "?", "ACGT"}}, NewAggregator())
	if !errors.Is(err, errBroken) {
		t.Errorf("expected the stream error, got %v", err)
	}
}

func TestSamplerZeroMax(t *testing.T) {
	var (
		src     = &fakeSource{seqs: []string{"ACGT"}}
		agg     = NewAggregator()
		sampler = &Sampler{MaxReads: 0, Counter: NewCounter(DefaultRatio, nil)}
	)
	if err := sampler.Run(src, agg); err != nil {
		t.Fatal(err)
	}
	if src.calls != 0 || agg.ReadsAnalyzed != 0 {
		t.Errorf("calls %d analyzed %d; want nothing read", src.calls, agg.ReadsAnalyzed)
	}
}

func TestRatioMonotonic(t *testing.T) {
	var seqs = []string{"AAAATT", "ACACACAC", "GGGGGGGG", "ACGTACGTAC", "TTTAAATTT", "CAGCAGCAG"}
	var prev Table
	for _, ratio := range []float64{0, 10, 15, 33.3, 50, 75, 100} {
		var agg = NewAggregator()
		var sampler = &Sampler{MaxReads: len(seqs), Counter: NewCounter(ratio, nil)}
		if err := sampler.Run(&fakeSource{seqs: seqs}, agg); err != nil {
			t.Fatal(err)
		}
		var table, _ = agg.Finalize()
		if prev != nil {
			for _, m := range Motifs {
				if table.Get(m) > prev.Get(m) {
					t.Errorf("ratio %v: %s rose from %v to %v", ratio, m, prev.Get(m), table.Get(m))
				}
			}
		}
		prev = table
	}
}

func TestRatioZeroFlagsEverything(t *testing.T) {
	var agg = NewAggregator()
	var sampler = &Sampler{MaxReads: 2, Counter: NewCounter(0, nil)}
	if err := sampler.Run(&fakeSource{seqs: []string{"ACGT", "GG"}}, agg); err != nil {
		t.Fatal(err)
	}
	var table, _ = agg.Finalize()
	for _, row := range table {
		if row.Proportion != 100 {
			t.Errorf("%s = %v; want 100", row.Motif, row.Proportion)
		}
	}
}

func TestRatioHundred(t *testing.T) {
	var seqs = []string{strings.Repeat("A", 150), strings.Repeat("A", 150), "ACGTACGT", strings.Repeat("C", 20)}
	var agg = NewAggregator()
	var sampler = &Sampler{MaxReads: len(seqs), Counter: NewCounter(100, nil)}
	if err := sampler.Run(&fakeSource{seqs: seqs}, agg); err != nil {
		t.Fatal(err)
	}
	var table, _ = agg.Finalize()
	var want = map[string]float64{"AA": 50, "AAA": 50, "CC": 25, "CCC": 25, LowComplexityName: 75}
	for _, m := range Motifs {
		if got := table.Get(m); !near(got, want[m.String()]) {
			t.Errorf("%s = %v; want %v", m, got, want[m.String()])
		}
	}
}

func TestSamplerDamagedFastq(t *testing.T) {
	var input = strings.Join([]string{
		"@r1", "ACGT", "+",
		"@r2", "CCCCCC", "+", "IIIIII",
		"@r3", "GGGGGG", "+", "IIIIII",
		"@r4", "TTTTTT", "+", "IIIIII",
		"@r5", "AAAAAA", "+", "IIIIII",
	}, "\n") + "\n"
	var reader, err = fastq.NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	var (
		agg     = NewAggregator()
		sampler = &Sampler{Skip: 1, MaxReads: 10, Counter: NewCounter(DefaultRatio, nil)}
	)
	if err = sampler.Run(reader, agg); err != nil {
		t.Fatal(err)
	}
	// the damaged record takes the skipped position
	if agg.ReadsMalformed != 1 || agg.ReadsSkipped != 0 || agg.ReadsAnalyzed != 4 {
		t.Errorf("malformed %d skipped %d analyzed %d; want 1, 0, 4",
			agg.ReadsMalformed, agg.ReadsSkipped, agg.ReadsAnalyzed)
	}
	for _, name := range []string{"CC", "GG", "TT", "AA"} {
		if n := agg.Counts[mustMotif(t, name)]; n != 1 {
			t.Errorf("%s count %d; want 1", name, n)
		}
	}
}
