package freqMotif

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
)

// CSVHeader is the column layout the plotting step reads
var CSVHeader = []string{"Motif", "Proportion"}

type Row struct {
	Motif      Motif
	Proportion float64
}

// Table holds one row per category
type Table []Row

// Get returns the proportion of m, 0 if the table has no such row
func (t Table) Get(m Motif) float64 {
	for _, row := range t {
		if row.Motif == m {
			return row.Proportion
		}
	}
	return 0
}

// Sorted returns a copy ordered by proportion descending, ties keep their order.
func (t Table) Sorted() Table {
	var sorted = make(Table, len(t))
	copy(sorted, t)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Proportion > sorted[j].Proportion
	})
	return sorted
}

// Displayed keeps the rows a plot should show: proportion >= ratio, and
// the LowComplexity row in any case.
func (t Table) Displayed(ratio float64) Table {
	var rows Table
	for _, row := range t {
		if row.Motif == LowComplexity || row.Proportion >= ratio {
			rows = append(rows, row)
		}
	}
	return rows
}

// WriteCSV writes the Motif,Proportion table with 4 decimals.
func (t Table) WriteCSV(w io.Writer) error {
	var cw = csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range t {
		var record = []string{
			row.Motif.String(),
			strconv.FormatFloat(row.Proportion, 'f', 4, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
