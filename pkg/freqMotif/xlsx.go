package freqMotif

import (
	"github.com/liserjrqlxue/DNA/pkg/util"
	"github.com/liserjrqlxue/goUtil/simpleUtil"
	"github.com/xuri/excelize/v2"
)

var (
	titleProportion = []interface{}{
		"Motif", "Kind", "Proportion", "ReverseComplement", "ReverseComplementProportion", "Displayed",
	}
	center = &excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	}
)

func SetRow(xlsx *excelize.File, sheet string, col, row int, value []interface{}) {
	simpleUtil.CheckErr(
		xlsx.SetSheetRow(
			sheet,
			simpleUtil.HandleError(excelize.CoordinatesToCellName(col, row)),
			&value,
		),
	)
}

func GetCellValue(xlsx *excelize.File, sheet string, col, row int) string {
	return simpleUtil.HandleError(
		xlsx.GetCellValue(
			sheet,
			simpleUtil.HandleError(excelize.CoordinatesToCellName(col, row)),
		),
	)
}

// ReverseComplementMotif pairs a motif with the same repeat read on the other
// strand, e.g. AC with GT. LowComplexity has no pair.
func ReverseComplementMotif(m Motif) (Motif, bool) {
	if m.Kind() == KindLowComplexity {
		return 0, false
	}
	return ParseMotif(util.ReverseComplement(m.String()))
}

// ProportionRows is the Proportion sheet body, in Motifs order
func (a *Analysis) ProportionRows() (rows [][]interface{}) {
	var displayed = make(map[Motif]bool)
	for _, row := range a.Table.Displayed(a.Config.Ratio) {
		displayed[row.Motif] = true
	}
	for _, row := range a.Table {
		var data = []interface{}{row.Motif.String(), row.Motif.Kind().String(), row.Proportion}
		if rc, ok := ReverseComplementMotif(row.Motif); ok {
			data = append(data, rc.String(), a.Table.Get(rc))
		} else {
			data = append(data, "", "")
		}
		data = append(data, displayed[row.Motif])
		rows = append(rows, data)
	}
	return
}

// SummaryRows is the Summary sheet body: run parameters and counters
func (a *Analysis) SummaryRows() [][]interface{} {
	return [][]interface{}{
		{"Name", a.Name},
		{"Input", a.Config.Input},
		{"Skip", a.Config.Skip},
		{"MaxReads", a.Config.MaxReads},
		{"Ratio", a.Config.Ratio},
		{"LowComplexityScorer", a.Config.LowComplexity},
		{"ReadsSkipped", a.Aggregator.ReadsSkipped},
		{"ReadsAnalyzed", a.Aggregator.ReadsAnalyzed},
		{"ReadsMalformed", a.Aggregator.ReadsMalformed},
	}
}

// WriteWorkbook saves the Proportion and Summary sheets to path.
func (a *Analysis) WriteWorkbook(path string) error {
	var xlsx = excelize.NewFile()
	defer xlsx.Close()

	var sheet = "Proportion"
	if err := xlsx.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	SetRow(xlsx, sheet, 1, 1, titleProportion)
	for i, row := range a.ProportionRows() {
		SetRow(xlsx, sheet, 1, i+2, row)
	}
	simpleUtil.CheckErr(xlsx.SetColWidth(sheet, "A", "B", 16))
	simpleUtil.CheckErr(xlsx.SetColWidth(sheet, "C", "F", 22))
	var style = simpleUtil.HandleError(xlsx.NewStyle(center))
	simpleUtil.CheckErr(xlsx.SetCellStyle(sheet, "A1", "F1", style))

	sheet = "Summary"
	if _, err := xlsx.NewSheet(sheet); err != nil {
		return err
	}
	for i, row := range a.SummaryRows() {
		SetRow(xlsx, sheet, 1, i+1, row)
	}
	simpleUtil.CheckErr(xlsx.SetColWidth(sheet, "A", "B", 22))

	return xlsx.SaveAs(path)
}
