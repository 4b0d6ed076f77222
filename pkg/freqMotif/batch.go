package freqMotif

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/liserjrqlxue/goUtil/fmtUtil"
	math2 "github.com/liserjrqlxue/goUtil/math"
	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"
	"github.com/liserjrqlxue/goUtil/textUtil"
	"github.com/xuri/excelize/v2"
)

// regexp
var (
	isXlsx = regexp.MustCompile(`\.xlsx$`)
)

const (
	PooledName = "pooled"
)

// Batch runs one Analysis per input sample, each with its own Aggregator.
type Batch struct {
	OutputPrefix string
	Thread       int
	// Config is the template for every sample, Input and OutputDir are set per sample
	Config Config

	TitleSummary []string
	InputInfo    []map[string]string

	AnalysisMap map[string]*Analysis
	Errors      map[string]error
	Pooled      *Aggregator
}

func NewBatch(outputPrefix string, thread int, cfg Config) *Batch {
	return &Batch{
		OutputPrefix: outputPrefix,
		Thread:       thread,
		Config:       cfg,
		AnalysisMap:  make(map[string]*Analysis),
		Errors:       make(map[string]error),
		Pooled:       NewAggregator(),
	}
}

func (batch *Batch) LoadConfig(cfgPath string, cfgFS embed.FS) {
	batch.TitleSummary = osUtil.FS2Array(osUtil.OpenFS("etc/title.Summary.txt", cfgPath, cfgFS))
}

func (batch *Batch) LoadInput(input, workDir string) (err error) {
	batch.InputInfo, err = ParseInput(input, workDir)
	return
}

func Rows2Map(rows [][]string) (result []map[string]string) {
	var title = rows[0]
	for i, row := range rows {
		if i == 0 {
			continue
		}
		var data = make(map[string]string)
		for j, v := range row {
			if j < len(title) {
				data[title[j]] = strings.TrimSpace(v)
			}
		}
		result = append(result, data)
	}
	return
}

// ParseInput reads sample id and fastq path pairs, from an .xlsx whose first
// sheet has id and fq columns, or from a tab separated text file.
func ParseInput(input, workDir string) (info []map[string]string, err error) {
	if isXlsx.MatchString(input) {
		xlsx, err := excelize.OpenFile(input)
		if err != nil {
			return nil, err
		}
		defer xlsx.Close()
		rows, err := xlsx.GetRows(xlsx.GetSheetList()[0])
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("%s: empty sheet", input)
		}
		info = Rows2Map(rows)
	} else {
		// File2Array panics on a missing file
		if fi, err := os.Stat(input); err != nil {
			return nil, err
		} else if fi.IsDir() {
			return nil, fmt.Errorf("%s: is a directory", input)
		}
		for _, line := range textUtil.File2Array(input) {
			line = strings.TrimSuffix(line, "\r")
			if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
				continue
			}
			var stra = strings.Split(line, "\t")
			if len(stra) < 2 {
				return nil, fmt.Errorf("%s: want id<TAB>fq, got %q", input, line)
			}
			info = append(info, map[string]string{"id": stra[0], "fq": stra[1]})
		}
	}

	var seen = make(map[string]bool)
	for _, data := range info {
		var id, fq = data["id"], data["fq"]
		if id == "" || fq == "" {
			return nil, fmt.Errorf("%s: sample without id or fq: %v", input, data)
		}
		if seen[id] {
			return nil, fmt.Errorf("%s: duplicate sample id %s", input, id)
		}
		seen[id] = true
		if workDir != "" && !filepath.IsAbs(fq) {
			data["fq"] = filepath.Join(workDir, fq)
		}
	}
	return
}

func (batch *Batch) Prepare() error {
	// prepare output directory structure
	return os.MkdirAll(batch.OutputPrefix, 0755)
}

func (batch *Batch) WriteInfoTxt(path string) {
	var file = osUtil.Create(path)
	defer simpleUtil.DeferClose(file)

	fmtUtil.FprintStringArray(file, []string{"id", "fq"}, "\t")
	for _, data := range batch.InputInfo {
		fmtUtil.Fprintf(file, "%s\t%s\n", data["id"], data["fq"])
	}
}

func (batch *Batch) BuildAnalysis() error {
	for _, data := range batch.InputInfo {
		var cfg = batch.Config
		cfg.Input = data["fq"]
		cfg.OutputDir = filepath.Join(batch.OutputPrefix, data["id"])
		var analysis, err = NewAnalysis(data["id"], cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", data["id"], err)
		}
		batch.AnalysisMap[data["id"]] = analysis
	}
	return nil
}

// ConcurrencyRun runs at most Thread samples at once. A failed sample is
// recorded in Errors and left out of the pooled counters.
func (batch *Batch) ConcurrencyRun() {
	var thread = batch.Thread
	if thread <= 0 {
		thread = min(len(batch.InputInfo), runtime.GOMAXPROCS(0))
	}
	var (
		chanList = make(chan bool, max(thread, 1))
		wg       sync.WaitGroup
		mu       sync.Mutex
	)
	for _, data := range batch.InputInfo {
		var id = data["id"]
		chanList <- true
		wg.Add(1)
		go func(id string) {
			defer func() {
				wg.Done()
				<-chanList
			}()
			slog.Info("SingleRun", "id", id)
			if err := batch.AnalysisMap[id].SingleRun(); err != nil {
				slog.Error("SingleRun", "id", id, "err", err)
				mu.Lock()
				batch.Errors[id] = err
				mu.Unlock()
			}
		}(id)
	}

	// wait goconcurrency thread to finish
	wg.Wait()

	// counters are only summed once every worker is done
	for _, id := range batch.Succeeded() {
		batch.Pooled.Merge(batch.AnalysisMap[id].Aggregator)
	}
}

// Succeeded lists the ids of finished samples in input order
func (batch *Batch) Succeeded() (ids []string) {
	for _, data := range batch.InputInfo {
		var id = data["id"]
		if _, failed := batch.Errors[id]; failed {
			continue
		}
		if _, ok := batch.AnalysisMap[id]; ok {
			ids = append(ids, id)
		}
	}
	return
}

// SummaryRow matches etc/title.Summary.txt
func (a *Analysis) SummaryRow() []interface{} {
	var (
		agg   = a.Aggregator
		total = agg.ReadsSkipped + agg.ReadsAnalyzed + agg.ReadsMalformed
		rate  = 0.0
		top   = a.Table.Sorted()[0]
	)
	if total > 0 {
		rate = math2.DivisionInt(agg.ReadsMalformed, total)
	}
	return []interface{}{
		a.Name, a.Config.Input, a.Config.Skip, a.Config.MaxReads, a.Config.Ratio,
		agg.ReadsSkipped, agg.ReadsAnalyzed, agg.ReadsMalformed, rate,
		a.Table.Get(LowComplexity), top.Motif.String(), top.Proportion,
	}
}

func (batch *Batch) SummaryTxt(path string) {
	var file = osUtil.Create(path)
	defer simpleUtil.DeferClose(file)

	fmtUtil.FprintStringArray(file, batch.TitleSummary, "\t")
	for _, id := range batch.Succeeded() {
		var row = batch.AnalysisMap[id].SummaryRow()
		var strs = make([]string, len(row))
		for i, v := range row {
			strs[i] = fmt.Sprint(v)
		}
		fmtUtil.FprintStringArray(file, strs, "\t")
	}
}

// MotifMatrix is one row per motif: proportion per sample then mean and SD
func (batch *Batch) MotifMatrix() (title []interface{}, rows [][]interface{}) {
	var ids = batch.Succeeded()
	title = append(title, "Motif")
	for _, id := range ids {
		title = append(title, id)
	}
	title = append(title, "Mean", "SD")

	for _, m := range Motifs {
		var (
			row    = []interface{}{m.String()}
			values []float64
		)
		for _, id := range ids {
			var v = batch.AnalysisMap[id].Table.Get(m)
			values = append(values, v)
			row = append(row, v)
		}
		var mean, sd float64
		if len(values) > 0 {
			mean, sd = math2.MeanStdDev(values)
		}
		if len(values) == 1 {
			sd = 0
		}
		rows = append(rows, append(row, mean, sd))
	}
	return
}

func (batch *Batch) SummaryXlsx(path string) error {
	var xlsx = excelize.NewFile()
	defer xlsx.Close()

	var sheet = "Summary"
	if err := xlsx.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	var title = make([]interface{}, len(batch.TitleSummary))
	for i, s := range batch.TitleSummary {
		title[i] = s
	}
	SetRow(xlsx, sheet, 1, 1, title)
	for i, id := range batch.Succeeded() {
		SetRow(xlsx, sheet, 1, i+2, batch.AnalysisMap[id].SummaryRow())
	}

	sheet = "Motif"
	simpleUtil.HandleError(xlsx.NewSheet(sheet))
	var motifTitle, rows = batch.MotifMatrix()
	SetRow(xlsx, sheet, 1, 1, motifTitle)
	for i, row := range rows {
		SetRow(xlsx, sheet, 1, i+2, row)
	}
	return xlsx.SaveAs(path)
}

// SavePooled writes the table of the merged counters of every finished sample
func (batch *Batch) SavePooled() error {
	var dir = filepath.Join(batch.OutputPrefix, PooledName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	var table, warning = batch.Pooled.Finalize()
	if warning != nil {
		slog.Warn("EmptyAnalysis", "name", PooledName, "warning", warning)
	}
	var file, err = os.Create(filepath.Join(dir, CSVName))
	if err != nil {
		return err
	}
	if err = table.Sorted().WriteCSV(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (batch *Batch) Summary() error {
	batch.SummaryTxt(filepath.Join(batch.OutputPrefix, "summary.txt"))
	if err := batch.SummaryXlsx(filepath.Join(batch.OutputPrefix, "summary.xlsx")); err != nil {
		return err
	}
	return batch.SavePooled()
}

// BatchRun returns the joined errors of failed samples after the summary of
// the others is written.
func (batch *Batch) BatchRun(input, workDir, exPath string, etcEMFS embed.FS) error {
	var now = time.Now()

	batch.LoadConfig(exPath, etcEMFS)
	if err := batch.LoadInput(input, workDir); err != nil {
		return err
	}
	if err := batch.BuildAnalysis(); err != nil {
		return err
	}
	if err := batch.Prepare(); err != nil {
		return err
	}
	batch.WriteInfoTxt(filepath.Join(batch.OutputPrefix, "info.txt"))
	batch.ConcurrencyRun()
	if err := batch.Summary(); err != nil {
		return err
	}

	var errs []error
	for _, data := range batch.InputInfo {
		if err, ok := batch.Errors[data["id"]]; ok {
			errs = append(errs, fmt.Errorf("%s: %w", data["id"], err))
		}
	}
	slog.Info("Done", "samples", len(batch.InputInfo), "failed", len(errs), "time", time.Since(now))
	return errors.Join(errs...)
}
