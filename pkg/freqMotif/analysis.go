package freqMotif

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"FreqMotif/pkg/fastq"
)

const (
	DefaultMaxReads = 100000
	DefaultRatio    = 15.0
	DefaultSkip     = 10000

	// progress is logged every progressStep analyzed reads
	progressStep = 10000
)

// output files
const (
	CSVName  = "freq-motif.csv"
	PNGName  = "barplot_freq-motif.png"
	HTMLName = "barplot_freq-motif.html"
	XlsxName = "freq-motif.xlsx"
)

type Config struct {
	Input     string
	OutputDir string
	MaxReads  int
	// Ratio is a percentage, used as the per-read threshold and as the plot display cut
	Ratio float64
	Skip  int

	LowComplexity string
	Plot          bool
	Xlsx          bool
}

func DefaultConfig() Config {
	return Config{
		MaxReads:      DefaultMaxReads,
		Ratio:         DefaultRatio,
		Skip:          DefaultSkip,
		LowComplexity: ScorerRunLength,
		Plot:          true,
		Xlsx:          true,
	}
}

func (cfg *Config) Validate() error {
	switch {
	case cfg.Input == "":
		return errors.New("input is required")
	case cfg.MaxReads < 0:
		return fmt.Errorf("maxReads must be >= 0, got %d", cfg.MaxReads)
	case cfg.Skip < 0:
		return fmt.Errorf("skip must be >= 0, got %d", cfg.Skip)
	case math.IsNaN(cfg.Ratio) || cfg.Ratio < 0:
		return fmt.Errorf("ratio must be a percentage >= 0, got %v", cfg.Ratio)
	}
	var _, err = NewScorer(cfg.LowComplexity)
	return err
}

// DefaultOutputDir is a fresh freq_motif_<uuid> directory under the working directory
func DefaultOutputDir() (string, error) {
	var cwd, err = os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, "freq_motif_"+uuid.NewString()), nil
}

// Analysis is one run over one input file.
type Analysis struct {
	Name   string
	Config Config

	Aggregator *Aggregator
	Table      Table
	// Warning is set by Run when the run completed but analyzed nothing
	Warning error

	OnAnalyzed func(analyzed int)

	counter *Counter
}

func NewAnalysis(name string, cfg Config) (*Analysis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var scorer, err = NewScorer(cfg.LowComplexity)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = filepath.Base(cfg.Input)
	}
	return &Analysis{
		Name:       name,
		Config:     cfg,
		Aggregator: NewAggregator(),
		counter:    NewCounter(cfg.Ratio, scorer),
	}, nil
}

// Run samples the input and finalizes the table. It writes nothing, so a
// fatal *SourceOpenError leaves no output behind.
func (a *Analysis) Run() error {
	slog.Info("Opening the input file", "name", a.Name, "input", a.Config.Input)
	var reader, err = fastq.Open(a.Config.Input)
	if err != nil {
		return &SourceOpenError{Path: a.Config.Input, Op: "open", Err: err}
	}
	defer reader.Close()

	var sampler = &Sampler{
		Skip:     a.Config.Skip,
		MaxReads: a.Config.MaxReads,
		Counter:  a.counter,
		OnAnalyzed: func(analyzed int) {
			if analyzed%progressStep == 0 {
				slog.Info("Processed", "name", a.Name, "reads", analyzed)
			}
			if a.OnAnalyzed != nil {
				a.OnAnalyzed(analyzed)
			}
		},
	}
	slog.Info("Skipping", "name", a.Name, "skip", a.Config.Skip)
	if err = sampler.Run(reader, a.Aggregator); err != nil {
		return &SourceOpenError{Path: a.Config.Input, Op: "read", Err: err}
	}

	a.Table, a.Warning = a.Aggregator.Finalize()
	slog.Info(
		"Total reads processed",
		"name", a.Name,
		"skipped", a.Aggregator.ReadsSkipped,
		"analyzed", a.Aggregator.ReadsAnalyzed,
		"malformed", a.Aggregator.ReadsMalformed,
	)
	if a.Warning != nil {
		slog.Warn("EmptyAnalysis", "name", a.Name, "warning", a.Warning)
	}
	return nil
}

// Save writes the csv and, when enabled, the plots and the workbook into Config.OutputDir.
// Files are written to a staging directory next to it and moved in only when
// all of them succeeded, so a failed Save leaves no partial output.
func (a *Analysis) Save() error {
	var dir = filepath.Clean(a.Config.OutputDir)
	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return err
	}
	var stage, err = os.MkdirTemp(filepath.Dir(dir), "."+filepath.Base(dir)+".tmp")
	if err != nil {
		return err
	}
	defer os.RemoveAll(stage)

	names, err := a.write(stage)
	if err != nil {
		return err
	}

	if _, err = os.Stat(dir); os.IsNotExist(err) {
		if err = os.Rename(stage, dir); err != nil {
			return err
		}
		return os.Chmod(dir, 0755)
	}
	for _, name := range names {
		if err = os.Rename(filepath.Join(stage, name), filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// write creates every enabled output in dir and returns their names
func (a *Analysis) write(dir string) (names []string, err error) {
	var csvPath = filepath.Join(dir, CSVName)
	slog.Info("Saving results to CSV", "path", filepath.Join(a.Config.OutputDir, CSVName))
	if err = a.WriteCSV(csvPath); err != nil {
		return nil, err
	}
	names = append(names, CSVName)

	if a.Config.Plot {
		var (
			rows     = a.Table.Sorted().Displayed(a.Config.Ratio)
			subtitle = fmt.Sprintf("%s: %d reads, ratio %g%%", a.Name, a.Aggregator.ReadsAnalyzed, a.Config.Ratio)
		)
		if err = PlotBarPNG(filepath.Join(dir, PNGName), subtitle, rows, a.Config.Ratio); err != nil {
			return nil, fmt.Errorf("plot png: %w", err)
		}
		if err = PlotBarHTML(filepath.Join(dir, HTMLName), subtitle, rows, a.Config.Ratio); err != nil {
			return nil, fmt.Errorf("plot html: %w", err)
		}
		names = append(names, PNGName, HTMLName)
	}

	if a.Config.Xlsx {
		if err = a.WriteWorkbook(filepath.Join(dir, XlsxName)); err != nil {
			return nil, fmt.Errorf("workbook: %w", err)
		}
		names = append(names, XlsxName)
	}
	return names, nil
}

func (a *Analysis) WriteCSV(path string) error {
	var file, err = os.Create(path)
	if err != nil {
		return err
	}
	if err = a.Table.Sorted().WriteCSV(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// SingleRun runs and saves, the per-sample unit of a Batch
func (a *Analysis) SingleRun() error {
	var t0 = time.Now()
	if err := a.Run(); err != nil {
		return err
	}
	if err := a.Save(); err != nil {
		return err
	}
	slog.Info("Analysis completed", "name", a.Name, "output", a.Config.OutputDir, "time", time.Since(t0))
	return nil
}
