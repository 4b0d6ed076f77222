package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"runtime/pprof"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"

	"FreqMotif/pkg/freqMotif"
)

// flag
var (
	input = flag.String(
		"i",
		"",
		"input fastq, plain or gzip",
	)
	outputDir = flag.String(
		"o",
		"",
		"output directory, default is freq_motif_[uuid] under CWD",
	)
	maxReads = flag.Int(
		"m",
		freqMotif.DefaultMaxReads,
		"max reads to analyze after skip",
	)
	ratio = flag.Float64(
		"r",
		freqMotif.DefaultRatio,
		"per read threshold in percent, also the plot display cut",
	)
	skip = flag.Int(
		"S",
		freqMotif.DefaultSkip,
		"reads to skip from the start",
	)
	lowComplexity = flag.String(
		"lc",
		freqMotif.ScorerRunLength,
		"low complexity scorer: run (longest homopolymer) or wf (Wootton-Federhen)",
	)
	progress = flag.Bool(
		"progress",
		false,
		"show progress bar",
	)
	plot = flag.Bool(
		"plot",
		true,
		"plot barplot png and html",
	)
	xlsx = flag.Bool(
		"xlsx",
		true,
		"write freq-motif.xlsx",
	)
	debug = flag.Bool(
		"debug",
		false,
		"debug log",
	)
	cpuProfile = flag.String(
		"cpu",
		"",
		"cpu profile",
	)
)

func main() {
	flag.Parse()
	if *input == "" {
		flag.PrintDefaults()
		slog.Error("-i required!")
		os.Exit(1)
	}
	if *debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	if *cpuProfile != "" {
		var LogCPUProfile = osUtil.Create(*cpuProfile)
		defer simpleUtil.DeferClose(LogCPUProfile)
		simpleUtil.CheckErr(pprof.StartCPUProfile(LogCPUProfile))
		defer pprof.StopCPUProfile()
	}

	if err := run(newConfig()); err != nil {
		slog.Error("freqMotif", "err", err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func newConfig() freqMotif.Config {
	var cfg = freqMotif.DefaultConfig()
	cfg.Input = *input
	cfg.OutputDir = *outputDir
	cfg.MaxReads = *maxReads
	cfg.Ratio = *ratio
	cfg.Skip = *skip
	cfg.LowComplexity = *lowComplexity
	cfg.Plot = *plot
	cfg.Xlsx = *xlsx
	return cfg
}

func run(cfg freqMotif.Config) error {
	var now = time.Now()
	if cfg.OutputDir == "" {
		var dir, err = freqMotif.DefaultOutputDir()
		if err != nil {
			return err
		}
		cfg.OutputDir = dir
	}

	var analysis, err = freqMotif.NewAnalysis("", cfg)
	if err != nil {
		return err
	}
	if *progress {
		var bar = pb.Full.Start(cfg.MaxReads)
		defer bar.Finish()
		analysis.OnAnalyzed = func(analyzed int) {
			bar.SetCurrent(int64(analyzed))
		}
	}

	if err = analysis.Run(); err != nil {
		var openErr *freqMotif.SourceOpenError
		if errors.As(err, &openErr) {
			slog.Error("Failed to read the input file", "path", openErr.Path, "op", openErr.Op)
		}
		return err
	}
	if err = analysis.Save(); err != nil {
		return err
	}
	slog.Info("Done", "output", cfg.OutputDir, "time", time.Since(now))
	return nil
}
