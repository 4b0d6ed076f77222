package main

import (
	"embed"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"

	"FreqMotif/pkg/freqMotif"
)

// os
var (
	ex, _  = os.Executable()
	exPath = filepath.Dir(ex)
)

// flag
var (
	workDir = flag.String(
		"w",
		"",
		"current working directory, relative fq paths are joined to it",
	)
	input = flag.String(
		"i",
		"input.xlsx",
		"input info, .xlsx with id and fq columns or id<TAB>fq per line",
	)
	outputDir = flag.String(
		"o",
		"",
		"output directory, default is sub directory of CWD: [BaseName]+.freqMotif",
	)
	thread = flag.Int(
		"t",
		0,
		"thread used, default min(len(input), GOMAXPROCS)",
	)
	maxReads = flag.Int(
		"m",
		freqMotif.DefaultMaxReads,
		"max reads to analyze per sample after skip",
	)
	ratio = flag.Float64(
		"r",
		freqMotif.DefaultRatio,
		"per read threshold in percent",
	)
	skip = flag.Int(
		"S",
		freqMotif.DefaultSkip,
		"reads to skip from the start of each sample",
	)
	lowComplexity = flag.String(
		"lc",
		freqMotif.ScorerRunLength,
		"low complexity scorer: run or wf",
	)
	plot = flag.Bool(
		"plot",
		true,
		"plot per sample barplot",
	)
	xlsx = flag.Bool(
		"xlsx",
		true,
		"write per sample freq-motif.xlsx",
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
	memProfile = flag.String(
		"mem",
		"",
		"mem profile",
	)
)

// embed etc
//
//go:embed etc/*.txt
var etcEMFS embed.FS

func main() {
	flag.Parse()
	if *debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		go LogMemStats("log.MemStats.txt", time.Second)
	}
	if *cpuProfile != "" {
		var LogCPUProfile = osUtil.Create(*cpuProfile)
		defer simpleUtil.DeferClose(LogCPUProfile)
		simpleUtil.CheckErr(pprof.StartCPUProfile(LogCPUProfile))
		defer pprof.StopCPUProfile()
	}

	if *outputDir == "" {
		*outputDir = filepath.Base(simpleUtil.HandleError(os.Getwd())) + ".freqMotif"
	}

	var cfg = freqMotif.DefaultConfig()
	cfg.MaxReads = *maxReads
	cfg.Ratio = *ratio
	cfg.Skip = *skip
	cfg.LowComplexity = *lowComplexity
	cfg.Plot = *plot
	cfg.Xlsx = *xlsx

	var batch = freqMotif.NewBatch(*outputDir, *thread, cfg)
	if err := batch.BatchRun(*input, *workDir, exPath, etcEMFS); err != nil {
		slog.Error("freqMotifBatch", "err", err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}

	if *memProfile != "" {
		var LogMemProfile = osUtil.Create(*memProfile)
		defer simpleUtil.DeferClose(LogMemProfile)
		simpleUtil.CheckErr(pprof.WriteHeapProfile(LogMemProfile))
	}
}
