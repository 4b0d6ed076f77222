package main

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"
)

// LogMemStats writes heap counters to path every interval, for -debug runs
func LogMemStats(path string, interval time.Duration) {
	var logFile = osUtil.Create(path)
	defer simpleUtil.DeferClose(logFile)

	var (
		logger = slog.New(slog.NewTextHandler(logFile, nil))
		ticker = time.NewTicker(interval)
		m      runtime.MemStats
	)
	defer ticker.Stop()
	for range ticker.C {
		runtime.ReadMemStats(&m)
		logger.Info(
			"memStats",
			"Alloc", m.Alloc,
			"TotalAlloc", m.TotalAlloc,
			"Sys", m.Sys,
			"HeapAlloc", m.HeapAlloc,
			"HeapInuse", m.HeapInuse,
			"HeapObjects", m.HeapObjects,
			"NumGC", m.NumGC,
			"Goroutines", runtime.NumGoroutine(),
		)
	}
}
