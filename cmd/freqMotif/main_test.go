package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"FreqMotif/pkg/freqMotif"
)

func TestRunMissingInput(t *testing.T) {
	var cfg = freqMotif.DefaultConfig()
	cfg.Input = filepath.Join(t.TempDir(), "none.fq")
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")

	var err = run(cfg)
	var openErr *freqMotif.SourceOpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected *SourceOpenError, got %v", err)
	}
	if _, err = os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Error("output directory created for a failed run")
	}
}

func TestRunDefaults(t *testing.T) {
	var dir = t.TempDir()
	var input = filepath.Join(dir, "reads.fq")
	if err := os.WriteFile(input, []byte("@r1\nAAAATT\n+\nIIIIII\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var cfg = newConfig()
	cfg.Input = input
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.Skip = 0
	cfg.Plot = false

	if err := run(cfg); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{freqMotif.CSVName, freqMotif.XlsxName} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, name)); err != nil {
			t.Errorf("missing %s", name)
		}
	}
	if cfg.MaxReads != freqMotif.DefaultMaxReads || cfg.Ratio != freqMotif.DefaultRatio {
		t.Errorf("flag defaults not applied: %+v", cfg)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	var cfg = freqMotif.DefaultConfig()
	cfg.Input = "reads.fq"
	cfg.OutputDir = t.TempDir()
	cfg.LowComplexity = "dust"
	if err := run(cfg); err == nil {
		t.Error("expected an error for an unknown scorer")
	}
}
