package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
)

var readConfig = flag.String("c", "", "read config from `file`; the config will be overwritten by parameters passed through command line")
var dumpConfig = flag.String("dump", "", "write the effective config to `file`")
var seed = flag.Int64("seed", 0, "seed to use for the RNG, 0 to seed with time")
var keySize = flag.Int("k", 32, "element size in bytes")
var commonElements = flag.Int("b", 5, "number of elements common to both sides")
var minDiff = flag.Int("dmin", 1, "smallest number of differing elements")
var maxDiff = flag.Int("dmax", 8, "largest number of differing elements")
var fixedCells = flag.Int("a", 2, "fixed part of the cell count")
var cellsPerDiff = flag.Float64("r", 4, "cells allocated per differing element")
var trials = flag.Int("trials", 100, "number of trials per difference size")
var diffDist = flag.String("dist", "", "draw difference sizes instead of sweeping: rs(k,c,delta) for robust soliton with parameters k, c, and delta; empty to sweep dmin..dmax")

// ExperimentConfig holds everything a sweep depends on.
type ExperimentConfig struct {
	Seed         int64
	KeySize      int
	Common       int
	MinDiff      int
	MaxDiff      int
	FixedCells   int
	CellsPerDiff float64
	Trials       int
	DiffDist     string
}

// Check rejects configs no sweep can run with.
func (c *ExperimentConfig) Check() error {
	if c.Trials < 1 {
		return fmt.Errorf("need at least one trial, got %d", c.Trials)
	}
	if c.MinDiff < 0 || c.MaxDiff < c.MinDiff {
		return fmt.Errorf("invalid difference range %d..%d", c.MinDiff, c.MaxDiff)
	}
	if c.KeySize < 1 {
		return fmt.Errorf("invalid key size %d", c.KeySize)
	}
	return nil
}

// Cells returns the cell count used for diff differing elements.
func (c *ExperimentConfig) Cells(diff int) int {
	return c.FixedCells + int(c.CellsPerDiff*float64(diff))
}

func updateConfig(cfg *ExperimentConfig, f *flag.Flag) {
	switch f.Name {
	case "seed":
		cfg.Seed = *seed
	case "k":
		cfg.KeySize = *keySize
	case "b":
		cfg.Common = *commonElements
	case "dmin":
		cfg.MinDiff = *minDiff
	case "dmax":
		cfg.MaxDiff = *maxDiff
	case "a":
		cfg.FixedCells = *fixedCells
	case "r":
		cfg.CellsPerDiff = *cellsPerDiff
	case "trials":
		cfg.Trials = *trials
	case "dist":
		cfg.DiffDist = *diffDist
	}
}

func getConfig() (ExperimentConfig, error) {
	var err error
	var cfg ExperimentConfig
	// first see if we need to read from config file
	if *readConfig != "" {
		cfg, err = readConfigFile(*readConfig)
		if err != nil {
			return cfg, err
		}
		flag.Visit(func(f *flag.Flag) {
			updateConfig(&cfg, f)
		})
	} else {
		cfg = ExperimentConfig{
			Seed:         *seed,
			KeySize:      *keySize,
			Common:       *commonElements,
			MinDiff:      *minDiff,
			MaxDiff:      *maxDiff,
			FixedCells:   *fixedCells,
			CellsPerDiff: *cellsPerDiff,
			Trials:       *trials,
			DiffDist:     *diffDist,
		}
	}
	return cfg, cfg.Check()
}

// readConfigFile parses a config written by writeConfigFile. Unknown fields
// are rejected so that a misspelled parameter does not silently keep its zero
// value.
func readConfigFile(path string) (ExperimentConfig, error) {
	cf := ExperimentConfig{}
	fc, err := os.ReadFile(path)
	if err != nil {
		return cf, err
	}
	dec := json.NewDecoder(bytes.NewReader(fc))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cf); err != nil {
		return cf, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cf, nil
}

func writeConfigFile(path string, cf *ExperimentConfig) error {
	b, err := json.MarshalIndent(cf, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
