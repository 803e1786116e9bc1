package main

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/yangl1996/ibf/workload"
)

var testSalt = [workload.SaltSize]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f}

func TestSweepWraps(t *testing.T) {
	d, err := NewDiffPicker("", nil, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	expected := []int{2, 3, 4, 2, 3}
	for i, e := range expected {
		if g := d.generate(); g != e {
			t.Errorf("step %d: got %d, expected %d", i, g, e)
		}
	}
}

func TestParseSolitonDistribution(t *testing.T) {
	d, err := NewDiffPicker(" rs( 20, 0.03, 0.5 ) ", rand.New(rand.NewSource(0)), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.(*solitonPicker); !ok {
		t.Fatal("robust soliton not parsed into a soliton picker")
	}
	for i := 0; i < 100; i++ {
		if g := d.generate(); g < 1 || g > 20 {
			t.Errorf("drew difference size %d outside [1, 20]", g)
		}
	}
}

func TestParseBadDistribution(t *testing.T) {
	bad := []string{"rs(1,2)", "rs(0,0.03,0.5)", "rs(10,0.03,1.5)", "x(3)"}
	for _, s := range bad {
		if _, err := NewDiffPicker(s, rand.New(rand.NewSource(0)), 1, 8); err == nil {
			t.Errorf("%q parsed without error", s)
		}
	}
	if _, err := NewDiffPicker("", nil, 5, 4); err == nil {
		t.Error("empty sweep range accepted")
	}
}

func TestRunTrial(t *testing.T) {
	cfg := ExperimentConfig{KeySize: 32, Common: 50, FixedCells: 2, CellsPerDiff: 4}
	rng := rand.New(rand.NewSource(0))
	gen := workload.NewGenerator(cfg.KeySize, testSalt)
	complete := 0
	for i := 0; i < 20; i++ {
		ok, frac, _, err := runTrial(rng, gen, &cfg, 30)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			complete += 1
			if frac != 1.0 {
				t.Errorf("complete decode recovered fraction %.3f", frac)
			}
		}
	}
	if complete < 15 {
		t.Errorf("only %d of 20 trials completed", complete)
	}
}

func TestConfigFileRoundTrip(t *testing.T) {
	cfg := ExperimentConfig{Seed: 7, KeySize: 16, Common: 3, MinDiff: 1, MaxDiff: 9, FixedCells: 2, CellsPerDiff: 4, Trials: 10, DiffDist: "rs(10,0.03,0.5)"}
	path := filepath.Join(t.TempDir(), "exp.json")
	if err := writeConfigFile(path, &cfg); err != nil {
		t.Fatal(err)
	}
	read, err := readConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if read != cfg {
		t.Errorf("got %+v, expected %+v", read, cfg)
	}
	if cfg.Cells(10) != 42 {
		t.Errorf("got %d cells for 10 differences", cfg.Cells(10))
	}
}

func TestConfigFileRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.json")
	if err := os.WriteFile(path, []byte(`{"Trials": 10, "Trails": 20}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readConfigFile(path); err == nil {
		t.Error("misspelled field accepted")
	}
	if _, err := readConfigFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestConfigCheck(t *testing.T) {
	good := ExperimentConfig{KeySize: 32, MinDiff: 1, MaxDiff: 8, Trials: 1}
	if err := good.Check(); err != nil {
		t.Error(err)
	}
	bad := []ExperimentConfig{
		{KeySize: 32, MinDiff: 1, MaxDiff: 8, Trials: 0},
		{KeySize: 32, MinDiff: 9, MaxDiff: 8, Trials: 1},
		{KeySize: 0, MinDiff: 1, MaxDiff: 8, Trials: 1},
	}
	for _, cfg := range bad {
		if err := cfg.Check(); err == nil {
			t.Errorf("config %+v passed the check", cfg)
		}
	}
}
