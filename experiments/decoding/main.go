package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/DataDog/sketches-go/ddsketch"
	"github.com/aclements/go-moremath/stats"
	"github.com/yangl1996/ibf/ibf"
	"github.com/yangl1996/ibf/workload"
)

// bucket collects the outcomes of every trial with the same difference size.
type bucket struct {
	diff      int
	trials    int
	complete  int
	recovered stats.Sample
	latency   *ddsketch.DDSketch
}

func newBucket(diff int) *bucket {
	sketch, err := ddsketch.NewDefaultDDSketch(0.01)
	if err != nil {
		panic(err)
	}
	return &bucket{diff: diff, latency: sketch}
}

// runTrial reconciles one freshly drawn pair of sets and returns whether the
// decode completed, the fraction of the difference it recovered, and the time
// spent subtracting and decoding.
func runTrial(rng *rand.Rand, gen *workload.Generator, cfg *ExperimentConfig, diff int) (bool, float64, time.Duration, error) {
	s, err := workload.NewScenario(rng, gen, cfg.Common, diff, nil)
	if err != nil {
		return false, 0, 0, err
	}
	cells := cfg.Cells(diff)
	local := ibf.New(cells, cfg.KeySize)
	remote := ibf.New(cells, cfg.KeySize)
	for _, e := range s.Local() {
		if err := local.Insert(e); err != nil {
			return false, 0, 0, err
		}
	}
	for _, e := range s.Remote() {
		if err := remote.Insert(e); err != nil {
			return false, 0, 0, err
		}
	}

	start := time.Now()
	if err := local.Subtract(remote); err != nil {
		return false, 0, 0, err
	}
	res := local.Decode()
	dur := time.Since(start)

	// count only elements attributed to the right side
	localOnly := workload.NewSet(s.LocalOnly)
	remoteOnly := workload.NewSet(s.RemoteOnly)
	correct := 0
	for _, e := range res.Local {
		if localOnly.Contains(e) {
			correct += 1
		}
	}
	for _, e := range res.Remote {
		if remoteOnly.Contains(e) {
			correct += 1
		}
	}
	frac := 1.0
	if diff > 0 {
		frac = float64(correct) / float64(diff)
	}
	return res.Complete, frac, dur, nil
}

func main() {
	flag.Parse()
	cfg, err := getConfig()
	if err != nil {
		log.Fatalln("failed to load config:", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if *dumpConfig != "" {
		if err := writeConfigFile(*dumpConfig, &cfg); err != nil {
			log.Fatalln("failed to write config:", err)
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	var salt [workload.SaltSize]byte
	rng.Read(salt[:])
	gen := workload.NewGenerator(cfg.KeySize, salt)

	picker, err := NewDiffPicker(cfg.DiffDist, rng, cfg.MinDiff, cfg.MaxDiff)
	if err != nil {
		log.Fatalln("failed to parse difference distribution:", err)
	}
	ntrials := cfg.Trials
	if cfg.DiffDist == "" {
		// every sweep point gets cfg.Trials trials
		ntrials *= cfg.MaxDiff - cfg.MinDiff + 1
	}

	buckets := make(map[int]*bucket)
	for i := 0; i < ntrials; i++ {
		diff := picker.generate()
		b, there := buckets[diff]
		if !there {
			b = newBucket(diff)
			buckets[diff] = b
		}
		complete, frac, dur, err := runTrial(rng, gen, &cfg, diff)
		if err != nil {
			log.Fatalln("trial failed:", err)
		}
		b.trials += 1
		if complete {
			b.complete += 1
		}
		b.recovered.Xs = append(b.recovered.Xs, frac)
		b.latency.Add(float64(dur.Microseconds()))
	}

	diffs := []int{}
	for d := range buckets {
		diffs = append(diffs, d)
	}
	sort.Ints(diffs)

	fmt.Printf("# seed %d keysize %d common %d\n", cfg.Seed, cfg.KeySize, cfg.Common)
	fmt.Println("# diff, cells, trials, complete fraction, recovered mean, recovered stddev, recovered p05, decode us p50, decode us p95")
	for _, d := range diffs {
		b := buckets[d]
		sort.Float64s(b.recovered.Xs)
		b.recovered.Sorted = true
		qts, err := b.latency.GetValuesAtQuantiles([]float64{0.50, 0.95})
		if err != nil {
			qts = []float64{-1, -1}
		}
		fmt.Printf("%d, %d, %d, %.4f, %.4f, %.4f, %.4f, %.1f, %.1f\n", d, cfg.Cells(d), b.trials,
			float64(b.complete)/float64(b.trials), b.recovered.Mean(), b.recovered.StdDev(), b.recovered.Quantile(0.05),
			qts[0], qts[1])
	}
}
