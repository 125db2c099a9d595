package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/didibear/road-on-road/config"
)

type options struct {
	configPath string
	maxTicks   int
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

// EvalRecord is one row of optimize_log.csv.
type EvalRecord struct {
	Eval         int     `csv:"eval"`
	Fitness      float64 `csv:"fitness"`
	Journeys     float64 `csv:"journeys"`
	Quality      float64 `csv:"quality"`
	MoveInterval float64 `csv:"move_interval"`
	Wander       float64 `csv:"wander"`
}

// evalLog appends EvalRecords, writing the header with the first row.
type evalLog struct {
	w    io.Writer
	rows int
}

func (l *evalLog) append(rec EvalRecord) error {
	rows := []EvalRecord{rec}
	var err error
	if l.rows == 0 {
		err = gocsv.Marshal(rows, l.w)
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, l.w)
	}
	if err == nil {
		l.rows++
	}
	return err
}

// formatDuration renders d as 1h02m05s, or 2m05s under an hour.
func formatDuration(d time.Duration) string {
	secs := int64(d.Round(time.Second) / time.Second)
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&opts.maxTicks, "max-ticks", 216000, "Tick cap per game")
	flag.IntVar(&opts.seeds, "seeds", 4, "Games per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 60, "Evaluation budget")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	if opts.outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	base := config.Cfg()

	params := NewParamVector()
	seeds := make([]int64, opts.seeds)
	for i := range seeds {
		seeds[i] = 42 + 1000*int64(i)
	}
	evaluator := NewFitnessEvaluator(params, int32(opts.maxTicks), seeds, base)

	f, err := os.Create(filepath.Join(opts.outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("creating eval log: %w", err)
	}
	defer f.Close()
	evals := &evalLog{w: f}

	pop := opts.population
	if pop == 0 {
		pop = 4 + 3*params.Dim()/2
	}

	best := math.Inf(1)
	var bestX []float64
	started := time.Now()

	objective := func(x []float64) float64 {
		raw := params.Denormalize(x)
		fitness := evaluator.Evaluate(raw)
		clamped := params.Clamp(raw)
		if fitness < best {
			best, bestX = fitness, clamped
		}

		if err := evals.append(EvalRecord{
			Eval:         evals.rows + 1,
			Fitness:      fitness,
			Journeys:     evaluator.LastJourneys(),
			Quality:      evaluator.LastQuality(),
			MoveInterval: clamped[0],
			Wander:       clamped[1],
		}); err != nil {
			log.Printf("eval log: %v", err)
		}

		done := evals.rows
		elapsed := time.Since(started)
		eta := time.Duration(opts.maxEvals-done) * (elapsed / time.Duration(max(done, 1)))
		fmt.Printf("Eval %d/%d: journeys=%.1f quality=%.2f (best=%.1f) | elapsed: %s, ETA: %s\n",
			done, opts.maxEvals, evaluator.LastJourneys(), evaluator.LastQuality(), -best,
			formatDuration(elapsed), formatDuration(eta))
		return fitness
	}

	fmt.Printf("CMA-ES over %d parameters, population=%d, max_evals=%d, %d games of %d ticks each\n",
		params.Dim(), pop, opts.maxEvals, opts.seeds, opts.maxTicks)

	result, err := optimize.Minimize(
		optimize.Problem{Func: objective},
		params.Normalize(params.ExtractFromConfig(base)),
		&optimize.Settings{FuncEvaluations: opts.maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: pop},
	)
	if err != nil {
		log.Printf("optimization stopped: %v", err)
	}
	if bestX == nil && result != nil {
		bestX = params.Clamp(params.Denormalize(result.X))
	}
	if bestX == nil {
		return fmt.Errorf("no evaluation completed")
	}

	fmt.Printf("\nDone: %d evaluations in %s, best fitness %.2f\n",
		evals.rows, formatDuration(time.Since(started)), best)
	for i, s := range params.Specs {
		fmt.Printf("  %s: %.6f\n", s.Path, bestX[i])
	}

	return writeBest(opts, params, bestX)
}

// writeBest saves the base config with the winning parameters applied.
func writeBest(opts options, params *ParamVector, x []float64) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	params.ApplyToConfig(cfg, x)

	path := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Printf("\nBest config saved to: %s\n", path)
	return nil
}
