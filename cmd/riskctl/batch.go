package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"creditrisk/internal/batch"
	"creditrisk/internal/batch/csvtable"
	"creditrisk/internal/decision"
	"creditrisk/internal/predictor"
	"creditrisk/pkg/platform/tracer"
	"creditrisk/pkg/platform/validation"
)

const stdio = "-"

const (
	inFlag        = "in"
	outFlag       = "out"
	modelFlag     = "model"
	workersFlag   = "workers"
	thresholdFlag = "threshold"
	maxRowsFlag   = "max-rows"
)

func newBatchCmd() *cli.Command {
	return &cli.Command{
		Name:   "batch",
		Usage:  "Append defaultProbability and riskLabel to every row of a CSV file",
		Action: runBatch,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     inFlag,
				Usage:    "Applicant CSV file with a header row, - for stdin",
				Required: true,
			},
			&cli.StringFlag{
				Name:  outFlag,
				Usage: "Where to write the scored CSV, - for stdout",
				Value: stdio,
			},
			&cli.StringFlag{
				Name:  modelFlag,
				Usage: "Logistic model artifact (YAML or JSON); omit to use the score heuristic",
			},
			&cli.IntFlag{
				Name:  workersFlag,
				Usage: "Rows scored concurrently",
				Value: batch.DefaultWorkers,
			},
			&cli.FloatFlag{
				Name:  thresholdFlag,
				Usage: "Default probability above which a row is High Risk",
				Value: decision.DefaultRiskThreshold,
			},
			&cli.IntFlag{
				Name:  maxRowsFlag,
				Usage: "Maximum data rows accepted",
				Value: validation.DefaultMaxBatchRows,
			},
		},
	}
}

func runBatch(ctx context.Context, cmd *cli.Command) error {
	log := newLogger(cmd)

	policy, err := decision.NewPolicy(cmd.Float(thresholdFlag))
	if err != nil {
		return err
	}
	p, err := loadPredictor(cmd.String(modelFlag))
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(cmd.String(inFlag), cmd.Root().Reader)
	if err != nil {
		return err
	}
	defer closeIn()

	t, err := csvtable.Decode(in, int(cmd.Int(maxRowsFlag)))
	if err != nil {
		return fmt.Errorf("read %s: %w", cmd.String(inFlag), err)
	}

	scorer := batch.NewScorer(
		batch.WithWorkers(int(cmd.Int(workersFlag))),
		batch.WithPolicy(policy),
		batch.WithTracer(tracer.NewNoop()),
		batch.WithLogger(log),
	)
	res, err := scorer.Score(ctx, t, predictor.AsProbabilityFunc(p))
	if err != nil {
		return err
	}

	if err := writeOutput(cmd.String(outFlag), cmd.Root().Writer, res.Table); err != nil {
		return err
	}
	log.InfoContext(ctx, "batch written",
		"predictor", p.Name(),
		"rows", res.Table.Len(),
		"high_risk", res.HighRisk,
	)
	return nil
}

func loadPredictor(path string) (predictor.Predictor, error) {
	if path == "" {
		return predictor.NewHeuristic(nil), nil
	}
	return predictor.LoadLogistic(path)
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == stdio {
		if stdin == nil {
			stdin = os.Stdin
		}
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func writeOutput(path string, stdout io.Writer, t batch.Table) error {
	if path == stdio {
		return csvtable.Encode(stdout, t)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := csvtable.Encode(f, t); err != nil {
		_ = f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}
