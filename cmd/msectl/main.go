// Command msectl evaluates the clipped MSE loss on tensors stored as JSON.
//
// The input file holds "pred" and "labeled" tensors and, when a penalty is
// configured, a "weights" tensor the penalty is derived from. The delta
// and its reverse are written as JSON to -out or stdout.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fumitoshi0524/ixeoriLoss/internal/config"
	"github.com/fumitoshi0524/ixeoriLoss/internal/parallel"
	"github.com/fumitoshi0524/ixeoriLoss/tensor"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("msectl: %v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("msectl", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	inPath := fs.String("in", "", "JSON tensor file with pred and labeled")
	outPath := fs.String("out", "", "Write delta and reverse tensors here instead of stdout")
	threshold := fs.Float64("threshold", 0, "Override gradient clip threshold")
	deltaOutput := fs.Float64("delta-output", 0, "Override upstream delta")
	axis := fs.String("axis", "", "Comma separated axes to average the loss over")
	penalty := fs.String("penalty", "", "Override penalty: none, l1, l2 or elasticnet")
	workers := fs.Int("workers", 0, "Bound worker goroutines")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("-in is required")
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	axes, err := parseAxes(*axis)
	if err != nil {
		return err
	}
	var over config.Overrides
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "threshold":
			over.GradClipThreshold = threshold
		case "delta-output":
			over.DeltaOutput = deltaOutput
		case "axis":
			over.Axis = &axes
		case "penalty":
			over.Penalty = penalty
		case "workers":
			over.Workers = workers
		}
	})
	cfg.ApplyOverrides(over)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	parallel.SetWorkers(cfg.Workers)
	defer parallel.SetWorkers(0)

	tensors, err := tensor.LoadTensors(*inPath)
	if err != nil {
		return fmt.Errorf("load tensors: %w", err)
	}
	pred, labeled := tensors["pred"], tensors["labeled"]
	if pred == nil || labeled == nil {
		return fmt.Errorf("%s must contain pred and labeled tensors", *inPath)
	}

	mse, err := cfg.Loss()
	if err != nil {
		return err
	}
	reg, err := cfg.Regularizer()
	if err != nil {
		return err
	}
	if reg != nil {
		weights := tensors["weights"]
		if weights == nil {
			return fmt.Errorf("penalty %s needs a weights tensor", reg.Name())
		}
		p, err := reg.Penalty(weights)
		if err != nil {
			return fmt.Errorf("penalty %s: %w", reg.Name(), err)
		}
		mse.SetPenalty(p)
		log.Printf("penalty=%s cost=%.6g", reg.Name(), reg.Cost(weights))
	}

	lossVal, err := mse.ComputeLoss(pred, labeled, cfg.Axis...)
	if err != nil {
		return err
	}
	delta, err := mse.ComputeDelta(pred, labeled, cfg.DeltaOutput)
	if err != nil {
		return err
	}
	reverse, err := mse.ReverseDelta(delta, labeled, cfg.DeltaOutput)
	if err != nil {
		return err
	}
	log.Printf("shape=%v threshold=%g loss=%v delta_norm=%.6g", pred.Shape(), mse.GradClipThreshold(), lossVal.Data(), tensor.Norm(delta))

	result := map[string]*tensor.Tensor{
		"loss":    lossVal,
		"delta":   delta,
		"reverse": reverse,
	}
	if *outPath != "" {
		return tensor.SaveTensors(*outPath, result)
	}
	return tensor.EncodeTensors(stdout, result)
}

func parseAxes(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	axes := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("axis %q: %w", p, err)
		}
		axes = append(axes, v)
	}
	return axes, nil
}
