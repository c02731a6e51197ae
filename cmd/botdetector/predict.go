package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/botdetector/internal/cli"
	"github.com/Veraticus/botdetector/internal/common"
	"github.com/Veraticus/botdetector/internal/detector"
	"github.com/Veraticus/botdetector/internal/model"
	"github.com/Veraticus/botdetector/internal/rsn"
	"github.com/Veraticus/botdetector/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errAllLookupsFailed = errors.New("all lookups failed")

type lookupResult struct {
	at         time.Time
	err        error
	name       rsn.Name
	prediction model.Prediction
}

func predictCmd() *cobra.Command {
	var (
		concurrency int
		noHistory   bool
	)

	cmd := &cobra.Command{
		Use:   "predict <name>...",
		Short: "Look up how likely players are to be bots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			printer := cli.NewPrinter(cmd.OutOrStdout())

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newDetectorClient(cfg)
			if err != nil {
				return err
			}

			var names []rsn.Name
			for _, raw := range args {
				name, vErr := rsn.Validate(raw)
				if vErr != nil {
					printer.LookupFailed(raw, vErr)
					continue
				}
				names = append(names, name)
			}
			if len(names) == 0 {
				return errAllLookupsFailed
			}

			var history tui.HistoryRecorder
			if !noHistory {
				store, hErr := openHistory(ctx, cfg)
				if hErr != nil {
					slog.Warn("Lookup history unavailable", "error", hErr)
				} else {
					defer func() { _ = store.Close() }()
					history = store
				}
			}

			results := lookupAll(ctx, client, names, concurrency)

			failed := 0
			for _, r := range results {
				if r.err != nil {
					failed++
					printer.LookupFailed(r.name.String(), r.err)
				} else {
					printer.Prediction(r.prediction)
				}
				if history != nil {
					if _, recErr := history.RecordLookup(ctx, r.record()); recErr != nil {
						common.LogError(recErr, "Failed to record lookup", common.Fields{"name": r.name.String()})
					}
				}
			}

			if failed == len(results) {
				return errAllLookupsFailed
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "maximum concurrent lookups")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record lookups")

	return cmd
}

// lookupAll predicts every name with at most limit requests in flight.
// Results keep the order of names.
func lookupAll(ctx context.Context, p detector.Predictor, names []rsn.Name, limit int) []lookupResult {
	if limit <= 0 {
		limit = 1
	}

	results := make([]lookupResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			prediction, err := p.Predict(gctx, name)
			results[i] = lookupResult{
				name:       name,
				prediction: prediction,
				err:        err,
				at:         time.Now(),
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r lookupResult) record() *model.LookupRecord {
	rec := &model.LookupRecord{
		Name:       r.name.String(),
		LookedUpAt: r.at,
	}
	if r.err != nil {
		rec.Error = fmt.Sprint(r.err)
		return rec
	}
	rec.Label = r.prediction.Label
	rec.Confidence = r.prediction.Confidence
	rec.Breakdown = r.prediction.Breakdown
	return rec
}
