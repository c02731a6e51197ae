package main

import (
	"errors"

	"github.com/Veraticus/botdetector/internal/cli"
	"github.com/Veraticus/botdetector/internal/common"
	"github.com/Veraticus/botdetector/internal/model"
	"github.com/Veraticus/botdetector/internal/storage"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var (
		limit int
		name  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent lookups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			printer := cli.NewPrinter(cmd.OutOrStdout())

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openHistory(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if name != "" {
				record, err := store.LatestLookup(ctx, name)
				if errors.Is(err, storage.ErrRecordNotFound) {
					printer.Println(cli.FormatInfo("No successful lookups of " + name))
					return nil
				}
				if err != nil {
					return err
				}
				printer.Prediction(model.Prediction{
					PlayerName: record.Name,
					Label:      record.Label,
					Confidence: record.Confidence,
					Breakdown:  record.Breakdown,
				})
				return nil
			}

			if limit <= 0 {
				return common.NewUserError("--limit must be positive", storage.ErrInvalidLimit)
			}
			records, err := store.RecentLookups(ctx, limit)
			if err != nil {
				return err
			}
			printer.History(records)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of lookups to show")
	cmd.Flags().StringVar(&name, "name", "", "show the latest successful lookup of this player")

	return cmd
}
