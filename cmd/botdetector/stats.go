package main

import (
	"github.com/Veraticus/botdetector/internal/cli"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [name]",
		Short: "Show reporting statistics for a player",
		Long:  `Show how many reports a player has made and how many led to bans. Defaults to the configured player.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			name, err := resolvePlayer(cfg, args)
			if err != nil {
				return err
			}
			client, err := newDetectorClient(cfg)
			if err != nil {
				return err
			}

			ps, err := client.FetchStats(cmd.Context(), name)
			if err != nil {
				return err
			}

			cli.NewPrinter(cmd.OutOrStdout()).Stats(name.String(), ps)
			return nil
		},
	}
}
