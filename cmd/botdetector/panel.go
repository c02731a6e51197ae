package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/botdetector/internal/common"
	"github.com/Veraticus/botdetector/internal/detector"
	"github.com/Veraticus/botdetector/internal/tui"
	"github.com/Veraticus/botdetector/internal/tui/themes"
	"github.com/Veraticus/botdetector/internal/upload"
	"github.com/spf13/cobra"
)

func panelCmd() *cobra.Command {
	var (
		queueFile string
		record    string
		demo      bool
	)

	cmd := &cobra.Command{
		Use:   "panel [name]",
		Short: "Open the interactive prediction panel",
		Long: `Open the interactive prediction panel. Type a player name and press
Enter to see how likely they are to be a bot. Names listed in --queue are sent
to the detector in the background.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Log to a file so output does not tear the screen.
			logFile, err := common.OpenLogFile(cfg.Logging.File)
			if err != nil {
				return err
			}
			defer func() { _ = logFile.Close() }()
			level, _ := common.ParseLevel(cfg.Logging.Level)
			if err := common.SetupLogger(logFile, level, cfg.Logging.Format); err != nil {
				return err
			}

			opts := []tui.Option{
				tui.WithPresentation(themes.NewPresentation(cfg.Panel.FontType, cfg.Panel.Palette)),
				tui.WithPlayer(cfg.Player.Name, cfg.Reporting.Anonymous),
				tui.WithTimings(cfg.Detector.Timeout, cfg.Panel.StatsRefresh, cfg.Upload.AutoSendInterval()),
				tui.WithUploads(cfg.Upload.BatchSize, cfg.Upload.OnlyAtLogout),
				tui.WithStatusNotices(cfg.Reporting.ChatStatusMessages),
			}

			if demo {
				opts = append(opts, tui.WithClient(detector.NewMockClient()))
			} else {
				client, clientErr := newDetectorClient(cfg)
				if clientErr != nil {
					return clientErr
				}
				opts = append(opts, tui.WithClient(client))
			}

			store, err := openHistory(ctx, cfg)
			if err != nil {
				slog.Warn("Lookup history unavailable", "error", err)
			} else {
				defer func() { _ = store.Close() }()
				opts = append(opts, tui.WithHistory(store))
			}

			if queueFile != "" {
				names, readErr := readNamesFrom(cmd.InOrStdin(), queueFile)
				if readErr != nil {
					return readErr
				}
				queue := upload.NewQueue()
				slog.Info("Queued names for upload", "count", queue.Add(names...), "file", queueFile)
				opts = append(opts, tui.WithQueue(queue))
			}

			if record != "" {
				recorder, recErr := tui.NewRecorder(true, record)
				if recErr != nil {
					return recErr
				}
				defer recorder.Close()
				opts = append(opts, tui.WithRecorder(recorder))
			}

			initial := ""
			if len(args) > 0 {
				initial = args[0]
			}
			if err := tui.Run(ctx, initial, opts...); err != nil {
				return fmt.Errorf("panel exited: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&queueFile, "queue", "", "file of sighted names to upload while the panel runs")
	cmd.Flags().StringVar(&record, "record", "", "directory to record rendered frames into for debugging")
	cmd.Flags().BoolVar(&demo, "demo", false, "use synthetic predictions instead of the detector")

	return cmd
}
