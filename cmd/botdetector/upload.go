package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Veraticus/botdetector/internal/cli"
	"github.com/Veraticus/botdetector/internal/common"
	"github.com/Veraticus/botdetector/internal/upload"
	"github.com/spf13/cobra"
)

func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Send sighted player names to the detector",
		Long: `Send player names, one per line, to the detector in batches.
Use "-" to read names from standard input. Blank lines and lines starting
with # are ignored; invalid names are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := cli.NewPrinter(cmd.OutOrStdout())

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Reporting.Anonymous && cfg.Player.Name == "" {
				return common.NewUserError("Set player.name or enable anonymous reporting to upload", common.ErrNoIdentity)
			}

			names, err := readNamesFrom(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			queue := upload.NewQueue()
			queued := queue.Add(names...)
			if skipped := len(names) - queued; skipped > 0 {
				printer.Println(cli.FormatWarning(fmt.Sprintf("Skipped %d invalid or duplicate names", skipped)))
			}
			if queued == 0 {
				printer.Println(cli.FormatInfo("Nothing to upload"))
				return nil
			}

			client, err := newDetectorClient(cfg)
			if err != nil {
				return err
			}

			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx := interrupts.HandleInterrupts(cmd.Context(), true)

			bar := printer.NewUploadProgress(queued)
			reporter := upload.Reporter(cfg.Reporting.Anonymous, cfg.Player.Name)
			sent, err := upload.Flush(ctx, client, queue, reporter, cfg.Upload.BatchSize, cfg.Detector.Timeout, func(n int) {
				_ = bar.Add(n)
			})
			if err != nil {
				if interrupts.WasInterrupted() {
					return nil
				}
				return common.NewUserError(fmt.Sprintf("Uploaded %d of %d names before failing", sent, queued), err)
			}

			printer.Println(cli.FormatSuccess(fmt.Sprintf("Uploaded %d names", sent)))
			return nil
		},
	}
}

// readNamesFrom reads names from path, or from stdin when path is "-".
func readNamesFrom(stdin io.Reader, path string) ([]string, error) {
	if path == "-" {
		return upload.ReadNames(stdin)
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open names file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return upload.ReadNames(f)
}
