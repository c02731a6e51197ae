package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/botdetector/internal/common"
)

// Run shows the panel until the user quits or ctx ends. A non-empty
// initialName is looked up as soon as the panel starts.
func Run(ctx context.Context, initialName string, opts ...Option) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cleanupTerminal := func() {
		_, _ = os.Stdout.Write([]byte("\033[?1049l")) // Exit alternate screen
		_, _ = os.Stdout.Write([]byte("\033[?25h"))   // Show cursor
		_, _ = os.Stdout.Write([]byte("\033[m"))      // Reset colors
	}
	defer cleanupTerminal()

	go func() {
		select {
		case <-sigChan:
			cleanupTerminal()
			cancel()
		case <-ctx.Done():
		}
	}()

	p := New(ctx, opts...)
	if initialName != "" {
		go p.Lookup(initialName)
	}

	final, err := p.Run()
	if err != nil {
		return err
	}

	stats := final.Panel().Stats().Snapshot()
	common.LogInfo("Panel closed", common.Fields{"names_uploaded": stats.NamesUploaded})
	return nil
}
