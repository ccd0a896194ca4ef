package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/blogindex/internal/config"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	BuildFlags `embed:""`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	cfg, err := LoadConfig(root.Config, g.BuildFlags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunGenerate(ctx, cfg, loggerOf(global), os.Stdout)
}

// RunGenerate performs one generation and prints a one-line summary to out.
func RunGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	res, err := newRunner(cfg, logger).Run(ctx)
	if err != nil {
		return err
	}

	state := "written"
	if !res.Written {
		state = "unchanged"
	}
	_, _ = fmt.Fprintf(out, "%s %s: %d posts in %d categories", res.OutputPath, state, res.Posts, res.Categories)
	if res.Skipped > 0 {
		_, _ = fmt.Fprintf(out, ", %d skipped", res.Skipped)
	}
	_, _ = fmt.Fprintln(out)
	return nil
}
