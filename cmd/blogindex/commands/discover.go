package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"git.home.luguber.info/inful/blogindex/internal/aggregate"
	"git.home.luguber.info/inful/blogindex/internal/config"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	BuildFlags `embed:""`
	Format     string `short:"f" help:"Output format" enum:"text,json" default:"text"`
}

func (d *DiscoverCmd) Run(global *Global, root *CLI) error {
	cfg, err := LoadConfig(root.Config, d.BuildFlags)
	if err != nil {
		return err
	}
	return RunDiscover(context.Background(), cfg, d.Format, loggerOf(global), os.Stdout)
}

// RunDiscover resolves every post and prints them grouped by category.
func RunDiscover(ctx context.Context, cfg *config.Config, format string, logger *slog.Logger, out io.Writer) error {
	doc, err := aggregate.New(cfg, aggregate.Deps{Logger: logger}).Collect(ctx)
	if err != nil {
		return err
	}

	if format == "json" {
		posts := doc.Posts
		if posts == nil {
			posts = []aggregate.ResolvedPost{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(posts)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, cat := range doc.Categories() {
		_, _ = fmt.Fprintf(tw, "%s (%d)\n", cat.Name, len(cat.Posts))
		for _, p := range cat.Posts {
			_, _ = fmt.Fprintf(tw, "  %s\t%s\t%d min\t/%s/\n", p.Date, p.Title, p.ReadtimeMinutes, p.LinkPath)
		}
	}
	for _, skipped := range doc.Skipped {
		_, _ = fmt.Fprintf(tw, "skipped: %s (%s)\n", skipped.File(), skipped.Stage())
	}
	return tw.Flush()
}
