package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/sitemapper/internal/eventstore"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int  `short:"n" help:"Number of builds to list" default:"20"`
	JSON  bool `help:"Print JSON instead of a table"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	out := g.out()
	path := cfg.Resolve(cfg.History.Path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		_, err = fmt.Fprintln(out, "No build history")
		return err
	}

	store, err := eventstore.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := signalContext()
	defer cancel()

	summaries, err := eventstore.History(ctx, store, h.Limit)
	if err != nil {
		return err
	}

	if h.JSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summaries)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSTATUS\tTRIGGER\tSTARTED\tDURATION\tPAGES\tDETAIL")
	for _, s := range summaries {
		detail := s.Fingerprint
		if s.ErrorMessage != "" {
			detail = s.ErrorStage + ": " + s.ErrorMessage
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			shortID(s.BuildID), s.Status, s.Trigger,
			s.StartedAt.Local().Format(time.DateTime), s.Duration.Round(time.Millisecond), s.Pages, detail)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
