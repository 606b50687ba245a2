// Package report turns two benchmark result tables into a side-by-side
// comparison figure.
package report

import (
	"fmt"
	"log/slog"

	"github.com/weiihann/vecbench/results"
)

// Series is one plotted sequence of (X[i], Y[i]) points.
type Series struct {
	Name  string
	X     []results.Value
	Y     []results.Value
	Style SeriesStyle
}

// Builder composes a multi-panel figure and persists it.
type Builder interface {
	// AddPanel appends a panel and returns its index.
	AddPanel(title string) int
	// AddSeries draws s in the given panel.
	AddSeries(panel int, s Series) error
	// SetSharedAxisTitles labels the axes once for the whole figure.
	SetSharedAxisTitles(x, y string)
	// SerializeToFile writes the complete figure to path. Either the
	// whole document is written or nothing is.
	SerializeToFile(path string) error
}

// Renderer draws the comparison figure for a Config.
type Renderer struct {
	cfg     Config
	builder Builder
	opener  Opener
	logger  *slog.Logger
}

// NewRenderer creates a Renderer. A nil opener disables opening the
// report after it is written.
func NewRenderer(cfg Config, builder Builder, opener Opener, logger *slog.Logger) *Renderer {
	if opener == nil {
		opener = NopOpener{}
	}

	return &Renderer{
		cfg:     cfg,
		builder: builder,
		opener:  opener,
		logger:  logger,
	}
}

// Render builds one panel per table, primary first, writes the figure to
// the configured output path and asks the opener to show it. A failure to
// open the report is logged and otherwise ignored.
func (r *Renderer) Render(primary, secondary *results.Table) error {
	panels := []struct {
		src   Source
		table *results.Table
	}{
		{r.cfg.Primary, primary},
		{r.cfg.Secondary, secondary},
	}

	for _, p := range panels {
		if err := r.addPanel(p.src, p.table); err != nil {
			return err
		}
	}

	r.builder.SetSharedAxisTitles(r.cfg.XAxisTitle, r.cfg.YAxisTitle)

	if err := r.builder.SerializeToFile(r.cfg.OutputPath); err != nil {
		return fmt.Errorf("write report %s: %w", r.cfg.OutputPath, err)
	}

	r.logger.Info("report written", slog.String("path", r.cfg.OutputPath))

	if err := r.opener.Open(r.cfg.OutputPath); err != nil {
		r.logger.Warn("failed to open report",
			slog.String("path", r.cfg.OutputPath),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

func (r *Renderer) addPanel(src Source, table *results.Table) error {
	if table == nil {
		return fmt.Errorf("no results for %s", src.Title)
	}

	xs, ok := table.Column(results.ColumnEntries)
	if !ok {
		return fmt.Errorf("%w: %s: missing column %q",
			results.ErrSchema, table.Path, results.ColumnEntries)
	}

	panel := r.builder.AddPanel(src.Title)

	for _, spec := range r.cfg.Series {
		ys, ok := table.Column(spec.Column)
		if !ok {
			return fmt.Errorf("%w: %s: missing column %q",
				results.ErrSchema, table.Path, spec.Column)
		}

		err := r.builder.AddSeries(panel, Series{
			Name:  spec.Name,
			X:     xs,
			Y:     ys,
			Style: spec.Style,
		})
		if err != nil {
			return fmt.Errorf("add series %q to %s: %w", spec.Name, src.Title, err)
		}
	}

	return nil
}
