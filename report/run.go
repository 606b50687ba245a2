package report

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/weiihann/vecbench/results"
)

// Run loads both result files and renders the comparison. Both tables are
// loaded before the builder is touched, so a load failure leaves no
// output behind.
func Run(
	ctx context.Context,
	logger *slog.Logger,
	cfg Config,
	builder Builder,
	opener Opener,
) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Step 1: Load both result tables.
	primary, err := load(ctx, logger, cfg.Primary)
	if err != nil {
		return err
	}

	secondary, err := load(ctx, logger, cfg.Secondary)
	if err != nil {
		return err
	}

	if !sameEntries(primary, secondary) {
		logger.WarnContext(ctx, "entry columns differ between sources",
			slog.String("primary", cfg.Primary.Path),
			slog.String("secondary", cfg.Secondary.Path),
		)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// Step 2: Render and open the report.
	logger.InfoContext(ctx, "rendering report",
		slog.String("output", cfg.OutputPath),
	)

	return NewRenderer(cfg, builder, opener, logger).Render(primary, secondary)
}

func load(ctx context.Context, logger *slog.Logger, src Source) (*results.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := results.Load(src.Path)
	if err != nil {
		return nil, fmt.Errorf("load %s results: %w", src.Title, err)
	}

	logger.With(slog.String("source", src.Title)).InfoContext(ctx, "results loaded",
		slog.String("path", src.Path),
		slog.Int("rows", table.Len()),
	)

	return table, nil
}

// sameEntries compares the entry columns by value, so "10" and "10.0"
// count as the same entry.
func sameEntries(a, b *results.Table) bool {
	xa, _ := a.Floats(results.ColumnEntries)
	xb, _ := b.Floats(results.ColumnEntries)

	return slices.Equal(xa, xb)
}
