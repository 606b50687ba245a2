// Package main provides the CLI entry point for vecbench, which renders the
// MSVC and GCC vector benchmark results as one interactive HTML report.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/weiihann/vecbench/chart"
	"github.com/weiihann/vecbench/report"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(logger, report.BrowserOpener{})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, opener report.Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "vecbench",
		Short: "Render vector benchmark results as an HTML report",
		Long: `Vecbench reads resultsMSVC.json and resultsGCC.json from the working
directory, plots the vector timings of both compilers side by side and
writes results.html, opening it in the default browser.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := report.DefaultConfig()
			builder := chart.NewHTMLBuilder(chart.OptionsFromConfig(cfg))

			return report.Run(cmd.Context(), logger, cfg, builder, opener)
		},
	}
}
