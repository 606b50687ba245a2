package report

import (
	"fmt"

	"github.com/weiihann/vecbench/results"
)

// Source names one benchmark result file and the panel it feeds.
type Source struct {
	Title string
	Path  string
}

// Style is the font profile shared by every text element of the figure.
type Style struct {
	FontFamily string
	FontSize   int
	FontColor  string
}

// SeriesStyle controls how a series is drawn.
type SeriesStyle struct {
	ShowMarkers bool
	FillArea    bool
}

// SeriesSpec maps a result column to a named, styled series.
type SeriesSpec struct {
	Name   string
	Column string
	Style  SeriesStyle
}

// SeriesCount is the number of series drawn in each panel.
const SeriesCount = 3

// Config holds everything the report pipeline needs. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	Primary    Source
	Secondary  Source
	OutputPath string

	Title      string
	XAxisTitle string
	YAxisTitle string
	Style      Style

	Series []SeriesSpec
}

// DefaultSeries returns the three container series in drawing order.
func DefaultSeries() []SeriesSpec {
	lines := SeriesStyle{ShowMarkers: true}

	return []SeriesSpec{
		{Name: "Standard Vector", Column: results.ColumnStandardVector, Style: lines},
		{Name: "Typeless Vector", Column: results.ColumnTypelessVector, Style: lines},
		{Name: "TypesafeTypeless Vector", Column: results.ColumnTypesafeTypelessVector, Style: lines},
	}
}

// DefaultConfig returns the production configuration: MSVC results on the
// left, GCC results on the right, written to results.html.
func DefaultConfig() Config {
	return Config{
		Primary:    Source{Title: "MSVC", Path: "resultsMSVC.json"},
		Secondary:  Source{Title: "GCC", Path: "resultsGCC.json"},
		OutputPath: "results.html",
		Title:      "Standard Vector vs Typeless Vector vs TypesafeTypeless Vector (Performance)",
		XAxisTitle: "Number of Entries",
		YAxisTitle: "Milliseconds (ms)",
		Style: Style{
			FontFamily: "Roboto Mono",
			FontSize:   18,
			FontColor:  "Black",
		},
		Series: DefaultSeries(),
	}
}

// Validate checks that the configuration describes two sources, one
// output and exactly SeriesCount series.
func (c Config) Validate() error {
	for _, src := range []Source{c.Primary, c.Secondary} {
		if src.Path == "" {
			return fmt.Errorf("source %q has no path", src.Title)
		}
	}

	if c.OutputPath == "" {
		return fmt.Errorf("output path is empty")
	}

	if len(c.Series) != SeriesCount {
		return fmt.Errorf("expected %d series, got %d", SeriesCount, len(c.Series))
	}

	seen := make(map[string]bool, len(c.Series))
	for _, s := range c.Series {
		if s.Column == results.ColumnEntries {
			return fmt.Errorf("series %q plots the independent column", s.Name)
		}

		if seen[s.Column] {
			return fmt.Errorf("column %q is plotted twice", s.Column)
		}

		seen[s.Column] = true
	}

	return nil
}
