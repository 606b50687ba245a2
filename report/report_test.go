package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/goleak"

	"github.com/weiihann/vecbench/results"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordedPanel struct {
	title  string
	series []Series
}

type fakeBuilder struct {
	panels       []*recordedPanel
	xTitle       string
	yTitle       string
	axisCalls    int
	written      []string
	serializeErr error
}

func (b *fakeBuilder) AddPanel(title string) int {
	b.panels = append(b.panels, &recordedPanel{title: title})
	return len(b.panels) - 1
}

func (b *fakeBuilder) AddSeries(panel int, s Series) error {
	if panel < 0 || panel >= len(b.panels) {
		return errors.New("no such panel")
	}

	b.panels[panel].series = append(b.panels[panel].series, s)

	return nil
}

func (b *fakeBuilder) SetSharedAxisTitles(x, y string) {
	b.xTitle, b.yTitle = x, y
	b.axisCalls++
}

func (b *fakeBuilder) SerializeToFile(path string) error {
	if b.serializeErr != nil {
		return b.serializeErr
	}

	b.written = append(b.written, path)

	return nil
}

func (b *fakeBuilder) touched() bool {
	return len(b.panels) > 0 || b.axisCalls > 0 || len(b.written) > 0
}

type fakeOpener struct {
	opened []string
	err    error
}

func (o *fakeOpener) Open(path string) error {
	o.opened = append(o.opened, path)
	return o.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scenarioTable(t *testing.T, path string) *results.Table {
	t.Helper()

	table, err := results.NewTable(path, results.RequiredColumns(),
		map[string][]results.Value{
			results.ColumnEntries:                results.Values("10", "100", "1000"),
			results.ColumnStandardVector:         results.Values("1.0", "5.0", "40.0"),
			results.ColumnTypelessVector:         results.Values("1.2", "5.5", "42.0"),
			results.ColumnTypesafeTypelessVector: results.Values("1.1", "5.2", "41.0"),
		})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	return table
}

func join(values []results.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}

	return strings.Join(parts, " ")
}

func TestRenderPanelsAndSeries(t *testing.T) {
	cfg := DefaultConfig()
	builder := &fakeBuilder{}
	opener := &fakeOpener{}

	r := NewRenderer(cfg, builder, opener, discardLogger())
	if err := r.Render(scenarioTable(t, "a"), scenarioTable(t, "b")); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if len(builder.panels) != 2 {
		t.Fatalf("panels = %d, want 2", len(builder.panels))
	}
	if builder.panels[0].title != "MSVC" || builder.panels[1].title != "GCC" {
		t.Errorf("panel titles = %q, %q",
			builder.panels[0].title, builder.panels[1].title)
	}

	wantNames := []string{
		"Standard Vector", "Typeless Vector", "TypesafeTypeless Vector",
	}

	for i, p := range builder.panels {
		if len(p.series) != 3 {
			t.Fatalf("panel %d has %d series, want 3", i, len(p.series))
		}

		for j, s := range p.series {
			if s.Name != wantNames[j] {
				t.Errorf("panel %d series %d = %q, want %q", i, j, s.Name, wantNames[j])
			}
			if got := join(s.X); got != "10 100 1000" {
				t.Errorf("panel %d series %d x = %q", i, j, got)
			}
			if !s.Style.ShowMarkers || s.Style.FillArea {
				t.Errorf("panel %d series %d style = %+v", i, j, s.Style)
			}
		}

		if got := join(p.series[0].Y); got != "1.0 5.0 40.0" {
			t.Errorf("panel %d StandardVector y = %q", i, got)
		}
		if got := join(p.series[2].Y); got != "1.1 5.2 41.0" {
			t.Errorf("panel %d TypesafeTypelessVector y = %q", i, got)
		}
	}

	if builder.axisCalls != 1 {
		t.Errorf("axis titles set %d times, want 1", builder.axisCalls)
	}
	if builder.xTitle != "Number of Entries" || builder.yTitle != "Milliseconds (ms)" {
		t.Errorf("axis titles = %q, %q", builder.xTitle, builder.yTitle)
	}

	if len(builder.written) != 1 || builder.written[0] != "results.html" {
		t.Errorf("written = %v, want [results.html]", builder.written)
	}
	if len(opener.opened) != 1 || opener.opened[0] != "results.html" {
		t.Errorf("opened = %v, want [results.html]", opener.opened)
	}
}

func TestRenderOpenFailureIsNotFatal(t *testing.T) {
	builder := &fakeBuilder{}
	opener := &fakeOpener{err: errors.New("no display")}

	r := NewRenderer(DefaultConfig(), builder, opener, discardLogger())
	if err := r.Render(scenarioTable(t, "a"), scenarioTable(t, "b")); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if len(opener.opened) != 1 {
		t.Errorf("open attempts = %d, want 1", len(opener.opened))
	}
}

func TestRenderSerializeFailure(t *testing.T) {
	builder := &fakeBuilder{serializeErr: errors.New("disk full")}
	opener := &fakeOpener{}

	r := NewRenderer(DefaultConfig(), builder, opener, discardLogger())

	err := r.Render(scenarioTable(t, "a"), scenarioTable(t, "b"))
	if err == nil {
		t.Fatal("expected error when serialization fails")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error %q does not carry the cause", err)
	}
	if len(opener.opened) != 0 {
		t.Error("opener called after failed write")
	}
}

func TestRenderNilOpener(t *testing.T) {
	r := NewRenderer(DefaultConfig(), &fakeBuilder{}, nil, discardLogger())
	if err := r.Render(scenarioTable(t, "a"), scenarioTable(t, "b")); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
}

func TestRenderMissingColumn(t *testing.T) {
	partial, err := results.NewTable("partial", []string{results.ColumnEntries},
		map[string][]results.Value{results.ColumnEntries: results.Values("1")})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	builder := &fakeBuilder{}
	r := NewRenderer(DefaultConfig(), builder, nil, discardLogger())

	err = r.Render(partial, scenarioTable(t, "b"))
	if !errors.Is(err, results.ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
	if len(builder.written) != 0 {
		t.Error("report written despite missing column")
	}
}

const scenarioJSON = `{
	"columns": ["columns", "StandardVector", "TypelessVector", "TypesafeTypelessVector"],
	"index": ["0", "1", "2"],
	"data": [
		["10", "1.0", "1.2", "1.1"],
		["100", "5.0", "5.5", "5.2"],
		["1000", "40.0", "42.0", "41.0"]
	]
}`

func testConfig(t *testing.T) Config {
	t.Helper()

	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Primary.Path = filepath.Join(dir, "resultsMSVC.json")
	cfg.Secondary.Path = filepath.Join(dir, "resultsGCC.json")
	cfg.OutputPath = filepath.Join(dir, "results.html")

	return cfg
}

func writeInput(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	writeInput(t, cfg.Primary.Path, scenarioJSON)
	writeInput(t, cfg.Secondary.Path, scenarioJSON)

	builder := &fakeBuilder{}
	opener := &fakeOpener{}

	err := Run(context.Background(), discardLogger(), cfg, builder, opener)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(builder.panels) != 2 {
		t.Fatalf("panels = %d, want 2", len(builder.panels))
	}

	for i, p := range builder.panels {
		if len(p.series) != 3 {
			t.Fatalf("panel %d has %d series", i, len(p.series))
		}
		for _, s := range p.series {
			if len(s.X) != 3 || len(s.Y) != 3 {
				t.Errorf("panel %d series %q has %d/%d points",
					i, s.Name, len(s.X), len(s.Y))
			}
			if got := join(s.X); got != "10 100 1000" {
				t.Errorf("panel %d series %q x = %q", i, s.Name, got)
			}
		}
	}

	if len(builder.written) != 1 || builder.written[0] != cfg.OutputPath {
		t.Errorf("written = %v", builder.written)
	}
}

func TestRunMissingPrimary(t *testing.T) {
	cfg := testConfig(t)
	writeInput(t, cfg.Secondary.Path, scenarioJSON)

	builder := &fakeBuilder{}

	err := Run(context.Background(), discardLogger(), cfg, builder, &fakeOpener{})
	if !errors.Is(err, results.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), cfg.Primary.Path) {
		t.Errorf("error %q does not name %s", err, cfg.Primary.Path)
	}
	if builder.touched() {
		t.Error("builder used despite load failure")
	}
	if _, statErr := os.Stat(cfg.OutputPath); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("output exists after failure: %v", statErr)
	}
}

func TestRunMissingColumnInSecondary(t *testing.T) {
	cfg := testConfig(t)
	writeInput(t, cfg.Primary.Path, scenarioJSON)
	writeInput(t, cfg.Secondary.Path, `{
		"columns": ["columns", "StandardVector", "TypelessVector"],
		"data": [["10", "1.0", "1.2"]]
	}`)

	builder := &fakeBuilder{}

	err := Run(context.Background(), discardLogger(), cfg, builder, &fakeOpener{})
	if !errors.Is(err, results.ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
	if !strings.Contains(err.Error(), results.ColumnTypesafeTypelessVector) {
		t.Errorf("error %q does not name the missing column", err)
	}
	if builder.touched() {
		t.Error("builder used despite schema violation")
	}
}

func TestRunCanceled(t *testing.T) {
	cfg := testConfig(t)
	writeInput(t, cfg.Primary.Path, scenarioJSON)
	writeInput(t, cfg.Secondary.Path, scenarioJSON)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	builder := &fakeBuilder{}

	err := Run(ctx, discardLogger(), cfg, builder, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if builder.touched() {
		t.Error("builder used after cancellation")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no primary path", func(c *Config) { c.Primary.Path = "" }},
		{"no secondary path", func(c *Config) { c.Secondary.Path = "" }},
		{"no output", func(c *Config) { c.OutputPath = "" }},
		{"two series", func(c *Config) { c.Series = c.Series[:2] }},
		{"four series", func(c *Config) {
			c.Series = append(c.Series, SeriesSpec{Name: "x", Column: "x"})
		}},
		{"duplicate column", func(c *Config) { c.Series[2].Column = c.Series[0].Column }},
		{"independent column", func(c *Config) { c.Series[0].Column = results.ColumnEntries }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDefaultSeriesOrder(t *testing.T) {
	want := []string{
		results.ColumnStandardVector,
		results.ColumnTypelessVector,
		results.ColumnTypesafeTypelessVector,
	}

	series := DefaultSeries()
	if len(series) != len(want) {
		t.Fatalf("series = %d, want %d", len(series), len(want))
	}

	for i, s := range series {
		if s.Column != want[i] {
			t.Errorf("series %d column = %q, want %q", i, s.Column, want[i])
		}
	}
}

func TestRunEntryColumnWarning(t *testing.T) {
	tests := []struct {
		name      string
		secondary string
		warn      bool
	}{
		{
			name:      "identical",
			secondary: scenarioJSON,
		},
		{
			name:      "same values spelled differently",
			secondary: strings.Replace(scenarioJSON, `["10", `, `["10.0", `, 1),
		},
		{
			name:      "different entries",
			secondary: strings.Replace(scenarioJSON, `["10", `, `["20", `, 1),
			warn:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			writeInput(t, cfg.Primary.Path, scenarioJSON)
			writeInput(t, cfg.Secondary.Path, tt.secondary)

			var logs strings.Builder
			logger := slog.New(slog.NewTextHandler(&logs, nil))

			err := Run(context.Background(), logger, cfg, &fakeBuilder{}, &fakeOpener{})
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			got := strings.Contains(logs.String(), "entry columns differ")
			if got != tt.warn {
				t.Errorf("warned = %v, want %v; logs:\n%s", got, tt.warn, logs.String())
			}
		})
	}
}
