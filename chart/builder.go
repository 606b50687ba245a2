// Package chart renders comparison figures as interactive HTML documents
// using go-echarts, with a static SVG fallback drawn by gonum/plot.
package chart

import (
	"bytes"
	"fmt"
	"io"

	"github.com/weiihann/vecbench/report"
)

// DefaultChartID is the element ID used when Options.ChartID is empty.
// Keeping it fixed makes repeated renders of the same data identical.
const DefaultChartID = "vecbench"

// Options configures an HTMLBuilder.
type Options struct {
	Title string
	Style report.Style

	// ChartID is the DOM id of the chart container.
	ChartID string
	// Runtime is the ECharts script inlined into the document. When it is
	// empty the script is loaded from AssetsHost, and an empty AssetsHost
	// means the go-echarts default host.
	Runtime    []byte
	AssetsHost string
	// Width and Height are CSS sizes of the chart canvas.
	Width  string
	Height string

	// NoFallback disables the static SVG figure shown when the ECharts
	// runtime is unavailable.
	NoFallback bool
}

// OptionsFromConfig derives builder options from a report configuration.
func OptionsFromConfig(cfg report.Config) Options {
	return Options{
		Title:   cfg.Title,
		Style:   cfg.Style,
		ChartID: DefaultChartID,
		Runtime: BundledRuntime(),
		Width:   "1800px",
		Height:  "800px",
	}
}

type panel struct {
	title  string
	series []report.Series
}

// HTMLBuilder composes panels side by side in one row and writes them as
// a single HTML document. It implements report.Builder.
type HTMLBuilder struct {
	opts   Options
	panels []panel
	xTitle string
	yTitle string
}

var _ report.Builder = (*HTMLBuilder)(nil)

// NewHTMLBuilder creates an empty HTMLBuilder.
func NewHTMLBuilder(opts Options) *HTMLBuilder {
	if opts.ChartID == "" {
		opts.ChartID = DefaultChartID
	}

	return &HTMLBuilder{opts: opts}
}

// AddPanel appends a panel to the right of the existing ones.
func (b *HTMLBuilder) AddPanel(title string) int {
	b.panels = append(b.panels, panel{title: title})
	return len(b.panels) - 1
}

// AddSeries adds s to panel. X and Y must have the same length.
func (b *HTMLBuilder) AddSeries(panel int, s report.Series) error {
	if panel < 0 || panel >= len(b.panels) {
		return fmt.Errorf("panel %d out of range [0,%d)", panel, len(b.panels))
	}

	if len(s.X) != len(s.Y) {
		return fmt.Errorf("series %q has %d x values and %d y values",
			s.Name, len(s.X), len(s.Y))
	}

	b.panels[panel].series = append(b.panels[panel].series, s)

	return nil
}

// SetSharedAxisTitles sets the figure-wide axis titles.
func (b *HTMLBuilder) SetSharedAxisTitles(x, y string) {
	b.xTitle, b.yTitle = x, y
}

// Render writes the complete HTML document to w.
func (b *HTMLBuilder) Render(w io.Writer) error {
	if len(b.panels) == 0 {
		return fmt.Errorf("figure has no panels")
	}

	var page bytes.Buffer
	if err := b.lineChart().Render(&page); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	doc := page.Bytes()

	if !b.opts.NoFallback {
		var svg bytes.Buffer
		if err := b.renderSVG(&svg); err != nil {
			return fmt.Errorf("render fallback: %w", err)
		}

		doc = embedFallback(doc, svg.Bytes(), b.opts.ChartID)
	}

	_, err := w.Write(doc)

	return err
}

// SerializeToFile renders the document and atomically replaces path with
// it. On failure path is left untouched.
func (b *HTMLBuilder) SerializeToFile(path string) error {
	var buf bytes.Buffer
	if err := b.Render(&buf); err != nil {
		return err
	}

	return writeFileAtomic(path, buf.Bytes())
}

var (
	bodyEnd  = []byte("</body>")
	svgStart = []byte("<svg")
)

// fallbackScript hides whichever rendering cannot be shown: the static
// figure once ECharts is loaded, the empty chart container otherwise.
const fallbackScript = `<script type="text/javascript">
    (function () {
        var interactive = typeof echarts !== "undefined";
        var chart = document.getElementById(%[1]q);
        var figure = document.getElementById(%[2]q);
        if (interactive) {
            figure.style.display = "none";
        } else if (chart) {
            chart.parentNode.style.display = "none";
        }
    })();
</script>
`

func staticID(chartID string) string {
	return chartID + "-static"
}

// embedFallback places svg at the end of the body as a visible static
// figure. It stays on screen unless the ECharts runtime loads.
func embedFallback(doc, svg []byte, chartID string) []byte {
	if i := bytes.Index(svg, svgStart); i > 0 {
		svg = svg[i:]
	}

	var block bytes.Buffer
	fmt.Fprintf(&block, "<div class=\"container\" id=%q>\n", staticID(chartID))
	block.Write(svg)
	block.WriteString("</div>\n")
	fmt.Fprintf(&block, fallbackScript, chartID, staticID(chartID))

	i := bytes.LastIndex(doc, bodyEnd)
	if i < 0 {
		return append(doc, block.Bytes()...)
	}

	out := make([]byte, 0, len(doc)+block.Len())
	out = append(out, doc[:i]...)
	out = append(out, block.Bytes()...)

	return append(out, doc[i:]...)
}
