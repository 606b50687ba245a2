package chart

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot/plotutil"

	"github.com/weiihann/vecbench/report"
	"github.com/weiihann/vecbench/results"
)

// Figure geometry, in percent of the canvas.
const (
	marginLeft   = 7.0
	marginRight  = 3.0
	panelGap     = 6.0
	marginTop    = 16.0
	marginBottom = 22.0

	panelTitleTop = 9.0
	xTitleBottom  = 9.0
	yTitleLeft    = 1.0
)

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// panelSpan returns the left edge and width of panel i out of n.
func panelSpan(i, n int) (left, width float64) {
	width = (100 - marginLeft - marginRight - panelGap*float64(n-1)) / float64(n)
	left = marginLeft + float64(i)*(width+panelGap)

	return left, width
}

// seriesColor returns the color of the i-th series of a panel. The same
// palette is used for the static fallback so both renderings agree.
func seriesColor(i int) color.Color {
	return plotutil.Color(i)
}

func hexColor(c color.Color) string {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

func (b *HTMLBuilder) textStyle() *opts.TextStyle {
	return &opts.TextStyle{
		FontFamily: b.opts.Style.FontFamily,
		FontSize:   b.opts.Style.FontSize,
		Color:      b.opts.Style.FontColor,
	}
}

func (b *HTMLBuilder) lineChart() *charts.Line {
	n := len(b.panels)

	grids := make([]opts.Grid, n)
	for i := range grids {
		left, width := panelSpan(i, n)
		grids[i] = opts.Grid{
			Left:   percent(left),
			Width:  percent(width),
			Top:    percent(marginTop),
			Bottom: percent(marginBottom),
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  b.opts.Title,
			ChartID:    b.opts.ChartID,
			AssetsHost: b.opts.AssetsHost,
			Width:      b.opts.Width,
			Height:     b.opts.Height,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Bottom: "0%",
		}),
		charts.WithGridOpts(grids...),
		charts.WithXAxisOpts(valueXAxis(0)),
		charts.WithYAxisOpts(valueYAxis(0)),
	)

	if len(b.opts.Runtime) > 0 {
		line.ClearPresetJSAssets()
		line.AddCustomizedHeaders(inlineScript(b.opts.Runtime))
	}

	for i := 1; i < n; i++ {
		line.ExtendXAxis(valueXAxis(i))
		line.ExtendYAxis(valueYAxis(i))
	}

	for i, p := range b.panels {
		for j, s := range p.series {
			line.AddSeries(s.Name, lineData(s), seriesOptions(i, j, s.Style)...)
		}
	}

	line.Accept(b.layout())

	return line
}

func valueXAxis(grid int) opts.XAxis {
	return opts.XAxis{
		Type:      "value",
		GridIndex: grid,
		Scale:     opts.Bool(true),
	}
}

func valueYAxis(grid int) opts.YAxis {
	return opts.YAxis{
		Type:      "value",
		GridIndex: grid,
	}
}

func seriesOptions(panel, index int, style report.SeriesStyle) []charts.SeriesOpts {
	c := hexColor(seriesColor(index))

	options := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{
			XAxisIndex: panel,
			YAxisIndex: panel,
			Symbol:     "circle",
			ShowSymbol: opts.Bool(style.ShowMarkers),
		}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: c}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: c}),
	}

	if style.FillArea {
		options = append(options, charts.WithAreaStyleOpts(opts.AreaStyle{
			Opacity: opts.Float(0.2),
		}))
	}

	return options
}

// lineData pairs X and Y as [x, y] points. The cells marshal to their
// source literals, so the embedded numbers match the input files.
func lineData(s report.Series) []opts.LineData {
	data := make([]opts.LineData, len(s.X))
	for i := range s.X {
		data[i] = opts.LineData{Value: []results.Value{s.X[i], s.Y[i]}}
	}

	return data
}

// figureLayout adds what the built-in options cannot express: one title
// per panel next to the figure title, figure-wide axis titles and a global
// font.
type figureLayout struct {
	charts.BaseConfigurationVisitor

	titles   []opts.Title
	graphics []graphicText
	font     *opts.TextStyle
}

type graphicText struct {
	Type     string       `json:"type"`
	Left     string       `json:"left,omitempty"`
	Top      string       `json:"top,omitempty"`
	Bottom   string       `json:"bottom,omitempty"`
	Rotation float64      `json:"rotation,omitempty"`
	Style    graphicStyle `json:"style"`
}

type graphicStyle struct {
	Text       string `json:"text"`
	Fill       string `json:"fill,omitempty"`
	FontSize   int    `json:"fontSize,omitempty"`
	FontFamily string `json:"fontFamily,omitempty"`
	TextAlign  string `json:"textAlign,omitempty"`
}

func (l figureLayout) Visit(chart map[string]interface{}) {
	chart["title"] = l.titles
	chart["textStyle"] = l.font

	if len(l.graphics) > 0 {
		chart["graphic"] = l.graphics
	}
}

func (b *HTMLBuilder) layout() figureLayout {
	font := b.textStyle()

	titles := make([]opts.Title, 0, len(b.panels)+1)
	titles = append(titles, opts.Title{
		Title:      b.opts.Title,
		Left:       "center",
		Top:        "1%",
		TitleStyle: font,
	})

	for i, p := range b.panels {
		left, width := panelSpan(i, len(b.panels))
		titles = append(titles, opts.Title{
			Title:      p.title,
			Left:       percent(left + width/2),
			Top:        percent(panelTitleTop),
			TextAlign:  "center",
			TitleStyle: font,
		})
	}

	style := func(text string) graphicStyle {
		return graphicStyle{
			Text:       text,
			Fill:       b.opts.Style.FontColor,
			FontSize:   b.opts.Style.FontSize,
			FontFamily: b.opts.Style.FontFamily,
			TextAlign:  "center",
		}
	}

	var graphics []graphicText
	if b.xTitle != "" {
		graphics = append(graphics, graphicText{
			Type:   "text",
			Left:   "center",
			Bottom: percent(xTitleBottom),
			Style:  style(b.xTitle),
		})
	}

	if b.yTitle != "" {
		graphics = append(graphics, graphicText{
			Type:     "text",
			Left:     percent(yTitleLeft),
			Top:      "middle",
			Rotation: math.Pi / 2,
			Style:    style(b.yTitle),
		})
	}

	return figureLayout{titles: titles, graphics: graphics, font: font}
}
