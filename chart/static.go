package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"golang.org/x/image/colornames"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/weiihann/vecbench/report"
)

const (
	svgPanelWidth = 6 * vg.Inch
	svgHeight     = 5 * vg.Inch
	svgTitleSize  = 14
	svgLabelSize  = 12
)

// staticFont maps a CSS font family onto the closest bundled Liberation
// variant.
func staticFont(family string) font.Font {
	fnt := plot.DefaultFont

	switch f := strings.ToLower(family); {
	case strings.Contains(f, "mono"):
		fnt.Variant = "Mono"
	case strings.Contains(f, "sans"), f != "" && !strings.Contains(f, "serif"):
		fnt.Variant = "Sans"
	}

	return fnt
}

// staticColor parses a CSS color name or #rrggbb value. Anything else is
// drawn black.
func staticColor(s string) color.Color {
	s = strings.ToLower(strings.TrimSpace(s))

	if c, ok := colornames.Map[s]; ok {
		return c
	}

	var r, g, b uint8
	if len(s) == 7 {
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err == nil {
			return color.RGBA{R: r, G: g, B: b, A: 0xff}
		}
	}

	return color.Black
}

// renderSVG draws the figure as a static SVG: one plot per panel in a
// single row, with the figure title and axis titles drawn once.
func (b *HTMLBuilder) renderSVG(w io.Writer) error {
	width := svgPanelWidth * vg.Length(len(b.panels))
	canvas := vgsvg.New(width, svgHeight)
	dc := draw.New(canvas)

	titleSize, labelSize := font.Length(svgTitleSize), font.Length(svgLabelSize)
	if b.opts.Style.FontSize > 0 {
		titleSize = font.Length(b.opts.Style.FontSize)
		labelSize = titleSize * svgLabelSize / svgTitleSize
	}

	titleStyle := b.svgTextStyle(titleSize)
	labelStyle := b.svgTextStyle(labelSize)

	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(b.panels),
		PadX:      vg.Centimeter,
		PadTop:    titleStyle.Height(b.opts.Title) + 2*vg.Millimeter,
		PadBottom: labelStyle.Height(b.xTitle) + 2*vg.Millimeter,
		PadLeft:   labelStyle.Height(b.yTitle) + 2*vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}

	row := make([]*plot.Plot, len(b.panels))
	for i, p := range b.panels {
		pl, err := staticPanel(p, labelStyle)
		if err != nil {
			return fmt.Errorf("panel %q: %w", p.title, err)
		}

		row[i] = pl
	}

	canvases := plot.Align([][]*plot.Plot{row}, tiles, dc)
	for i, pl := range row {
		pl.Draw(canvases[0][i])
	}

	center := (dc.Min.X + dc.Max.X) / 2

	titleStyle.XAlign = draw.XCenter
	titleStyle.YAlign = draw.YTop
	dc.FillText(titleStyle, vg.Point{X: center, Y: dc.Max.Y}, b.opts.Title)

	if b.xTitle != "" {
		xStyle := labelStyle
		xStyle.XAlign = draw.XCenter
		xStyle.YAlign = draw.YBottom
		dc.FillText(xStyle, vg.Point{X: center, Y: dc.Min.Y}, b.xTitle)
	}

	if b.yTitle != "" {
		yStyle := labelStyle
		yStyle.Rotation = math.Pi / 2
		yStyle.XAlign = draw.XCenter
		yStyle.YAlign = draw.YTop
		middle := (dc.Min.Y + dc.Max.Y) / 2
		dc.FillText(yStyle, vg.Point{X: dc.Min.X, Y: middle}, b.yTitle)
	}

	if _, err := canvas.WriteTo(w); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}

	return nil
}

func (b *HTMLBuilder) svgTextStyle(size font.Length) draw.TextStyle {
	return draw.TextStyle{
		Color:   staticColor(b.opts.Style.FontColor),
		Font:    font.From(staticFont(b.opts.Style.FontFamily), size),
		Handler: plot.DefaultTextHandler,
	}
}

func staticPanel(p panel, text draw.TextStyle) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = p.title
	pl.Title.TextStyle.Color = text.Color
	pl.Title.TextStyle.Font = text.Font
	pl.Legend.TextStyle.Color = text.Color
	pl.Legend.TextStyle.Font.Typeface = text.Font.Typeface
	pl.Legend.TextStyle.Font.Variant = text.Font.Variant
	pl.Legend.Top = true
	pl.Legend.Left = true
	pl.Add(plotter.NewGrid())

	for i, s := range p.series {
		line, points, err := plotter.NewLinePoints(xys(s))
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Name, err)
		}

		c := seriesColor(i)
		line.Color = c
		points.Color = c

		if s.Style.FillArea {
			line.FillColor = color.NRGBA{A: 40}
		}

		pl.Add(line)
		if s.Style.ShowMarkers {
			pl.Add(points)
			pl.Legend.Add(s.Name, line, points)
		} else {
			pl.Legend.Add(s.Name, line)
		}
	}

	return pl, nil
}

func xys(s report.Series) plotter.XYs {
	pts := make(plotter.XYs, len(s.X))
	for i := range s.X {
		pts[i].X = s.X[i].Float64()
		pts[i].Y = s.Y[i].Float64()
	}

	return pts
}
