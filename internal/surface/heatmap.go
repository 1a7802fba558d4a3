package surface

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WriteHeatmapPNG draws the figure as a top-down heatmap and writes PNG
// bytes to w. This is the headless companion to the interactive surface
// chart: same data, no browser required.
func WriteHeatmapPNG(fig *Figure, w io.Writer) error {
	p := plot.New()
	p.Title.Text = "Loss Landscape"
	p.X.Label.Text = XAxisLabel
	p.Y.Label.Text = YAxisLabel

	hm := plotter.NewHeatMap(&figureGrid{fig: fig}, heatPalette(64))
	if hm.Min == hm.Max {
		// Flat landscapes would degenerate the colour scale.
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	wt, err := p.WriterTo(8*vg.Inch, 8*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("prepare heatmap: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write heatmap: %w", err)
	}
	return nil
}

// figureGrid adapts a Figure to the plotter.GridXYZ interface. Non-finite
// heights are clamped to the finite minimum so the colour scale stays
// well-defined.
type figureGrid struct {
	fig *Figure
}

func (g *figureGrid) Dims() (c, r int) {
	rows, cols := g.fig.Dims()
	return cols, rows
}

func (g *figureGrid) Z(c, r int) float64 {
	v := g.fig.Z.At(r, c)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		min, _ := g.fig.ZRange()
		return min
	}
	return v
}

func (g *figureGrid) X(c int) float64 {
	return g.fig.Grid.XX.At(0, c)
}

func (g *figureGrid) Y(r int) float64 {
	return g.fig.Grid.YY.At(r, 0)
}

// hslPalette is an n-colour ramp from blue through red.
type hslPalette struct {
	colors []color.Color
}

func (p hslPalette) Colors() []color.Color { return p.colors }

func heatPalette(n int) hslPalette {
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		// Hue runs from 2/3 (blue) down to 0 (red).
		hue := (2.0 / 3.0) * (1 - float64(i)/float64(n-1))
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return hslPalette{colors: colors}
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
