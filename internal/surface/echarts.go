package surface

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// viridisColors is the colour ramp used for the surface visual map.
var viridisColors = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// ChartStyle controls the appearance of the HTML surface chart. The zero
// value (or a nil pointer) renders with the default dark theme at 900px.
type ChartStyle struct {
	Theme  string
	Width  string
	Height string
}

func (s *ChartStyle) theme() string {
	if s == nil || s.Theme == "" {
		return "dark"
	}
	return s.Theme
}

func (s *ChartStyle) width() string {
	if s == nil || s.Width == "" {
		return "900px"
	}
	return s.Width
}

func (s *ChartStyle) height() string {
	if s == nil || s.Height == "" {
		return "900px"
	}
	return s.Height
}

// WriteSurfaceHTML renders the figure as an interactive 3D surface chart
// with the default style and writes a standalone HTML page to w.
func WriteSurfaceHTML(fig *Figure, w io.Writer) error {
	return WriteStyledSurfaceHTML(fig, nil, w)
}

// WriteStyledSurfaceHTML renders the figure as an interactive 3D surface
// chart and writes a standalone HTML page to w. Non-finite heights are
// emitted as nulls so the chart skips them instead of failing to serialise.
func WriteStyledSurfaceHTML(fig *Figure, style *ChartStyle, w io.Writer) error {
	rows, cols := fig.Dims()
	zMin, zMax := fig.ZRange()
	if zMin == zMax {
		// Keep the visual map non-degenerate for flat landscapes.
		zMax = zMin + 1
	}

	surf := charts.NewSurface3D()
	surf.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Loss Landscape",
			Theme:     style.theme(),
			Width:     style.width(),
			Height:    style.height(),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Loss Landscape",
			Subtitle: fmt.Sprintf("source=%s grid=%dx%d", fig.SourcePath, rows, cols),
		}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: XAxisLabel, Type: "value"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: YAxisLabel, Type: "value"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: ZAxisLabel, Type: "value"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(zMin),
			Max:        float32(zMax),
			InRange:    &opts.VisualMapInRange{Color: viridisColors},
		}),
	)

	data := make([]opts.Chart3DData, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x := fig.Grid.XX.At(i, j)
			y := fig.Grid.YY.At(i, j)
			z := fig.Z.At(i, j)

			var height interface{} = z
			if math.IsNaN(z) || math.IsInf(z, 0) {
				height = nil
			}
			data = append(data, opts.Chart3DData{Value: []interface{}{x, y, height}})
		}
	}

	surf.AddSeries("log-loss", data)

	if err := surf.Render(w); err != nil {
		return fmt.Errorf("render surface chart: %w", err)
	}
	return nil
}
