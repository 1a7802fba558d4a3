// Command landscape renders a loss matrix file as a 3D surface chart and
// heatmap, optionally recording the render and serving the charts over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/landscape.report/internal/config"
	"github.com/banshee-data/landscape.report/internal/direction"
	"github.com/banshee-data/landscape.report/internal/export"
	"github.com/banshee-data/landscape.report/internal/fsutil"
	"github.com/banshee-data/landscape.report/internal/monitor"
	"github.com/banshee-data/landscape.report/internal/runlog"
	"github.com/banshee-data/landscape.report/internal/surface"
)

var (
	input         = flag.String("input", "", "Path to the loss matrix file (required)")
	outputDir     = flag.String("output", "", "Output directory (overrides config)")
	configPath    = flag.String("config", "", "Optional JSON config file")
	serveAddr     = flag.String("serve", "", "Serve debug charts at this address after rendering")
	record        = flag.Bool("record", false, "Record the render in the history database")
	exportCSV     = flag.Bool("export-csv", false, "Also export the log-loss matrix as CSV")
	migrationsDir = flag.String("migrations", "migrations", "Migrations directory for the history database")
	genDirections = flag.Int("gen-directions", 0, "Generate two Gaussian direction vectors of this length and exit")
	normScale     = flag.Float64("norm", 1.0, "Norm to scale generated direction vectors to")
)

func main() {
	flag.Parse()

	cfg := config.EmptyRenderConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadRenderConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	outDir := cfg.GetOutputDir()
	if *outputDir != "" {
		outDir = *outputDir
	}

	fsys := fsutil.OSFileSystem{}

	if *genDirections > 0 {
		if err := generateDirections(fsys, cfg, outDir, *genDirections, *normScale); err != nil {
			log.Fatalf("failed to generate directions: %v", err)
		}
		return
	}

	if *input == "" {
		log.Fatal("input file is required")
	}

	start := time.Now()
	fig, err := surface.NewRenderer(fsys).Render(*input)
	if err != nil {
		log.Fatalf("render failed: %v", err)
	}
	duration := time.Since(start)

	style := &surface.ChartStyle{
		Theme:  cfg.GetTheme(),
		Width:  cfg.GetChartWidth(),
		Height: cfg.GetChartHeight(),
	}
	htmlPath, pngPath, err := writeOutputs(fsys, fig, outDir, style)
	if err != nil {
		log.Fatalf("failed to write outputs: %v", err)
	}
	log.Printf("rendered %s in %s: %s, %s", *input, duration.Round(time.Millisecond), htmlPath, pngPath)

	if *exportCSV {
		csvPath := filepath.Join(outDir, "logloss.csv")
		if err := export.SaveMatrix(fsys, csvPath, fig.Z); err != nil {
			log.Fatalf("failed to export CSV: %v", err)
		}
		log.Printf("exported log-loss matrix to %s", csvPath)
	}

	var runs *runlog.DB
	if *record || *serveAddr != "" {
		runs, err = openRunlog(fsys, cfg.GetDBPath(), *migrationsDir)
		if err != nil {
			log.Fatalf("failed to open render history: %v", err)
		}
		defer runs.Close()
	}

	if *record {
		rows, cols := fig.Dims()
		rec := &runlog.Render{
			SourcePath: *input,
			Rows:       rows,
			Cols:       cols,
			MinNonZero: fig.MinNonZero,
			NonFinite:  fig.NonFinite,
			DurationMs: duration.Milliseconds(),
			OutputHTML: htmlPath,
			OutputPNG:  pngPath,
		}
		if err := runs.InsertRender(rec); err != nil {
			log.Fatalf("failed to record render: %v", err)
		}
		log.Printf("recorded render %s", rec.RenderID)
	}

	if *serveAddr != "" {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ws := monitor.NewWebServer(monitor.WebServerConfig{
			Address: *serveAddr,
			Figure:  fig,
			Runs:    runs,
		})
		if err := ws.Start(ctx); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}
}

// writeOutputs renders the figure to surface.html and heatmap.png under
// outDir, creating the directory if needed.
func writeOutputs(fsys fsutil.FileSystem, fig *surface.Figure, outDir string, style *surface.ChartStyle) (htmlPath, pngPath string, err error) {
	if err := fsys.MkdirAll(outDir, 0755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}

	htmlPath = filepath.Join(outDir, "surface.html")
	hf, err := fsys.Create(htmlPath)
	if err != nil {
		return "", "", fmt.Errorf("create %s: %w", htmlPath, err)
	}
	if err := surface.WriteStyledSurfaceHTML(fig, style, hf); err != nil {
		hf.Close()
		return "", "", err
	}
	if err := hf.Close(); err != nil {
		return "", "", err
	}

	pngPath = filepath.Join(outDir, "heatmap.png")
	pf, err := fsys.Create(pngPath)
	if err != nil {
		return "", "", fmt.Errorf("create %s: %w", pngPath, err)
	}
	if err := surface.WriteHeatmapPNG(fig, pf); err != nil {
		pf.Close()
		return "", "", err
	}
	if err := pf.Close(); err != nil {
		return "", "", err
	}

	return htmlPath, pngPath, nil
}

// generateDirections writes two normalised Gaussian direction vectors and
// their step-interpolation grids to outDir as CSV. The vectors define the
// two axes a loss landscape is sampled along.
func generateDirections(fsys fsutil.FileSystem, cfg *config.RenderConfig, outDir string, paramCount int, norm float64) error {
	vectors, err := direction.Gaussian(paramCount, 2, uint64(cfg.GetSeed()))
	if err != nil {
		return err
	}
	direction.NormalizeRows(vectors)
	direction.ScaleRows(vectors, norm)

	if err := fsys.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	vecPath := filepath.Join(outDir, "directions.csv")
	if err := export.SaveMatrix(fsys, vecPath, vectors); err != nil {
		return err
	}

	steps := cfg.GetSteps()
	for i := 0; i < 2; i++ {
		grid, err := direction.InterpGrid(mat.Row(nil, i, vectors), steps)
		if err != nil {
			return err
		}
		gridPath := filepath.Join(outDir, fmt.Sprintf("vector_grid%d.csv", i+1))
		if err := export.SaveMatrix(fsys, gridPath, grid); err != nil {
			return err
		}
	}

	log.Printf("wrote direction vectors and %d-step grids to %s", steps, outDir)
	return nil
}

// openRunlog opens the history database and brings its schema up to date.
// Versioned migrations are used when the migrations directory exists;
// otherwise the schema is created directly.
func openRunlog(fsys fsutil.FileSystem, dbPath, migrationsDir string) (*runlog.DB, error) {
	runs, err := runlog.Open(dbPath)
	if err != nil {
		return nil, err
	}

	if fsys.Exists(migrationsDir) {
		err = runs.MigrateUp(migrationsDir)
	} else {
		err = runs.EnsureSchema()
	}
	if err != nil {
		runs.Close()
		return nil, err
	}
	return runs, nil
}
