package stats

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plotter renders the per-game score and running mean score to a PNG file.
type Plotter struct {
	path string
}

// NewPlotter creates a plotter writing to path.
func NewPlotter(path string) *Plotter {
	return &Plotter{path: path}
}

func (p *Plotter) Path() string { return p.path }

// Plot redraws the whole curve. Nothing is written before the first game.
func (p *Plotter) Plot(scores []int, means []float64) error {
	if len(scores) == 0 {
		return nil
	}

	pl := plot.New()
	pl.Title.Text = "Training..."
	pl.X.Label.Text = "Number of Games"
	pl.Y.Label.Text = "Score"
	pl.Y.Min = 0

	scorePts := make(plotter.XYs, len(scores))
	for i, s := range scores {
		scorePts[i] = plotter.XY{X: float64(i + 1), Y: float64(s)}
	}
	meanPts := make(plotter.XYs, len(means))
	for i, m := range means {
		meanPts[i] = plotter.XY{X: float64(i + 1), Y: m}
	}

	for i, series := range []struct {
		name string
		pts  plotter.XYs
	}{
		{"score", scorePts},
		{"mean score", meanPts},
	} {
		if len(series.pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(series.pts)
		if err != nil {
			return fmt.Errorf("stats: cannot plot %s: %w", series.name, err)
		}
		line.Color = plotutil.Color(i)
		pl.Add(line)
		pl.Legend.Add(series.name, line)
	}

	if dir := filepath.Dir(p.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("stats: cannot create directory %s: %w", dir, err)
		}
	}
	if err := pl.Save(8*vg.Inch, 5*vg.Inch, p.path); err != nil {
		return fmt.Errorf("stats: cannot save plot: %w", err)
	}
	return nil
}
