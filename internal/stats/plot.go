package stats

import (
	"errors"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"onemax/internal/model"
)

const (
	PlotTitle = "Fitness over Generations"
	PlotXAxis = "Generation"
	PlotYAxis = "Fitness"
)

var ErrEmptyHistory = errors.New("no generation stats to plot")

// RenderFitnessPlot draws max and mean fitness against generation and saves
// the chart to outPath. The image format follows the file extension.
func RenderFitnessPlot(history []model.GenerationStats, outPath string) error {
	if len(history) == 0 {
		return ErrEmptyHistory
	}
	series := BuildFitnessSeries(history)

	p := plot.New()
	p.Title.Text = PlotTitle
	p.X.Label.Text = PlotXAxis
	p.Y.Label.Text = PlotYAxis
	p.Add(plotter.NewGrid())

	if err := plotutil.AddLines(p,
		"Max Fitness", toXYs(series.Max),
		"Mean Fitness", toXYs(series.Mean),
	); err != nil {
		return err
	}
	p.Legend.Top = true
	p.Legend.Left = true

	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, outPath)
}

func toXYs(points []PlotPoint) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = float64(pt.Generation)
		xys[i].Y = pt.Value
	}
	return xys
}
