package stats

import "onemax/internal/model"

type PlotPoint struct {
	Generation int     `json:"generation"`
	Value      float64 `json:"value"`
}

// FitnessSeries holds the two curves drawn for a run.
type FitnessSeries struct {
	Max  []PlotPoint `json:"max"`
	Mean []PlotPoint `json:"mean"`
}

// BuildFitnessSeries turns the stats sequence into max and mean curves
// indexed by generation.
func BuildFitnessSeries(history []model.GenerationStats) FitnessSeries {
	series := FitnessSeries{
		Max:  make([]PlotPoint, 0, len(history)),
		Mean: make([]PlotPoint, 0, len(history)),
	}
	for _, s := range history {
		series.Max = append(series.Max, PlotPoint{Generation: s.Generation, Value: float64(s.MaxFitness)})
		series.Mean = append(series.Mean, PlotPoint{Generation: s.Generation, Value: s.MeanFitness})
	}
	return series
}
