package stats

import (
	"testing"

	"onemax/internal/model"
)

func TestBuildFitnessSeries(t *testing.T) {
	history := []model.GenerationStats{
		{Generation: 1, MaxFitness: 60, MeanFitness: 51.5},
		{Generation: 2, MaxFitness: 64, MeanFitness: 55.25},
	}
	series := BuildFitnessSeries(history)
	if len(series.Max) != 2 || len(series.Mean) != 2 {
		t.Fatalf("expected two points per curve, got max=%d mean=%d", len(series.Max), len(series.Mean))
	}
	if series.Max[1].Generation != 2 || series.Max[1].Value != 64 {
		t.Fatalf("unexpected max point: %+v", series.Max[1])
	}
	if series.Mean[0].Generation != 1 || series.Mean[0].Value != 51.5 {
		t.Fatalf("unexpected mean point: %+v", series.Mean[0])
	}
}

func TestBuildFitnessSeriesEmpty(t *testing.T) {
	series := BuildFitnessSeries(nil)
	if len(series.Max) != 0 || len(series.Mean) != 0 {
		t.Fatalf("expected empty series, got %+v", series)
	}
}
