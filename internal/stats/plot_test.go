package stats

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"onemax/internal/model"
)

func TestRenderFitnessPlotWritesPNG(t *testing.T) {
	history := []model.GenerationStats{
		{Generation: 1, MaxFitness: 58, MeanFitness: 50.1},
		{Generation: 2, MaxFitness: 61, MeanFitness: 53.4},
		{Generation: 3, MaxFitness: 63, MeanFitness: 56.9},
	}
	out := filepath.Join(t.TempDir(), "nested", "fitness.png")
	if err := RenderFitnessPlot(history, out); err != nil {
		t.Fatalf("render plot: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read plot: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("expected png header, got %q", data[:min(8, len(data))])
	}
}

func TestRenderFitnessPlotRejectsEmptyHistory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "fitness.png")
	err := RenderFitnessPlot(nil, out)
	if !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("expected ErrEmptyHistory, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("expected no plot file, stat err=%v", statErr)
	}
}
