package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"onemax/internal/model"
)

type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", raw)
	}
}

// Resolve picks text for terminals and JSON lines for everything else when
// the format is auto.
func Resolve(format Format, w io.Writer) Format {
	if format != FormatAuto {
		return format
	}
	if f, ok := w.(*os.File); ok {
		fd := f.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return FormatText
		}
	}
	return FormatJSON
}

// Console writes one report per generation. It satisfies evo.StatsSink.
type Console struct {
	w      io.Writer
	format Format
}

func NewConsole(w io.Writer, format Format) *Console {
	return &Console{w: w, format: Resolve(format, w)}
}

func (c *Console) Format() Format {
	return c.format
}

func (c *Console) Publish(_ context.Context, stats model.GenerationStats) error {
	if c.format == FormatJSON {
		return json.NewEncoder(c.w).Encode(generationLine{
			Generation:  stats.Generation,
			MaxFitness:  stats.MaxFitness,
			MeanFitness: stats.MeanFitness,
			Best:        FormatGenes(stats.BestGenes),
		})
	}
	_, err := fmt.Fprintf(c.w, "Generation %d: Max fitness = %d, Mean fitness = %.2f\nBest individual = %s\n",
		stats.Generation, stats.MaxFitness, stats.MeanFitness, FormatGenes(stats.BestGenes))
	return err
}

type generationLine struct {
	Generation  int     `json:"generation"`
	MaxFitness  int     `json:"max_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
	Best        string  `json:"best"`
}

// FormatGenes renders genes space separated, e.g. "1 0 1".
func FormatGenes(genes []int) string {
	parts := make([]string, len(genes))
	for i, g := range genes {
		parts[i] = strconv.Itoa(g)
	}
	return strings.Join(parts, " ")
}
