package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"onemax/internal/model"
)

const (
	runIndexFile        = "run_index.json"
	configFile          = "config.json"
	generationStatsFile = "generation_stats.json"
	generationStatsCSV  = "generation_stats.csv"
	summaryFile         = "summary.json"
	// PlotFile is the default chart written next to the run artifacts.
	PlotFile = "fitness.png"
)

type RunSummary struct {
	RunID        string `json:"run_id"`
	Generations  int    `json:"generations"`
	Reason       string `json:"reason"`
	BestFitness  int    `json:"best_fitness"`
	BestGenes    []int  `json:"best_genes"`
	CreatedAtUTC string `json:"created_at_utc"`
}

type RunArtifacts struct {
	RunID   string                  `json:"run_id"`
	Config  model.RunConfig         `json:"config"`
	Stats   []model.GenerationStats `json:"stats"`
	Summary RunSummary              `json:"summary"`
}

type RunIndexEntry struct {
	RunID          string `json:"run_id"`
	Seed           int64  `json:"seed"`
	GeneLength     int    `json:"gene_length"`
	PopulationSize int    `json:"population_size"`
	Generations    int    `json:"generations"`
	Reason         string `json:"reason"`
	BestFitness    int    `json:"best_fitness"`
	CreatedAtUTC   string `json:"created_at_utc"`
}

func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, configFile), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, generationStatsFile), artifacts.Stats); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, summaryFile), artifacts.Summary); err != nil {
		return "", err
	}
	if err := WriteGenerationStatsCSV(filepath.Join(runDir, generationStatsCSV), artifacts.Stats); err != nil {
		return "", err
	}
	return runDir, nil
}

// ReadGenerationStats loads generation_stats.json, falling back to the CSV
// copy when the JSON file is missing.
func ReadGenerationStats(baseDir, runID string) ([]model.GenerationStats, bool, error) {
	path := filepath.Join(baseDir, runID, generationStatsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, false, err
		}
		history, err := ReadGenerationStatsCSV(filepath.Join(baseDir, runID, generationStatsCSV))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, false, nil
			}
			return nil, false, err
		}
		return history, true, nil
	}

	var history []model.GenerationStats
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, false, err
	}
	return history, true, nil
}

func ReadRunConfig(baseDir, runID string) (model.RunConfig, bool, error) {
	path := filepath.Join(baseDir, runID, configFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.RunConfig{}, false, nil
		}
		return model.RunConfig{}, false, err
	}

	var cfg model.RunConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return model.RunConfig{}, false, err
	}
	return cfg, true, nil
}

// WriteGenerationStatsCSV writes one row per generation; best genes are
// rendered as a compact bit string.
func WriteGenerationStatsCSV(path string, history []model.GenerationStats) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"generation", "max_fitness", "mean_fitness", "best_genes"}); err != nil {
		return err
	}
	for _, s := range history {
		if err := writer.Write([]string{
			strconv.Itoa(s.Generation),
			strconv.Itoa(s.MaxFitness),
			strconv.FormatFloat(s.MeanFitness, 'f', -1, 64),
			bitString(s.BestGenes),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ReadGenerationStatsCSV(path string) ([]model.GenerationStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []model.GenerationStats{}, nil
		}
		return nil, err
	}
	if len(header) < 4 {
		return nil, fmt.Errorf("generation stats header must have 4 columns")
	}

	history := make([]model.GenerationStats, 0, 64)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 4 {
			return nil, fmt.Errorf("generation stats row must have 4 columns")
		}
		generation, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, err
		}
		maxFitness, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, err
		}
		mean, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, err
		}
		genes, err := parseBitString(record[3])
		if err != nil {
			return nil, err
		}
		history = append(history, model.GenerationStats{
			Generation:  generation,
			MaxFitness:  maxFitness,
			MeanFitness: mean,
			BestGenes:   genes,
		})
	}
	return history, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Prefer later appended entries for equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

// RemoveRunArtifacts deletes a run's directory and its index entry. It
// reports whether anything was removed.
func RemoveRunArtifacts(baseDir, runID string) (bool, error) {
	if runID == "" {
		return false, fmt.Errorf("run id is required")
	}

	removed := false
	runDir := filepath.Join(baseDir, runID)
	if _, err := os.Stat(runDir); err == nil {
		if err := os.RemoveAll(runDir); err != nil {
			return false, err
		}
		removed = true
	} else if !os.IsNotExist(err) {
		return false, err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return removed, err
	}
	kept := make([]RunIndexEntry, 0, len(index))
	for _, entry := range index {
		if entry.RunID != runID {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(index) {
		return removed, nil
	}
	// Back to append order on disk.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	if err := writeJSON(filepath.Join(baseDir, runIndexFile), kept); err != nil {
		return removed, err
	}
	return true, nil
}

// ResetRunIndex drops the run index. Per-run directories stay on disk.
func ResetRunIndex(baseDir string) error {
	err := os.Remove(filepath.Join(baseDir, runIndexFile))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	for _, file := range []string{configFile, generationStatsFile, generationStatsCSV, summaryFile} {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	plotPath := filepath.Join(src, PlotFile)
	if _, err := os.Stat(plotPath); err == nil {
		if err := copyFile(plotPath, filepath.Join(dst, PlotFile)); err != nil {
			return "", err
		}
	} else if !os.IsNotExist(err) {
		return "", err
	}
	return dst, nil
}

func bitString(bits []int) string {
	var b strings.Builder
	b.Grow(len(bits))
	for _, bit := range bits {
		if bit == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func parseBitString(s string) ([]int, error) {
	out := make([]int, 0, len(s))
	for i, r := range s {
		switch r {
		case '0':
			out = append(out, 0)
		case '1':
			out = append(out, 1)
		default:
			return nil, fmt.Errorf("invalid bit %q at %d", r, i)
		}
	}
	return out, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
