// Package export writes report rankings to timestamped CSV and JSON files
// for downstream analysis. Filenames embed the generation time from the
// domain clock so repeated runs never clobber each other.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/frankjungdss/repdata-project2/internal/domain"
	"github.com/frankjungdss/repdata-project2/internal/report"
)

// csvHeader is the column layout shared by both ranking sections.
var csvHeader = []string{
	"section", "rank", "category", "label", "value", "share_pct",
	"fatalities", "injuries", "property_damage", "crop_damage",
}

// ToCSV writes both rankings to <dir>/<name>_<timestamp>.csv and returns the
// absolute path of the file created.
func ToCSV(rep *report.Report, name, dir string) (string, error) {
	path, err := generateFilename(name, dir, "csv")
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, sec := range []report.Section{rep.Casualties, rep.Damage} {
		for _, e := range sec.Entries {
			record := []string{
				sec.Metric,
				strconv.Itoa(e.Rank),
				e.Category,
				e.Label,
				strconv.FormatFloat(e.Value, 'f', -1, 64),
				strconv.FormatFloat(e.Share, 'f', 1, 64),
				strconv.Itoa(e.Fatalities),
				strconv.Itoa(e.Injuries),
				strconv.FormatFloat(e.PropertyDamage, 'f', -1, 64),
				strconv.FormatFloat(e.CropDamage, 'f', -1, 64),
			}
			if err := w.Write(record); err != nil {
				return "", fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv export: %w", err)
	}

	return filepath.Abs(path)
}

// ToJSON writes the whole report, stats and narrative included, to
// <dir>/<name>_<timestamp>.json and returns the absolute path.
func ToJSON(rep *report.Report, name, dir string) (string, error) {
	path, err := generateFilename(name, dir, "json")
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create json export: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return "", fmt.Errorf("encode json export: %w", err)
	}

	return filepath.Abs(path)
}

// generateFilename builds <dir>/<base>_<timestamp>.<ext>, creating dir if
// needed. An empty dir means the current working directory.
func generateFilename(base, dir, ext string) (string, error) {
	if base == "" {
		base = "storm_report"
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", dir, err)
	}
	timestamp := domain.Now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", base, timestamp, ext)), nil
}
