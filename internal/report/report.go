// Package report turns a pipeline result into the presentable shape shared
// by the console renderer and the file exporters: ranked sections with
// display labels and shares, summary statistics, and narrative paragraphs.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/frankjungdss/repdata-project2/internal/domain"
	"github.com/frankjungdss/repdata-project2/internal/pipeline"
)

// DefaultTopN is how many categories each ranking section carries when the
// caller does not say otherwise.
const DefaultTopN = 20

// Entry is one ranked category within a section.
type Entry struct {
	Rank           int     `json:"rank"`
	Category       string  `json:"category"` // canonical uppercase key
	Label          string  `json:"label"`    // title-cased display form
	Value          float64 `json:"value"`    // the section's metric
	Share          float64 `json:"share"`    // percent of the metric's grand total
	Fatalities     int     `json:"fatalities"`
	Injuries       int     `json:"injuries"`
	PropertyDamage float64 `json:"property_damage"`
	CropDamage     float64 `json:"crop_damage"`
}

// Section is one ranking: the top-N categories for a single metric, plus
// summary statistics over every category, not just the displayed ones.
type Section struct {
	Title   string  `json:"title"`
	Metric  string  `json:"metric"` // "casualties" or "damage"
	Total   float64 `json:"total"`  // metric summed over all categories
	Mean    float64 `json:"mean"`   // per-category mean
	Median  float64 `json:"median"` // per-category median
	Entries []Entry `json:"entries"`
}

// AnomalyGroup counts magnitude anomalies sharing one raw code.
type AnomalyGroup struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// Report is the complete presentable outcome of a run.
type Report struct {
	GeneratedAt time.Time         `json:"generated_at"`
	FromYear    int               `json:"from_year"`
	ToYear      int               `json:"to_year"`
	TopN        int               `json:"top_n"`
	Stats       pipeline.RunStats `json:"stats"`
	Casualties  Section           `json:"casualties"`
	Damage      Section           `json:"damage"`
	Anomalies   []AnomalyGroup    `json:"anomalies,omitempty"`
	Narrative   []string          `json:"narrative"`
}

// Build assembles a Report from a pipeline result. topN <= 0 selects
// DefaultTopN. An empty result produces a valid report with empty sections
// and a narrative saying so; callers never need to special-case it.
func Build(result *pipeline.Result, topN int) *Report {
	if topN <= 0 {
		topN = DefaultTopN
	}

	rep := &Report{
		GeneratedAt: domain.Now(),
		FromYear:    result.FromYear,
		ToYear:      result.ToYear,
		TopN:        topN,
		Stats:       result.Stats,
		Casualties: buildSection("Casualties by Event Type", "casualties", result.ByCasualties, topN,
			func(t domain.CategoryTotals) float64 { return float64(t.Casualties) }),
		Damage: buildSection("Economic Damage by Event Type", "damage", result.ByDamage, topN,
			func(t domain.CategoryTotals) float64 { return t.Damage }),
		Anomalies: groupAnomalies(result.Anomalies),
	}
	rep.Narrative = buildNarrative(result, rep)
	return rep
}

func buildSection(title, metric string, ranking pipeline.Ranking, topN int, value func(domain.CategoryTotals) float64) Section {
	sec := Section{Title: title, Metric: metric}

	values := make(stats.Float64Data, 0, len(ranking))
	for _, totals := range ranking {
		v := value(totals)
		sec.Total += v
		values = append(values, v)
	}
	if len(values) > 0 {
		// Mean and Median only error on empty input, which is guarded.
		sec.Mean, _ = stats.Mean(values)
		sec.Median, _ = stats.Median(values)
	}

	for i, totals := range ranking.Top(topN) {
		v := value(totals)
		share := 0.0
		if sec.Total > 0 {
			share = v / sec.Total * 100
		}
		sec.Entries = append(sec.Entries, Entry{
			Rank:           i + 1,
			Category:       totals.Category,
			Label:          domain.DisplayLabel(totals.Category),
			Value:          v,
			Share:          share,
			Fatalities:     totals.Fatalities,
			Injuries:       totals.Injuries,
			PropertyDamage: totals.PropertyDamage,
			CropDamage:     totals.CropDamage,
		})
	}
	return sec
}

// groupAnomalies collapses per-record anomalies into per-code counts,
// largest group first, ties by code for stable output.
func groupAnomalies(anomalies []domain.MagnitudeAnomaly) []AnomalyGroup {
	if len(anomalies) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, a := range anomalies {
		counts[a.Code]++
	}
	groups := make([]AnomalyGroup, 0, len(counts))
	for code, n := range counts {
		groups = append(groups, AnomalyGroup{Code: code, Count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Code < groups[j].Code
	})
	return groups
}

func buildNarrative(result *pipeline.Result, rep *Report) []string {
	if result.Stats.Normalized == 0 {
		return []string{fmt.Sprintf(
			"No storm records with measurable impact were found between %d and %d. "+
				"Of %d rows read, %d fell outside the year range, %d recorded no "+
				"fatalities, injuries, or damage, and %d were malformed.",
			result.FromYear, result.ToYear,
			result.Stats.RowsRead, result.Stats.FilteredByYear,
			result.Stats.FilteredNoImpact, result.Stats.Malformed,
		)}
	}

	paragraphs := []string{fmt.Sprintf(
		"Between %d and %d, %d storm events with measurable human or economic "+
			"impact were recorded across %d event categories.",
		result.FromYear, result.ToYear, result.Stats.Normalized, result.Stats.Categories,
	)}

	if top := rep.Casualties.Entries; len(top) > 0 {
		e := top[0]
		paragraphs = append(paragraphs, fmt.Sprintf(
			"%s caused the most harm to population health: %.0f casualties "+
				"(%d fatalities, %d injuries), %.1f%% of all casualties. The "+
				"average event category accounted for %.0f casualties (median %.0f).",
			e.Label, e.Value, e.Fatalities, e.Injuries, e.Share,
			rep.Casualties.Mean, rep.Casualties.Median,
		))
	}

	if top := rep.Damage.Entries; len(top) > 0 {
		e := top[0]
		paragraphs = append(paragraphs, fmt.Sprintf(
			"%s had the greatest economic consequences: %s in damage (%s to "+
				"property, %s to crops), %.1f%% of the %s total.",
			e.Label, FormatUSD(e.Value), FormatUSD(e.PropertyDamage),
			FormatUSD(e.CropDamage), e.Share, FormatUSD(rep.Damage.Total),
		))
	}

	if result.Stats.Malformed > 0 || result.Stats.Anomalies > 0 {
		paragraphs = append(paragraphs, fmt.Sprintf(
			"Data quality: %d rows were skipped as malformed, and %d damage "+
				"fields carried an unrecognized magnitude code and were "+
				"aggregated with a unit multiplier.",
			result.Stats.Malformed, result.Stats.Anomalies,
		))
	}

	return paragraphs
}

// FormatUSD renders a dollar amount at a human scale, e.g. "$115.4 billion"
// or "$85,000". Amounts below a thousand keep their cents only when present.
func FormatUSD(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1f billion", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1f million", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%s", groupThousands(v))
	case v == 0:
		return "$0"
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// groupThousands renders a non-negative amount under a billion with comma
// separators, dropping fractional cents at this scale.
func groupThousands(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
