// Package console renders a report to a terminal using pterm tables and
// scaled bar charts. All output goes through an io.Writer so tests can
// capture it; nothing here computes, it only presents.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/frankjungdss/repdata-project2/internal/report"
)

// barWidth is the length of a full-scale bar in characters.
const barWidth = 40

var (
	emphasis = color.New(color.FgCyan, color.Bold).SprintFunc()
	dollar   = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// counts renders integers with US thousands separators.
var counts = message.NewPrinter(language.AmericanEnglish)

// Renderer writes a formatted report to out.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a console renderer. When noColor is set, pterm and
// ANSI color output are disabled globally, which also honors NO_COLOR
// environments and piped output.
func NewRenderer(out io.Writer, noColor bool) *Renderer {
	if noColor {
		pterm.DisableColor()
		color.NoColor = true
	}
	return &Renderer{out: out}
}

// Render writes the full report: header, run summary, both ranking sections
// with bar charts, narrative paragraphs, and the anomaly listing.
func (r *Renderer) Render(rep *report.Report) error {
	header := pterm.DefaultSection.Sprintf(
		"Storm Event Impact %d-%d", rep.FromYear, rep.ToYear)
	if _, err := fmt.Fprint(r.out, header); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if err := r.renderSummary(rep); err != nil {
		return err
	}
	if err := r.renderSection(rep.Casualties, formatCount); err != nil {
		return err
	}
	if err := r.renderSection(rep.Damage, formatDollars); err != nil {
		return err
	}
	r.renderNarrative(rep)
	r.renderAnomalies(rep)
	return nil
}

func (r *Renderer) renderSummary(rep *report.Report) error {
	data := pterm.TableData{
		{"Rows Read", "Malformed", "Outside Years", "No Impact", "Analyzed", "Categories"},
		{
			counts.Sprintf("%d", rep.Stats.RowsRead),
			counts.Sprintf("%d", rep.Stats.Malformed),
			counts.Sprintf("%d", rep.Stats.FilteredByYear),
			counts.Sprintf("%d", rep.Stats.FilteredNoImpact),
			counts.Sprintf("%d", rep.Stats.Normalized),
			counts.Sprintf("%d", rep.Stats.Categories),
		},
	}
	rendered, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	if err != nil {
		return fmt.Errorf("render summary table: %w", err)
	}
	fmt.Fprintln(r.out, rendered)
	return nil
}

func (r *Renderer) renderSection(sec report.Section, format func(float64) string) error {
	fmt.Fprint(r.out, pterm.DefaultSection.WithLevel(2).Sprint(sec.Title))

	if len(sec.Entries) == 0 {
		fmt.Fprintln(r.out, pterm.Warning.Sprint("No categories to display."))
		return nil
	}

	max := sec.Entries[0].Value
	data := pterm.TableData{{"#", "Event Type", metricHeader(sec.Metric), "", "Share"}}
	for _, e := range sec.Entries {
		bar := strings.Repeat("█", BarLength(e.Value, max, barWidth))
		data = append(data, []string{
			fmt.Sprintf("%d", e.Rank),
			e.Label,
			format(e.Value),
			pterm.FgBlue.Sprint(bar),
			fmt.Sprintf("%.1f%%", e.Share),
		})
	}

	rendered, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	if err != nil {
		return fmt.Errorf("render %s table: %w", sec.Metric, err)
	}
	fmt.Fprintln(r.out, rendered)
	return nil
}

func (r *Renderer) renderNarrative(rep *report.Report) {
	fmt.Fprint(r.out, pterm.DefaultSection.WithLevel(2).Sprint("Summary"))
	for _, paragraph := range rep.Narrative {
		fmt.Fprintln(r.out, paragraph)
		fmt.Fprintln(r.out)
	}
}

func (r *Renderer) renderAnomalies(rep *report.Report) {
	if len(rep.Anomalies) == 0 {
		return
	}
	fmt.Fprint(r.out, pterm.DefaultSection.WithLevel(2).Sprint("Data Quality"))
	for _, group := range rep.Anomalies {
		fmt.Fprintln(r.out, pterm.Warning.Sprintf(
			"magnitude code %q on %d damage field(s), treated as exponent 0",
			group.Code, group.Count))
	}
}

// BarLength scales value against max onto a bar of at most width characters.
// The maximum value fills the bar; a zero or negative max draws nothing,
// which keeps an all-zero ranking from dividing by zero.
func BarLength(value, max float64, width int) int {
	if max <= 0 || value <= 0 {
		return 0
	}
	n := int(value / max * float64(width))
	if n > width {
		n = width
	}
	return n
}

func metricHeader(metric string) string {
	switch metric {
	case "casualties":
		return "Casualties"
	case "damage":
		return "Damage (USD)"
	default:
		return metric
	}
}

func formatCount(v float64) string {
	return emphasis(counts.Sprintf("%d", int64(v)))
}

func formatDollars(v float64) string {
	return dollar(report.FormatUSD(v))
}
