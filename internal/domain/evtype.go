package domain

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// eventTypeRule is one substitution step of the category normalizer. The
// pattern is applied with ReplaceAllString, so unanchored patterns behave as
// substring substitutions and ^...$ patterns as whole-string rewrites.
type eventTypeRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// eventTypeRules is an ordered pipeline, not a lookup table. Later rules see
// the output of earlier ones; several depend on that. TSTM must expand before
// the THUNDERSTORM prefix collapse, the wind prefix rules must run before the
// generic WINDS singularization, and WINTRY MIX must rewrite before the
// WINTER WEATHER prefix collapse. Reordering changes results.
var eventTypeRules = []eventTypeRule{
	{regexp.MustCompile(`TSTM`), "THUNDERSTORM"},
	{regexp.MustCompile(`^THUNDERSTORM.*`), "THUNDERSTORM WIND"},
	{regexp.MustCompile(`.*HURRICANE.*`), "HURRICANE (TYPHOON)"},
	{regexp.MustCompile(`^TYPHOON.*`), "HURRICANE (TYPHOON)"},
	{regexp.MustCompile(`^STORM SURGE.*`), "STORM SURGE/TIDE"},
	{regexp.MustCompile(`CSTL`), "COASTAL"},
	{regexp.MustCompile(`^EXTREME COLD.*`), "EXTREME COLD/WIND CHILL"},
	{regexp.MustCompile(`^TIDAL FLOODING$`), "COASTAL FLOOD"},
	{regexp.MustCompile(`.*COASTAL FLOOD.*`), "COASTAL FLOOD"},
	{regexp.MustCompile(`COASTALSTORM`), "COASTAL STORM"},
	{regexp.MustCompile(`^RIVER FLOOD.*`), "FLOOD"},
	{regexp.MustCompile(`^ICE JAM FLOOD.*`), "FLOOD"},
	{regexp.MustCompile(`.*FLASH.*FLOOD.*`), "FLASH FLOOD"},
	{regexp.MustCompile(`^GUSTY WIND.*`), "STRONG WIND"},
	{regexp.MustCompile(`NON[- ]THUNDERSTORM WIND`), "STRONG WIND"},
	{regexp.MustCompile(`^HIGH WIND.*`), "HIGH WIND"},
	{regexp.MustCompile(`^WIND.*`), "HIGH WIND"},
	{regexp.MustCompile(`WINDS`), "WIND"},
	{regexp.MustCompile(`^FOG.*`), "DENSE FOG"},
	{regexp.MustCompile(`AVALANCE`), "AVALANCHE"},
	{regexp.MustCompile(`MUD.*SLIDE.*`), "AVALANCHE"},
	{regexp.MustCompile(`WILD.* FIRE`), "WILDFIRE"},
	{regexp.MustCompile(`RIP CURRENTS`), "RIP CURRENT"},
	{regexp.MustCompile(`URBAN/SML STREAM FLD`), "FLASH FLOOD"},
	{regexp.MustCompile(`^WINTRY MIX.*`), "WINTER WEATHER"},
	{regexp.MustCompile(`^WINTER WEATHER.*`), "WINTER WEATHER"},
}

// NormalizeEventType maps a free-text EVTYPE label to its canonical
// uppercase category key. The upstream field is hand-keyed and accumulated
// close to a thousand distinct spellings of the ~48 official event types;
// this folds the high-impact variants (thunderstorm, hurricane, flood, wind,
// winter labels and a handful of known typos) onto official names.
//
// The function is deterministic and idempotent: canonical labels pass
// through unchanged, so re-normalizing is safe. Labels no rule matches are
// returned uppercased and trimmed rather than rejected; an unrecognized
// label still identifies a real event category, just a rare one.
func NormalizeEventType(label string) string {
	s := strings.ToUpper(strings.TrimSpace(label))
	for _, rule := range eventTypeRules {
		s = rule.pattern.ReplaceAllString(s, rule.replacement)
	}
	return s
}

// DisplayLabel renders a canonical category key for human-facing output,
// e.g. "HURRICANE (TYPHOON)" becomes "Hurricane (Typhoon)". Only rendering
// may use this form; aggregation and ranking always key on the uppercase
// canonical label.
func DisplayLabel(canonical string) string {
	return cases.Title(language.AmericanEnglish).String(canonical)
}
