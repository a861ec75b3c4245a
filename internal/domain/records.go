package domain

import "time"

// RawRow is the untyped projection of one data row from the storm-events
// CSV, keyed by the upstream column names. Every field is kept as the string
// the file carried; typing happens in ParseRawRow so that bad values surface
// as MalformedRecordError instead of silently skewing totals.
type RawRow struct {
	EventType         string // EVTYPE
	BeginDate         string // BGN_DATE, "M/D/YYYY H:MM:SS"
	Fatalities        string // FATALITIES
	Injuries          string // INJURIES
	PropertyDamage    string // PROPDMG
	PropertyMagnitude string // PROPDMGEXP
	CropDamage        string // CROPDMG
	CropMagnitude     string // CROPDMGEXP

	// Line is the 1-based data-row number within the source file. It is the
	// record identity carried through diagnostics.
	Line int
}

// StormRecord is the typed projection of a raw row. EventType stays exactly
// as recorded (case and whitespace included); Year is the only component of
// BGN_DATE used downstream. Damage fields keep the mantissa/magnitude-code
// split from the source until the damage normalizer resolves them.
type StormRecord struct {
	EventType         string
	Year              int
	Fatalities        int
	Injuries          int
	PropertyDamage    float64
	PropertyMagnitude string
	CropDamage        float64
	CropMagnitude     string
	Line              int
}

// HasImpact reports whether the record carries any measurable harm. Records
// with zero fatalities, injuries, property damage, and crop damage are noise
// for impact analysis and are dropped by the filter stage. The check uses the
// raw mantissas: a zero mantissa is zero under every magnitude code.
func (r StormRecord) HasImpact() bool {
	return r.Fatalities != 0 || r.Injuries != 0 || r.PropertyDamage != 0 || r.CropDamage != 0
}

// NormalizedRecord is the fully resolved form of a storm record: canonical
// category key, absolute USD damage amounts, and derived casualty total.
// It is produced once per record and never mutated.
type NormalizedRecord struct {
	CanonicalEventType string
	Year               int
	Fatalities         int
	Injuries           int
	Casualties         int
	PropertyDamage     float64
	CropDamage         float64
	Damage             float64
}

// CategoryTotals holds the sums for one canonical event-type category.
// Category is the uppercase canonical key, never the title-cased display
// form, so that aggregation stays case-exact.
type CategoryTotals struct {
	Category       string  `json:"category"`
	Records        int     `json:"records"`
	Fatalities     int     `json:"fatalities"`
	Injuries       int     `json:"injuries"`
	Casualties     int     `json:"casualties"`
	PropertyDamage float64 `json:"property_damage"`
	CropDamage     float64 `json:"crop_damage"`
	Damage         float64 `json:"damage"`
}

// MagnitudeAnomaly is the diagnostic record emitted when a damage field
// carries a magnitude code outside the empty/K/M/B set. The amount is
// aggregated
// with a unit multiplier (exponent 0); the anomaly exists so callers can
// audit how much value that policy touched.
type MagnitudeAnomaly struct {
	Line       int       `json:"line"`
	Category   string    `json:"category"`
	Field      string    `json:"field"` // "property" or "crop"
	Code       string    `json:"code"`
	Amount     float64   `json:"amount"`
	ObservedAt time.Time `json:"observed_at"`
}
