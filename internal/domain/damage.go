package domain

import (
	"math"
	"strings"
)

// Damage field names carried on magnitude anomalies.
const (
	FieldPropertyDamage = "property"
	FieldCropDamage     = "crop"
)

// MagnitudeExponent resolves a damage magnitude code to its base-10
// exponent. The documented codes are empty (1x), K (thousands), M (millions)
// and B (billions), matched case-insensitively. Every other code observed in
// the data (digits, '+', '-', '?', 'H') is undocumented; for those the
// exponent is 0 and ok is false so the caller can record an anomaly.
func MagnitudeExponent(code string) (exp int, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "":
		return 0, true
	case "K":
		return 3, true
	case "M":
		return 6, true
	case "B":
		return 9, true
	default:
		return 0, false
	}
}

// NormalizeDamage expands a mantissa/magnitude-code pair into an absolute
// USD amount. Unrecognized codes apply a unit multiplier rather than
// dropping the row; ok is false in that case so the caller can emit a
// MagnitudeAnomaly. Dropping rows over a junk exponent code would discard
// real fatalities and injuries recorded on the same row.
func NormalizeDamage(amount float64, code string) (usd float64, ok bool) {
	exp, ok := MagnitudeExponent(code)
	return amount * math.Pow10(exp), ok
}

// NormalizeRecord resolves a storm record into its normalized form:
// canonical category key, absolute damage amounts, and casualty total. It
// additionally returns one MagnitudeAnomaly per damage field whose code was
// unrecognized, at most two per record. Anomalies are diagnostics, not
// errors; the returned record is always usable.
func NormalizeRecord(rec StormRecord) (NormalizedRecord, []MagnitudeAnomaly) {
	canonical := NormalizeEventType(rec.EventType)

	var anomalies []MagnitudeAnomaly

	property, ok := NormalizeDamage(rec.PropertyDamage, rec.PropertyMagnitude)
	if !ok {
		anomalies = append(anomalies, newAnomaly(rec, canonical, FieldPropertyDamage, rec.PropertyMagnitude, rec.PropertyDamage))
	}
	crop, ok := NormalizeDamage(rec.CropDamage, rec.CropMagnitude)
	if !ok {
		anomalies = append(anomalies, newAnomaly(rec, canonical, FieldCropDamage, rec.CropMagnitude, rec.CropDamage))
	}

	return NormalizedRecord{
		CanonicalEventType: canonical,
		Year:               rec.Year,
		Fatalities:         rec.Fatalities,
		Injuries:           rec.Injuries,
		Casualties:         rec.Fatalities + rec.Injuries,
		PropertyDamage:     property,
		CropDamage:         crop,
		Damage:             property + crop,
	}, anomalies
}

func newAnomaly(rec StormRecord, canonical, field, code string, amount float64) MagnitudeAnomaly {
	return MagnitudeAnomaly{
		Line:       rec.Line,
		Category:   canonical,
		Field:      field,
		Code:       code,
		Amount:     amount,
		ObservedAt: Now(),
	}
}
