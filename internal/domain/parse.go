package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	errBadDate    = errors.New("date is not of the form M/D/YYYY H:MM:SS")
	errBadYear    = errors.New("year is not a positive integer")
	errNegative   = errors.New("negative value")
	errNotInteger = errors.New("not an integer")
	errNotNumeric = errors.New("not numeric")
	errNonFinite  = errors.New("not a finite number")
)

// ParseRawRow resolves a raw CSV row into its typed form. Empty count and
// amount fields read as zero, matching how the upstream file records "no
// measurement". Anything else that fails to parse, and any negative count or
// amount, returns a *MalformedRecordError naming the row, field, and value.
// Magnitude codes are not validated here; that is the damage normalizer's
// concern and is a diagnostic, not an error.
func ParseRawRow(row RawRow) (StormRecord, error) {
	year, err := extractYear(row.BeginDate)
	if err != nil {
		return StormRecord{}, &MalformedRecordError{Line: row.Line, Field: "BGN_DATE", Value: row.BeginDate, Err: err}
	}
	fatalities, err := parseCount(row.Fatalities)
	if err != nil {
		return StormRecord{}, &MalformedRecordError{Line: row.Line, Field: "FATALITIES", Value: row.Fatalities, Err: err}
	}
	injuries, err := parseCount(row.Injuries)
	if err != nil {
		return StormRecord{}, &MalformedRecordError{Line: row.Line, Field: "INJURIES", Value: row.Injuries, Err: err}
	}
	property, err := parseAmount(row.PropertyDamage)
	if err != nil {
		return StormRecord{}, &MalformedRecordError{Line: row.Line, Field: "PROPDMG", Value: row.PropertyDamage, Err: err}
	}
	crop, err := parseAmount(row.CropDamage)
	if err != nil {
		return StormRecord{}, &MalformedRecordError{Line: row.Line, Field: "CROPDMG", Value: row.CropDamage, Err: err}
	}

	return StormRecord{
		EventType:         row.EventType,
		Year:              year,
		Fatalities:        fatalities,
		Injuries:          injuries,
		PropertyDamage:    property,
		PropertyMagnitude: row.PropertyMagnitude,
		CropDamage:        crop,
		CropMagnitude:     row.CropMagnitude,
		Line:              row.Line,
	}, nil
}

// extractYear pulls the year out of a BGN_DATE value such as
// "4/18/1950 0:00:00". Nothing downstream uses month, day, or clock, so only
// the third slash-separated token of the date part is resolved. The clock
// part is optional; some extracts omit it.
func extractYear(beginDate string) (int, error) {
	datePart := strings.TrimSpace(beginDate)
	if i := strings.IndexByte(datePart, ' '); i >= 0 {
		datePart = datePart[:i]
	}
	parts := strings.Split(datePart, "/")
	if len(parts) != 3 {
		return 0, errBadDate
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil || year <= 0 {
		return 0, errBadYear
	}
	return year, nil
}

// parseCount reads a fatality or injury count. The source serializes counts
// as integers but has passed through spreadsheet round-trips that render
// them as "2.0", so integral floats are accepted too.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errNotNumeric
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNonFinite
	}
	if f < 0 {
		return 0, errNegative
	}
	if f != math.Trunc(f) {
		return 0, errNotInteger
	}
	return int(f), nil
}

// parseAmount reads a damage mantissa (PROPDMG or CROPDMG).
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errNotNumeric
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNonFinite
	}
	if f < 0 {
		return 0, errNegative
	}
	return f, nil
}
