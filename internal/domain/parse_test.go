package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRawRow() RawRow {
	return RawRow{
		EventType:         "TSTM WIND",
		BeginDate:         "4/18/1999 0:00:00",
		Fatalities:        "2",
		Injuries:          "1",
		PropertyDamage:    "25",
		PropertyMagnitude: "K",
		CropDamage:        "0",
		CropMagnitude:     "",
		Line:              42,
	}
}

func TestParseRawRow(t *testing.T) {
	t.Run("typed fields resolved", func(t *testing.T) {
		result, err := ParseRawRow(validRawRow())

		require.NoError(t, err)
		assert.Equal(t, "TSTM WIND", result.EventType)
		assert.Equal(t, 1999, result.Year)
		assert.Equal(t, 2, result.Fatalities)
		assert.Equal(t, 1, result.Injuries)
		assert.Equal(t, 25.0, result.PropertyDamage)
		assert.Equal(t, "K", result.PropertyMagnitude)
		assert.Equal(t, 0.0, result.CropDamage)
		assert.Equal(t, "", result.CropMagnitude)
		assert.Equal(t, 42, result.Line)
	})

	t.Run("event type kept as recorded", func(t *testing.T) {
		row := validRawRow()
		row.EventType = "  Tstm Wind "

		result, err := ParseRawRow(row)

		require.NoError(t, err)
		assert.Equal(t, "  Tstm Wind ", result.EventType)
	})

	t.Run("empty counts and amounts read as zero", func(t *testing.T) {
		row := validRawRow()
		row.Fatalities = ""
		row.Injuries = ""
		row.PropertyDamage = ""
		row.CropDamage = ""

		result, err := ParseRawRow(row)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Fatalities)
		assert.Equal(t, 0, result.Injuries)
		assert.Equal(t, 0.0, result.PropertyDamage)
		assert.Equal(t, 0.0, result.CropDamage)
	})

	t.Run("count serialized as integral float", func(t *testing.T) {
		row := validRawRow()
		row.Fatalities = "2.0"

		result, err := ParseRawRow(row)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Fatalities)
	})

	t.Run("unparsable date", func(t *testing.T) {
		row := validRawRow()
		row.BeginDate = "notadate"

		_, err := ParseRawRow(row)

		var malformed *MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, 42, malformed.Line)
		assert.Equal(t, "BGN_DATE", malformed.Field)
		assert.Equal(t, "notadate", malformed.Value)
	})

	t.Run("non-numeric fatalities", func(t *testing.T) {
		row := validRawRow()
		row.Fatalities = "two"

		_, err := ParseRawRow(row)

		var malformed *MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "FATALITIES", malformed.Field)
	})

	t.Run("negative injuries", func(t *testing.T) {
		row := validRawRow()
		row.Injuries = "-1"

		_, err := ParseRawRow(row)

		var malformed *MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "INJURIES", malformed.Field)
	})

	t.Run("fractional fatalities", func(t *testing.T) {
		row := validRawRow()
		row.Fatalities = "1.5"

		_, err := ParseRawRow(row)

		var malformed *MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "FATALITIES", malformed.Field)
	})

	t.Run("non-numeric property damage", func(t *testing.T) {
		row := validRawRow()
		row.PropertyDamage = "12x"

		_, err := ParseRawRow(row)

		var malformed *MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "PROPDMG", malformed.Field)
	})

	t.Run("negative crop damage", func(t *testing.T) {
		row := validRawRow()
		row.CropDamage = "-5"

		_, err := ParseRawRow(row)

		var malformed *MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "CROPDMG", malformed.Field)
	})

	t.Run("magnitude codes never fail parsing", func(t *testing.T) {
		row := validRawRow()
		row.PropertyMagnitude = "+"
		row.CropMagnitude = "?"

		result, err := ParseRawRow(row)

		require.NoError(t, err)
		assert.Equal(t, "+", result.PropertyMagnitude)
		assert.Equal(t, "?", result.CropMagnitude)
	})

	t.Run("error message names row and field", func(t *testing.T) {
		row := validRawRow()
		row.Fatalities = "abc"

		_, err := ParseRawRow(row)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 42")
		assert.Contains(t, err.Error(), "FATALITIES")
	})
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name      string
		beginDate string
		expected  int
		wantErr   bool
	}{
		{"full timestamp", "4/18/1950 0:00:00", 1950, false},
		{"double digit components", "11/28/2011 14:30:00", 2011, false},
		{"date without clock", "1/1/1996", 1996, false},
		{"surrounding whitespace", " 6/9/1996 0:00:00 ", 1996, false},
		{"empty string", "", 0, true},
		{"no slashes", "2011", 0, true},
		{"missing component", "4/2011", 0, true},
		{"extra component", "1/2/3/4", 0, true},
		{"non-numeric year", "4/18/abcd 0:00:00", 0, true},
		{"zero year", "1/1/0", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, err := extractYear(tt.beginDate)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, year)
		})
	}
}

func TestHasImpact(t *testing.T) {
	tests := []struct {
		name     string
		rec      StormRecord
		expected bool
	}{
		{"all zero", StormRecord{}, false},
		{"fatalities only", StormRecord{Fatalities: 1}, true},
		{"injuries only", StormRecord{Injuries: 3}, true},
		{"property damage only", StormRecord{PropertyDamage: 0.5}, true},
		{"crop damage only", StormRecord{CropDamage: 10}, true},
		{"zero mantissa with magnitude code", StormRecord{PropertyMagnitude: "B"}, false},
		{"everything set", StormRecord{Fatalities: 1, Injuries: 2, PropertyDamage: 3, CropDamage: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.rec.HasImpact())
		})
	}
}
