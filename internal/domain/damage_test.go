package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagnitudeExponent(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
		ok       bool
	}{
		{"empty code", "", 0, true},
		{"thousands", "K", 3, true},
		{"thousands lowercase", "k", 3, true},
		{"millions", "M", 6, true},
		{"millions lowercase", "m", 6, true},
		{"billions", "B", 9, true},
		{"billions lowercase", "b", 9, true},
		{"surrounding whitespace", " K ", 3, true},
		{"digit code", "0", 0, false},
		{"digit code five", "5", 0, false},
		{"plus sign", "+", 0, false},
		{"minus sign", "-", 0, false},
		{"question mark", "?", 0, false},
		{"legacy hundreds", "H", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, ok := MagnitudeExponent(tt.code)
			assert.Equal(t, tt.expected, exp)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNormalizeDamage(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		code     string
		expected float64
		ok       bool
	}{
		{"unit dollars", 42, "", 42, true},
		{"thousands", 25, "K", 25000, true},
		{"thousands lowercase", 5, "k", 5000, true},
		{"millions", 7, "M", 7000000, true},
		{"billions", 1.55, "B", 1550000000, true},
		{"zero amount", 0, "K", 0, true},
		{"unrecognized keeps unit multiplier", 10, "+", 10, false},
		{"unrecognized digit code", 3, "0", 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usd, ok := NormalizeDamage(tt.amount, tt.code)
			assert.Equal(t, tt.expected, usd)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNormalizeRecord(t *testing.T) {
	fixedTime := time.Date(2011, 11, 27, 8, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	t.Run("recognized codes produce no anomalies", func(t *testing.T) {
		rec := StormRecord{
			EventType:         "TSTM WIND",
			Year:              1999,
			Fatalities:        2,
			Injuries:          1,
			PropertyDamage:    25,
			PropertyMagnitude: "K",
			CropDamage:        5,
			CropMagnitude:     "M",
			Line:              12,
		}

		result, anomalies := NormalizeRecord(rec)

		assert.Empty(t, anomalies)
		assert.Equal(t, "THUNDERSTORM WIND", result.CanonicalEventType)
		assert.Equal(t, 1999, result.Year)
		assert.Equal(t, 2, result.Fatalities)
		assert.Equal(t, 1, result.Injuries)
		assert.Equal(t, 3, result.Casualties)
		assert.Equal(t, 25000.0, result.PropertyDamage)
		assert.Equal(t, 5000000.0, result.CropDamage)
		assert.Equal(t, 5025000.0, result.Damage)
	})

	t.Run("unrecognized property code", func(t *testing.T) {
		rec := StormRecord{
			EventType:         "FLOOD",
			Year:              2005,
			PropertyDamage:    10,
			PropertyMagnitude: "+",
			CropDamage:        2,
			CropMagnitude:     "K",
			Line:              77,
		}

		result, anomalies := NormalizeRecord(rec)

		require.Len(t, anomalies, 1)
		anomaly := anomalies[0]
		assert.Equal(t, 77, anomaly.Line)
		assert.Equal(t, "FLOOD", anomaly.Category)
		assert.Equal(t, FieldPropertyDamage, anomaly.Field)
		assert.Equal(t, "+", anomaly.Code)
		assert.Equal(t, 10.0, anomaly.Amount)
		assert.Equal(t, fixedTime, anomaly.ObservedAt)

		// The amount is kept with a unit multiplier, not dropped.
		assert.Equal(t, 10.0, result.PropertyDamage)
		assert.Equal(t, 2000.0, result.CropDamage)
		assert.Equal(t, 2010.0, result.Damage)
	})

	t.Run("both codes unrecognized", func(t *testing.T) {
		rec := StormRecord{
			EventType:         "HAIL",
			Year:              2001,
			PropertyDamage:    4,
			PropertyMagnitude: "5",
			CropDamage:        6,
			CropMagnitude:     "?",
			Line:              9,
		}

		_, anomalies := NormalizeRecord(rec)

		require.Len(t, anomalies, 2)
		assert.Equal(t, FieldPropertyDamage, anomalies[0].Field)
		assert.Equal(t, "5", anomalies[0].Code)
		assert.Equal(t, FieldCropDamage, anomalies[1].Field)
		assert.Equal(t, "?", anomalies[1].Code)
	})

	t.Run("anomaly carries canonical category", func(t *testing.T) {
		rec := StormRecord{
			EventType:         "RIVER FLOOD",
			Year:              1998,
			PropertyDamage:    1,
			PropertyMagnitude: "-",
			Line:              3,
		}

		_, anomalies := NormalizeRecord(rec)

		require.Len(t, anomalies, 1)
		assert.Equal(t, "FLOOD", anomalies[0].Category)
	})
}

func TestSetClock(t *testing.T) {
	t.Run("set custom clock", func(t *testing.T) {
		fixedTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		SetClock(clockwork.NewFakeClockAt(fixedTime))

		assert.Equal(t, fixedTime, Now())

		SetClock(nil) // reset
	})

	t.Run("reset to real clock", func(t *testing.T) {
		fixedTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		SetClock(clockwork.NewFakeClockAt(fixedTime))
		SetClock(nil)

		// Real clock should return current time (within a small window)
		assert.True(t, time.Since(Now()) < time.Second)
	})
}
