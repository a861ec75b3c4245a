// Package domain models NOAA Storm Events records and the transforms that
// make them comparable across five decades of inconsistent data entry.
//
// # Data Source
//
// Records come from the NOAA National Climatic Data Center storm database
// (StormData.csv), which tracks significant weather events in the United
// States from 1950 onward: when and where they occur, plus estimates of
// fatalities, injuries, and property and crop damage. Only a handful of the
// file's 37 columns matter here; see [RawRow] for the projection.
//
// # Event Type Labels
//
// EVTYPE is free text. The data dictionary defines 48 official event types,
// but decades of hand keying accumulated close to a thousand distinct
// spellings: "TSTM WIND", "THUNDERSTORM WINDS", "THUNDERSTORM WINDSS",
// "TUNDERSTORM WIND" all describe the same thing. [NormalizeEventType] folds
// the high-impact variants onto official names through an ordered list of
// substitutions. Canonical keys are uppercase; [DisplayLabel] produces the
// title-cased form for rendering only.
//
// # Damage Encoding
//
// Damage estimates are split across two columns: a mantissa (PROPDMG,
// CROPDMG) and a magnitude code (PROPDMGEXP, CROPDMGEXP). The documented
// codes are:
//
//	""  →  10^0  (dollars)
//	K   →  10^3  (thousands)
//	M   →  10^6  (millions)
//	B   →  10^9  (billions)
//
// matched case-insensitively. The columns also carry undocumented values
// ("0"–"8", "+", "-", "?", "H") left over from early data entry. Rows with
// such codes still hold real casualty counts, so they are kept: the amount
// is expanded with a unit multiplier (exponent 0) and a [MagnitudeAnomaly]
// is emitted so the run output discloses how much value that policy touched.
//
// # Year Cutoff
//
// Before 1996 the database tracked only a subset of event types (tornado
// from 1950; thunderstorm wind and hail from 1955). All 48 official types
// are recorded from January 1996 onward, so cross-category comparisons
// default to 1996 as the lower bound. Earlier years overweight whatever was
// being recorded at the time, not what actually caused harm.
//
// # Casualties
//
// A casualty is a fatality or an injury; the two counts are summed for the
// population-health ranking and also reported separately. Economic damage is
// the sum of expanded property and crop damage in absolute USD.
package domain
