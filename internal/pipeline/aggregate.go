package pipeline

import (
	"sort"

	"github.com/frankjungdss/repdata-project2/internal/domain"
)

// Aggregator folds normalized records into per-category totals. Records
// arrive in file order but the fold is commutative, so totals do not depend
// on input order. Keys are canonical uppercase category labels.
type Aggregator struct {
	byCategory map[string]*domain.CategoryTotals
}

func NewAggregator() *Aggregator {
	return &Aggregator{byCategory: make(map[string]*domain.CategoryTotals)}
}

// Add folds one normalized record into its category bucket.
func (a *Aggregator) Add(rec domain.NormalizedRecord) {
	totals, ok := a.byCategory[rec.CanonicalEventType]
	if !ok {
		totals = &domain.CategoryTotals{Category: rec.CanonicalEventType}
		a.byCategory[rec.CanonicalEventType] = totals
	}
	totals.Records++
	totals.Fatalities += rec.Fatalities
	totals.Injuries += rec.Injuries
	totals.Casualties += rec.Casualties
	totals.PropertyDamage += rec.PropertyDamage
	totals.CropDamage += rec.CropDamage
	totals.Damage += rec.Damage
}

// Len reports the number of distinct categories seen so far.
func (a *Aggregator) Len() int {
	return len(a.byCategory)
}

// Totals returns a copy of every category's sums, ordered by category label
// so output is stable run to run.
func (a *Aggregator) Totals() []domain.CategoryTotals {
	out := make([]domain.CategoryTotals, 0, len(a.byCategory))
	for _, totals := range a.byCategory {
		out = append(out, *totals)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// RankByCasualties orders categories by combined fatalities and injuries,
// most harmful first. Ties break by category label ascending so equal-impact
// categories always render in the same order.
func (a *Aggregator) RankByCasualties() Ranking {
	ranked := Ranking(a.Totals())
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Casualties != ranked[j].Casualties {
			return ranked[i].Casualties > ranked[j].Casualties
		}
		return ranked[i].Category < ranked[j].Category
	})
	return ranked
}

// RankByDamage orders categories by combined property and crop damage in
// absolute USD, costliest first, with the same label tie-break.
func (a *Aggregator) RankByDamage() Ranking {
	ranked := Ranking(a.Totals())
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Damage != ranked[j].Damage {
			return ranked[i].Damage > ranked[j].Damage
		}
		return ranked[i].Category < ranked[j].Category
	})
	return ranked
}

// Ranking is an ordered view over category totals, most impactful first.
type Ranking []domain.CategoryTotals

// Top returns a copy of the first n entries. Asking for more than exist
// returns everything; n <= 0 returns nothing. Never an error: an empty
// ranking is a valid answer for an empty dataset.
func (r Ranking) Top(n int) []domain.CategoryTotals {
	if n <= 0 {
		return nil
	}
	if n > len(r) {
		n = len(r)
	}
	out := make([]domain.CategoryTotals, n)
	copy(out, r[:n])
	return out
}
