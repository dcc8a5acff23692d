package catalog

import (
	"sort"
	"time"

	"tourcatalog/internal/domain"
)

// DateRange bounds calendar navigation. Min and Max are nil when no record
// carries a parseable date; callers must then disable navigation entirely.
type DateRange struct {
	Years []int      `json:"years"`
	Min   *time.Time `json:"min_date"`
	Max   *time.Time `json:"max_date"`
}

// AnalyzeDates collects the distinct years and the earliest/latest dates of
// records, parsed at midnight in loc. Unparseable dates are skipped.
func AnalyzeDates(records []domain.RawTourRecord, loc *time.Location) DateRange {
	years := make(map[int]struct{})
	var rng DateRange
	for _, rec := range records {
		d, ok := ParseDate(rec.Date, loc)
		if !ok {
			continue
		}
		years[d.Year()] = struct{}{}
		if rng.Min == nil || d.Before(*rng.Min) {
			d := d
			rng.Min = &d
		}
		if rng.Max == nil || d.After(*rng.Max) {
			d := d
			rng.Max = &d
		}
	}
	rng.Years = make([]int, 0, len(years))
	for y := range years {
		rng.Years = append(rng.Years, y)
	}
	sort.Ints(rng.Years)
	return rng
}

// HasData reports whether any date was parsed.
func (r DateRange) HasData() bool { return r.Min != nil && r.Max != nil }

// OrDefaultYear returns r with Years set to [now.Year()] when it is empty.
func (r DateRange) OrDefaultYear(now time.Time) DateRange {
	if len(r.Years) == 0 {
		r.Years = []int{now.Year()}
	}
	return r
}

// CanPrev reports whether a month before month still holds data.
func (r DateRange) CanPrev(month time.Time) bool {
	if r.Min == nil {
		return false
	}
	return monthStart(month).After(sameMonthIn(*r.Min, month.Location()))
}

// CanNext reports whether a month after month still holds data.
func (r DateRange) CanNext(month time.Time) bool {
	if r.Max == nil {
		return false
	}
	return monthStart(month).Before(sameMonthIn(*r.Max, month.Location()))
}

// sameMonthIn keeps t's calendar year and month but places the first of that
// month in loc.
func sameMonthIn(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

func containsYear(years []int, y int) bool {
	for _, v := range years {
		if v == y {
			return true
		}
	}
	return false
}
