package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"tourcatalog/internal/domain"
)

// CalendarView is the navigation state of the date-driven browser. It is a
// value: every transition returns a new view.
type CalendarView struct {
	Month    time.Time // first day of the displayed month
	Selected string    // selected ISO date, "" for the whole month

	rng DateRange
}

// NewCalendarView opens on the current month when it has data, otherwise on
// January of the earliest year with data (or of now's year when there is none).
func NewCalendarView(rng DateRange, tours []domain.TourProduct, now time.Time) CalendarView {
	rng = rng.OrDefaultYear(now)
	v := CalendarView{rng: rng}
	if len(tours) == 0 || !containsYear(rng.Years, now.Year()) {
		v.Month = time.Date(rng.Years[0], time.January, 1, 0, 0, 0, 0, now.Location())
		return v
	}
	v.Month = monthStart(now)
	return v
}

func (v CalendarView) Range() DateRange { return v.rng }
func (v CalendarView) CanPrev() bool    { return v.rng.CanPrev(v.Month) }
func (v CalendarView) CanNext() bool    { return v.rng.CanNext(v.Month) }

func (v CalendarView) Prev() CalendarView {
	if !v.CanPrev() {
		return v
	}
	v.Month = v.Month.AddDate(0, -1, 0)
	return v
}

func (v CalendarView) Next() CalendarView {
	if !v.CanNext() {
		return v
	}
	v.Month = v.Month.AddDate(0, 1, 0)
	return v
}

// GoTo jumps to the given month, as the month/year selectors do.
func (v CalendarView) GoTo(year int, month time.Month) CalendarView {
	v.Month = time.Date(year, month, 1, 0, 0, 0, 0, v.Month.Location())
	return v
}

// Select toggles date: selecting the already selected date clears it.
func (v CalendarView) Select(date string) CalendarView {
	if v.Selected == date {
		v.Selected = ""
		return v
	}
	v.Selected = date
	return v
}

func (v CalendarView) ShowAll() CalendarView {
	v.Selected = ""
	return v
}

// WithDeepLink applies a selected_tour_date value. Values that are malformed
// or name a date without tours are ignored.
func (v CalendarView) WithDeepLink(param string, tours []domain.TourProduct) CalendarView {
	date, ok := ParseDeepLink(param, tours)
	if !ok {
		return v
	}
	d, _ := ParseDate(date, v.Month.Location())
	v.Selected = date
	v.Month = monthStart(d)
	return v
}

// Tours returns the tours of the selected date, or of the whole month when
// no date is selected.
func (v CalendarView) Tours(tours []domain.TourProduct) []domain.TourProduct {
	if v.Selected != "" {
		return ToursForDate(tours, v.Selected)
	}
	return ToursForMonth(tours, v.Month.Year(), v.Month.Month())
}

func ToursForDate(tours []domain.TourProduct, date string) []domain.TourProduct {
	out := make([]domain.TourProduct, 0)
	for _, t := range tours {
		if t.Date == date {
			out = append(out, t)
		}
	}
	return out
}

func ToursForMonth(tours []domain.TourProduct, year int, month time.Month) []domain.TourProduct {
	prefix := monthPrefix(year, month)
	out := make([]domain.TourProduct, 0)
	for _, t := range tours {
		if strings.HasPrefix(t.Date, prefix) {
			out = append(out, t)
		}
	}
	return out
}

// DatesWithTours lists the distinct dates in the month that have tours.
func DatesWithTours(tours []domain.TourProduct, year int, month time.Month) []string {
	dates := make([]string, 0)
	for _, t := range ToursForMonth(tours, year, month) {
		dates = append(dates, t.Date)
	}
	return uniqueSorted(dates)
}

type DateGroup struct {
	Date  string               `json:"date"`
	Tours []domain.TourProduct `json:"tours"`
}

// GroupByDate groups tours by their date, earliest date first. Tours keep
// their input order within a group.
func GroupByDate(tours []domain.TourProduct) []DateGroup {
	idx := make(map[string]int)
	var groups []DateGroup
	for _, t := range tours {
		i, ok := idx[t.Date]
		if !ok {
			groups = append(groups, DateGroup{Date: t.Date})
			i = len(groups) - 1
			idx[t.Date] = i
		}
		groups[i].Tours = append(groups[i].Tours, t)
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].Date < groups[b].Date })
	if groups == nil {
		groups = []DateGroup{}
	}
	return groups
}

func monthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
