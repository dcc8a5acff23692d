package catalog

import (
	"encoding/json"
	"strconv"
	"time"
)

// MonthSet flags the months (0 = January) that have at least one departure.
type MonthSet [12]bool

// Months returns the flagged month indexes in ascending order.
func (m MonthSet) Months() []int {
	out := make([]int, 0, 12)
	for i, ok := range m {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

func (m MonthSet) Has(month int) bool {
	return month >= 0 && month < len(m) && m[month]
}

// Availability maps a calendar year to its departure months.
type Availability map[int]MonthSet

// Summarize buckets dates by (year, month). Unparseable dates are skipped.
func Summarize(dates []string, loc *time.Location) Availability {
	out := make(Availability)
	for _, s := range dates {
		d, ok := ParseDate(s, loc)
		if !ok {
			continue
		}
		ms := out[d.Year()]
		ms[int(d.Month())-1] = true
		out[d.Year()] = ms
	}
	return out
}

// MarshalJSON renders {"2025":[0,2]} rather than twelve booleans per year.
func (a Availability) MarshalJSON() ([]byte, error) {
	m := make(map[string][]int, len(a))
	for y, ms := range a {
		m[strconv.Itoa(y)] = ms.Months()
	}
	return json.Marshal(m)
}

// YearToggle is the two-year (current, current+1) departure grid of one
// product. Select returns a new value; the receiver is never modified.
type YearToggle struct {
	Years    [2]int `json:"years"`
	Selected int    `json:"selected"`
	Months   []int  `json:"months"`

	set          MonthSet
	availability Availability
}

func NewYearToggle(a Availability, now time.Time) YearToggle {
	y := now.Year()
	t := YearToggle{Years: [2]int{y, y + 1}, availability: a}
	return t.Select(y)
}

// Select switches to year. Years outside the window leave t unchanged.
func (t YearToggle) Select(year int) YearToggle {
	if year != t.Years[0] && year != t.Years[1] {
		return t
	}
	t.Selected = year
	t.set = t.availability[year]
	t.Months = t.set.Months()
	return t
}

// Has reports whether month (0-11) of the selected year has a departure.
func (t YearToggle) Has(month int) bool { return t.set.Has(month) }
