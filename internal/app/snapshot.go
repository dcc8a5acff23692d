package app

import (
	"time"

	"tourcatalog/internal/catalog"
	"tourcatalog/internal/domain"
)

// Load outcomes, as reported in Snapshot.Status and the feed_loads metric.
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
	StatusError = "error"
)

// Snapshot is everything one load cycle derives from the feed. It is never
// updated in place; the next load replaces it.
type Snapshot struct {
	LoadID   string    `json:"load_id"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`

	Calendar []domain.TourProduct `json:"calendar"`
	Catalog  []domain.TourProduct `json:"catalog"`

	Years   []int   `json:"years"`
	MinDate *string `json:"min_date"`
	MaxDate *string `json:"max_date"`

	Empty   bool   `json:"empty"`
	Skipped int    `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

func (s Snapshot) Status() string {
	switch {
	case s.Error != "":
		return StatusError
	case s.Empty:
		return StatusEmpty
	default:
		return StatusOK
	}
}

// Range rebuilds the navigation bounds in loc. Dates are stored as plain
// calendar dates so a cached snapshot does not drift across time zones.
func (s Snapshot) Range(loc *time.Location) catalog.DateRange {
	rng := catalog.DateRange{Years: s.Years}
	if s.MinDate != nil {
		if d, ok := catalog.ParseDate(*s.MinDate, loc); ok {
			rng.Min = &d
		}
	}
	if s.MaxDate != nil {
		if d, ok := catalog.ParseDate(*s.MaxDate, loc); ok {
			rng.Max = &d
		}
	}
	return rng
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(catalog.DateLayout)
	return &s
}
