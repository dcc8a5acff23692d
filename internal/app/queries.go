package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourcatalog/internal/catalog"
	"tourcatalog/internal/domain"
)

// ErrBadQuery marks a malformed query value, e.g. a month that is not YYYY-MM.
var ErrBadQuery = errors.New("bad query")

// Current returns the snapshot of the latest load cycle. A cached snapshot is
// preferred, then the last one loaded by this process while it is younger
// than the cache TTL. A failed cycle stays current until the next explicit
// Load. Only otherwise does Current load itself.
func (s *CatalogService) Current(ctx context.Context) (Snapshot, error) {
	if s.cache != nil {
		var snap Snapshot
		if ok, _ := s.cache.Get(ctx, s.cacheKey(), &snap); ok {
			return snap, nil
		}
	}
	if last, ok := s.lastSnapshot(); ok && (last.Error != "" || s.fresh(last)) {
		return last, nil
	}
	snap, err := s.Load(ctx)
	if err != nil && domain.IsFetchError(err) {
		// the degraded snapshot is the answer
		return snap, nil
	}
	return snap, err
}

// fresh reports whether snap is within the cache TTL; a TTL <= 0 never
// expires.
func (s *CatalogService) fresh(snap Snapshot) bool {
	return s.cacheTTL <= 0 || s.now().Sub(snap.LoadedAt) < s.cacheTTL
}

// Product looks up one catalog product. key is normalized like a title, so
// "Alps Adventure" and "alps adventure" name the same product.
func (s *CatalogService) Product(ctx context.Context, key string) (domain.TourProduct, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return domain.TourProduct{}, err
	}
	k := catalog.CatalogKey(key)
	for _, p := range snap.Catalog {
		if p.Key == k {
			return p, nil
		}
	}
	return domain.TourProduct{}, fmt.Errorf("product %q: %w", key, domain.ErrNotFound)
}

// Availability re-summarizes a single product's departures for the
// two-year toggle. year selects the shown year; 0 keeps the current one.
func (s *CatalogService) Availability(ctx context.Context, key string, year int) (catalog.YearToggle, error) {
	p, err := s.Product(ctx, key)
	if err != nil {
		return catalog.YearToggle{}, err
	}
	t := catalog.NewYearToggle(catalog.Summarize(p.AvailableDates, s.loc), s.now().In(s.loc))
	if year != 0 {
		t = t.Select(year)
	}
	return t, nil
}

type CalendarQuery struct {
	Month    string // YYYY-MM, "" for the default month
	DeepLink string // selected_tour_date value
}

// CalendarPage is the calendar browser's view of a snapshot.
type CalendarPage struct {
	Status   string  `json:"status"`
	LoadID   string  `json:"load_id"`
	Error    string  `json:"error,omitempty"`
	Month    string  `json:"month"`
	Selected string  `json:"selected,omitempty"`
	Years    []int   `json:"years"`
	MinDate  *string `json:"min_date"`
	MaxDate  *string `json:"max_date"`
	CanPrev  bool    `json:"can_prev"`
	CanNext  bool    `json:"can_next"`

	DatesWithTours []string            `json:"dates_with_tours"`
	Groups         []catalog.DateGroup `json:"groups"`
}

func (s *CatalogService) Calendar(ctx context.Context, q CalendarQuery) (CalendarPage, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return CalendarPage{}, err
	}
	view := catalog.NewCalendarView(snap.Range(s.loc), snap.Calendar, s.now().In(s.loc))
	if q.Month != "" {
		m, err := time.ParseInLocation("2006-01", q.Month, s.loc)
		if err != nil {
			return CalendarPage{}, fmt.Errorf("month %q: %w", q.Month, ErrBadQuery)
		}
		view = view.GoTo(m.Year(), m.Month())
	}
	view = view.WithDeepLink(q.DeepLink, snap.Calendar)
	return calendarPage(snap, view), nil
}

func calendarPage(snap Snapshot, v catalog.CalendarView) CalendarPage {
	rng := v.Range()
	return CalendarPage{
		Status:         snap.Status(),
		LoadID:         snap.LoadID,
		Error:          snap.Error,
		Month:          v.Month.Format("2006-01"),
		Selected:       v.Selected,
		Years:          rng.Years,
		MinDate:        snap.MinDate,
		MaxDate:        snap.MaxDate,
		CanPrev:        v.CanPrev(),
		CanNext:        v.CanNext(),
		DatesWithTours: catalog.DatesWithTours(snap.Calendar, v.Month.Year(), v.Month.Month()),
		Groups:         catalog.GroupByDate(v.Tours(snap.Calendar)),
	}
}

// GridPage is the country-grouped product grid.
type GridPage struct {
	Status   string                   `json:"status"`
	LoadID   string                   `json:"load_id"`
	Error    string                   `json:"error,omitempty"`
	Sections []catalog.CountrySection `json:"sections"`
}

func (s *CatalogService) Grid(ctx context.Context) (GridPage, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return GridPage{}, err
	}
	return GridPage{
		Status:   snap.Status(),
		LoadID:   snap.LoadID,
		Error:    snap.Error,
		Sections: catalog.GroupByCountry(snap.Catalog),
	}, nil
}
