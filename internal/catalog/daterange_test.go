package catalog_test

import (
	"reflect"
	"testing"
	"time"

	"tourcatalog/internal/catalog"
	"tourcatalog/internal/domain"
)

func TestAnalyzeDates(t *testing.T) {
	in := []domain.RawTourRecord{
		{Tour: "A", Date: "2026-03-10"},
		{Tour: "B", Date: "not-a-date"},
		{Tour: "C", Date: "2024-11-02"},
		{Tour: "D", Date: "2026-01-01"},
		{Tour: "E", Date: "1999-99-99"},
	}
	rng := catalog.AnalyzeDates(in, time.UTC)
	if want := []int{2024, 2026}; !reflect.DeepEqual(rng.Years, want) {
		t.Fatalf("years = %v, want %v", rng.Years, want)
	}
	if rng.Min == nil || rng.Min.Format(catalog.DateLayout) != "2024-11-02" {
		t.Fatalf("unexpected min: %v", rng.Min)
	}
	if rng.Max == nil || rng.Max.Format(catalog.DateLayout) != "2026-03-10" {
		t.Fatalf("unexpected max: %v", rng.Max)
	}
}

func TestAnalyzeDates_LocalMidnight(t *testing.T) {
	loc := time.FixedZone("UTC-10", -10*3600)
	rng := catalog.AnalyzeDates([]domain.RawTourRecord{{Date: "2025-01-01"}}, loc)
	if rng.Min.Location() != loc || rng.Min.Hour() != 0 || rng.Min.Year() != 2025 {
		t.Fatalf("expected local midnight, got %v", rng.Min)
	}
}

func TestAnalyzeDates_NoValidDates(t *testing.T) {
	rng := catalog.AnalyzeDates([]domain.RawTourRecord{{Date: "not-a-date"}, {Date: ""}}, time.UTC)
	if rng.Min != nil || rng.Max != nil || len(rng.Years) != 0 || rng.HasData() {
		t.Fatalf("expected empty range, got %+v", rng)
	}
	now := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	if got := rng.OrDefaultYear(now).Years; !reflect.DeepEqual(got, []int{2026}) {
		t.Fatalf("default years = %v", got)
	}
	if rng.CanPrev(now) || rng.CanNext(now) {
		t.Fatalf("navigation must be disabled without data")
	}
}

func TestDateRange_Bounds(t *testing.T) {
	rng := catalog.AnalyzeDates([]domain.RawTourRecord{{Date: "2025-03-20"}, {Date: "2025-05-02"}}, time.UTC)
	at := func(m time.Month) time.Time { return time.Date(2025, m, 1, 0, 0, 0, 0, time.UTC) }

	if rng.CanPrev(at(time.March)) || !rng.CanNext(at(time.March)) {
		t.Fatalf("march: expected only next")
	}
	if !rng.CanPrev(at(time.April)) || !rng.CanNext(at(time.April)) {
		t.Fatalf("april: expected both")
	}
	if !rng.CanPrev(at(time.May)) || rng.CanNext(at(time.May)) {
		t.Fatalf("may: expected only prev")
	}
}
