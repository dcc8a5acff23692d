package catalog_test

import (
	"reflect"
	"testing"

	"tourcatalog/internal/catalog"
	"tourcatalog/internal/domain"
)

func rec(tour, date, hotel string, stars int) domain.RawTourRecord {
	return domain.RawTourRecord{
		Tour:        tour,
		Date:        date,
		Description: tour + " description",
		ImageURL:    "https://img.example/" + tour + ".jpg",
		HotelName:   hotel,
		HotelRating: domain.NewRating(stars),
	}
}

func ptr[T any](v T) *T { return &v }

func TestAggregate_CalendarKeysOnTitleAndDate(t *testing.T) {
	in := []domain.RawTourRecord{
		rec("Lake Garda", "2025-05-01", "Hotel A", 4),
		rec("Lake Garda", "2025-05-01", "Hotel B", 3),
		rec("Lake Garda", "2025-06-01", "Hotel A", 4),
		rec("lake garda", "2025-05-01", "Hotel C", 2), // different case: separate occurrence
	}
	out := catalog.Aggregate(in, domain.ByTitleAndDate)
	if len(out) != 3 {
		t.Fatalf("expected 3 occurrences, got %d: %+v", len(out), out)
	}
	if out[0].Key != "Lake Garda-2025-05-01" || out[0].Date != "2025-05-01" {
		t.Fatalf("unexpected first occurrence: %+v", out[0])
	}
	if len(out[0].Hotels) != 2 || out[0].Hotels[1].Name != "Hotel B" {
		t.Fatalf("expected hotels A,B; got %+v", out[0].Hotels)
	}
	if out[0].Hotels[0].URL != "#" {
		t.Fatalf("calendar hotels use placeholder url, got %q", out[0].Hotels[0].URL)
	}
	if out[2].Title != "lake garda" {
		t.Fatalf("expected case-sensitive key, got %+v", out[2])
	}
}

func TestAggregate_CalendarDropsUnparseableDates(t *testing.T) {
	in := []domain.RawTourRecord{
		rec("Rome", "not-a-date", "Hotel A", 4),
		rec("Rome", "", "Hotel A", 4),
		rec("Rome", "2025-02-30", "Hotel A", 4),
		rec("Rome", "2025-03-01", "Hotel A", 4),
	}
	out := catalog.Aggregate(in, domain.ByTitleAndDate)
	if len(out) != 1 || out[0].Date != "2025-03-01" {
		t.Fatalf("expected only the valid occurrence, got %+v", out)
	}
}

func TestAggregate_CatalogNormalizesTitleAndDedupesDates(t *testing.T) {
	in := []domain.RawTourRecord{
		rec("Amalfi Coast", "2025-09-10", "Hotel Sole", 4),
		rec("  amalfi coast ", "2025-07-01", "Hotel Mare", 3),
		rec("AMALFI COAST", "2025-09-10", "Hotel Sole", 4),
		rec("Amalfi Coast", "not-a-date", "Hotel Luna", 5),
	}
	out := catalog.Aggregate(in, domain.ByTitle)
	if len(out) != 1 {
		t.Fatalf("expected one product, got %d", len(out))
	}
	p := out[0]
	if p.Key != "amalfi coast" || p.Title != "Amalfi Coast" {
		t.Fatalf("unexpected key/title: %q / %q", p.Key, p.Title)
	}
	if want := []string{"2025-07-01", "2025-09-10"}; !reflect.DeepEqual(p.AvailableDates, want) {
		t.Fatalf("dates = %v, want %v", p.AvailableDates, want)
	}
	// the undated record still contributes its hotel
	if len(p.Hotels) != 3 || p.Hotels[2].Name != "Hotel Luna" {
		t.Fatalf("unexpected hotels: %+v", p.Hotels)
	}
	if p.Hotels[0].URL != "#hotel-sole-link" {
		t.Fatalf("unexpected hotel url %q", p.Hotels[0].URL)
	}
}

func TestAggregate_FirstHotelOccurrenceWins(t *testing.T) {
	a := rec("Vienna Waltz", "2025-04-01", "Hotel Sacher", 5)
	a.PriceFrom = ptr("£999")
	b := rec("Vienna Waltz", "2025-05-01", "Hotel Sacher", 2)
	b.PriceFrom = ptr("£1")

	for _, strategy := range []domain.KeyStrategy{domain.ByTitle, domain.ByTitleAndDate} {
		in := []domain.RawTourRecord{a, b}
		if strategy == domain.ByTitleAndDate {
			b2 := b
			b2.Date = a.Date
			in = []domain.RawTourRecord{a, b2}
		}
		out := catalog.Aggregate(in, strategy)
		if len(out) != 1 || len(out[0].Hotels) != 1 {
			t.Fatalf("%s: expected one product with one hotel, got %+v", strategy, out)
		}
		if got := out[0].Hotels[0].Rating; got.Stars != 5 {
			t.Fatalf("%s: expected first rating 5, got %+v", strategy, got)
		}
	}
	out := catalog.Aggregate([]domain.RawTourRecord{a, b}, domain.ByTitle)
	if p := out[0].Hotels[0].PriceFrom; p == nil || *p != "£999" {
		t.Fatalf("expected first price, got %v", p)
	}
}

func TestAggregate_HotelNamesCompareAsGiven(t *testing.T) {
	in := []domain.RawTourRecord{
		rec("Alps Adventure", "2025-06-01", "Lodge A", 4),
		rec("Alps Adventure", "2025-06-01", "Lodge A ", 2),
		rec("Alps Adventure", "2025-06-01", "Lodge A", 1),
		rec("Alps Adventure", "2025-06-01", "  ", 3),
	}
	for _, strategy := range []domain.KeyStrategy{domain.ByTitle, domain.ByTitleAndDate} {
		out := catalog.Aggregate(in, strategy)
		hotels := out[0].Hotels
		if len(hotels) != 3 {
			t.Fatalf("%s: expected 3 hotels, got %+v", strategy, hotels)
		}
		if hotels[0].Name != "Lodge A" || hotels[0].Rating.Stars != 4 {
			t.Fatalf("%s: first hotel = %+v", strategy, hotels[0])
		}
		if hotels[1].Name != "Lodge A " || hotels[1].Rating.Stars != 2 {
			t.Fatalf("%s: trailing-space name must stay separate: %+v", strategy, hotels[1])
		}
		if hotels[2].Name != catalog.UnnamedHotel {
			t.Fatalf("%s: blank name = %q", strategy, hotels[2].Name)
		}
	}
}

func TestAggregate_CatalogDefaults(t *testing.T) {
	r := rec("Mystery Trip", "2025-01-01", "", 0)
	r.HotelRating = domain.Rating{}
	out := catalog.Aggregate([]domain.RawTourRecord{r}, domain.ByTitle)
	p := out[0]
	if p.ActivityLevel != "Moderate" || p.Country != "Uncategorized" {
		t.Fatalf("unexpected defaults: activity=%q country=%q", p.ActivityLevel, p.Country)
	}
	if p.Hotels[0].Name != catalog.UnnamedHotel || p.Hotels[0].Rating.Valid {
		t.Fatalf("unexpected hotel defaults: %+v", p.Hotels[0])
	}
	if p.LocationDisplay != "MYSTERY TRIP" {
		t.Fatalf("unexpected location label %q", p.LocationDisplay)
	}
}

func TestAggregate_EndToEndSwitzerland(t *testing.T) {
	r := domain.RawTourRecord{
		Tour:        "Alps Adventure",
		Date:        "2025-06-01",
		HotelName:   "Lodge A",
		HotelRating: domain.NewRating(4),
		Country:     ptr("Switzerland"),
	}
	out := catalog.Aggregate([]domain.RawTourRecord{r}, domain.ByTitle)
	if len(out) != 1 || out[0].Title != "Alps Adventure" {
		t.Fatalf("unexpected products: %+v", out)
	}
	if want := []domain.Country{{Name: "SWITZERLAND", Code: "CH"}}; !reflect.DeepEqual(out[0].DetectedCountries, want) {
		t.Fatalf("countries = %+v, want %+v", out[0].DetectedCountries, want)
	}
	if h := out[0].Hotels; len(h) != 1 || h[0].Name != "Lodge A" || h[0].Rating != domain.NewRating(4) {
		t.Fatalf("unexpected hotels: %+v", h)
	}
	if out[0].Country != "Switzerland" {
		t.Fatalf("expected raw country hint, got %q", out[0].Country)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	in := []domain.RawTourRecord{
		rec("Tuscany & Provence", "2025-05-01", "Villa", 4),
		rec("Croatian Islands", "2025-06-01", "Krk Resort", 3),
		rec("Tuscany & Provence", "2025-04-01", "Mas", 5),
		rec("Croatian Islands", "bad", "Split Inn", 2),
	}
	for _, strategy := range []domain.KeyStrategy{domain.ByTitle, domain.ByTitleAndDate} {
		first := catalog.Aggregate(in, strategy)
		for i := 0; i < 5; i++ {
			if again := catalog.Aggregate(in, strategy); !reflect.DeepEqual(first, again) {
				t.Fatalf("%s: run %d differs:\n%+v\n%+v", strategy, i, first, again)
			}
		}
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	out := catalog.Aggregate(nil, domain.ByTitle)
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
}
