package catalog

import (
	"strings"

	"tourcatalog/internal/domain"
)

// UnnamedHotel stands in for a record whose hotel_name is missing.
const UnnamedHotel = "Hotel to be confirmed"

// Aggregate groups flat records into tour products. Output order is the
// order in which each grouping key is first seen in records, so identical
// input always yields identical output.
//
// With ByTitleAndDate a record whose date does not parse is dropped, since
// the date is part of its key. With ByTitle such a record still contributes
// its hotel but no departure date.
func Aggregate(records []domain.RawTourRecord, strategy domain.KeyStrategy) []domain.TourProduct {
	out := make([]domain.TourProduct, 0)
	index := make(map[string]int)

	for _, rec := range records {
		dateOK := validDate(rec.Date)

		var key string
		switch strategy {
		case domain.ByTitleAndDate:
			if !dateOK {
				continue
			}
			key = CalendarKey(rec.Tour, rec.Date)
		default:
			key = CatalogKey(rec.Tour)
		}

		i, seen := index[key]
		if !seen {
			out = append(out, seed(rec, key, strategy))
			i = len(out) - 1
			index[key] = i
		}
		p := &out[i]

		if strategy == domain.ByTitle && dateOK {
			p.AvailableDates = append(p.AvailableDates, rec.Date)
		}
		mergeHotel(p, rec, strategy)
	}

	if strategy == domain.ByTitle {
		for i := range out {
			out[i].AvailableDates = uniqueSorted(out[i].AvailableDates)
		}
	}
	return out
}

// CalendarKey is the case- and whitespace-sensitive key of one calendar
// occurrence.
func CalendarKey(title, date string) string { return title + "-" + date }

// CatalogKey is the normalized title key of a catalog product.
func CatalogKey(title string) string { return strings.ToLower(strings.TrimSpace(title)) }

func seed(rec domain.RawTourRecord, key string, strategy domain.KeyStrategy) domain.TourProduct {
	p := domain.TourProduct{
		Key:         key,
		Title:       rec.Tour,
		Description: rec.Description,
		ImageURL:    rec.ImageURL,
		Hotels:      []domain.Hotel{},
	}
	if strategy == domain.ByTitleAndDate {
		p.Date = rec.Date
		return p
	}

	cls := Classify(rec.Tour, rec.Description, deref(rec.Country))
	p.AvailableDates = []string{}
	p.DetectedCountries = cls.Countries
	p.LocationDisplay = cls.DisplayLabel
	p.ActivityLevel = NormalizeActivity(rec.ActivityLevel)
	p.PriceFrom = rec.PriceFrom
	p.Country = "Uncategorized"
	if c := strings.TrimSpace(deref(rec.Country)); c != "" {
		p.Country = c
	}
	return p
}

// mergeHotel appends the record's hotel unless one with the same name is
// already present; the first occurrence keeps its rating and price. Names
// are compared as given, so "Lodge A" and "Lodge A " are two hotels.
func mergeHotel(p *domain.TourProduct, rec domain.RawTourRecord, strategy domain.KeyStrategy) {
	name := rec.HotelName
	if strings.TrimSpace(name) == "" {
		name = UnnamedHotel
	}
	for _, h := range p.Hotels {
		if h.Name == name {
			return
		}
	}
	h := domain.Hotel{Name: name, URL: "#", Rating: rec.HotelRating}
	if strategy == domain.ByTitle {
		h.URL = hotelAnchor(name)
		h.PriceFrom = rec.PriceFrom
	}
	p.Hotels = append(p.Hotels, h)
}

func hotelAnchor(name string) string {
	return "#" + strings.Join(strings.Fields(strings.ToLower(name)), "-") + "-link"
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
