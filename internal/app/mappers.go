package app

import (
	"strconv"
	"strings"

	"tourcatalog/internal/domain"
)

/********** alias registry (single source of truth) **********/

// recordAliases lists, per RawTourRecord field, the feed keys accepted for it
// in priority order. Dot paths reach into nested objects.
var recordAliases = map[string][]string{
	"tour":        {"tour", "title", "tour_name"},
	"date":        {"date", "departure_date", "start_date"},
	"description": {"description", "tour_description"},
	"image_url":   {"image_url", "image", "imageUrl"},
	"hotel_name":  {"hotel_name", "hotel", "hotel.name"},
	"rating":      {"hotel_start_rating", "hotel_star_rating", "hotel_rating", "hotel.rating", "stars"},
	"price_from":  {"price_from", "priceFrom", "price"},
	"country":     {"country", "country_hint"},
	"activity":    {"tour_activity_level", "activity_level"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupText returns the value at path as text. Numbers are formatted, so a
// price of 999 reads as "999"; anything else reads as "".
func lookupText(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// firstNonEmptyAlias: first non-empty text for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := strings.TrimSpace(lookupText(m, p)); s != "" {
			return &s
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// getFloatFlexible: number from several paths (float64/int/string like "4,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

/********** record mapper **********/

// MapRecords converts decoded feed objects into records. Missing or
// malformed fields fall back to zero values instead of rejecting the record;
// only nil or entirely blank objects are skipped.
func MapRecords(in []map[string]any) ([]domain.RawTourRecord, int) {
	out := make([]domain.RawTourRecord, 0, len(in))
	skipped := 0
	for _, m := range in {
		if len(m) == 0 {
			skipped++
			continue
		}
		r := mapRecord(m)
		if r.Tour == "" && r.Date == "" && r.HotelName == "" && r.Description == "" {
			skipped++
			continue
		}
		out = append(out, r)
	}
	return out, skipped
}

func mapRecord(m map[string]any) domain.RawTourRecord {
	r := domain.RawTourRecord{
		// title and hotel name are kept verbatim: both are grouping keys
		Tour:          rawAlias(m, "tour"),
		Date:          deref(firstNonEmptyAlias(m, recordAliases, "date")),
		Description:   deref(firstNonEmptyAlias(m, recordAliases, "description")),
		ImageURL:      deref(firstNonEmptyAlias(m, recordAliases, "image_url")),
		HotelName:     rawAlias(m, "hotel_name"),
		PriceFrom:     firstNonEmptyAlias(m, recordAliases, "price_from"),
		Country:       firstNonEmptyAlias(m, recordAliases, "country"),
		ActivityLevel: firstNonEmptyAlias(m, recordAliases, "activity"),
	}
	if f := getFloatFlexible(m, recordAliases["rating"]...); f != nil {
		r.HotelRating = domain.NewRating(int(*f))
	}
	return r
}

// rawAlias is firstNonEmptyAlias without trimming the returned value.
func rawAlias(m map[string]any, key string) string {
	for _, p := range recordAliases[key] {
		if s := lookupText(m, p); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
