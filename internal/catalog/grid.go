package catalog

import (
	"regexp"
	"sort"
	"strings"

	"tourcatalog/internal/domain"
)

// countryOrder puts the core destinations first in the grid.
var countryOrder = []string{"Italy", "Austria", "Croatia", "Sardinia", "France", "Spain"}

type CountrySection struct {
	Country  string               `json:"country"`
	Anchor   string               `json:"anchor"`
	Products []domain.TourProduct `json:"products"`
}

// GroupByCountry sections products by their country hint. Known countries
// come first in countryOrder; the rest follow alphabetically.
func GroupByCountry(products []domain.TourProduct) []CountrySection {
	idx := make(map[string]int)
	sections := make([]CountrySection, 0)
	for _, p := range products {
		c := p.Country
		if c == "" {
			c = "Uncategorized"
		}
		i, ok := idx[c]
		if !ok {
			sections = append(sections, CountrySection{Country: c, Anchor: CountryAnchor(c)})
			i = len(sections) - 1
			idx[c] = i
		}
		sections[i].Products = append(sections[i].Products, p)
	}
	sort.SliceStable(sections, func(a, b int) bool {
		ia, ib := orderIndex(sections[a].Country), orderIndex(sections[b].Country)
		switch {
		case ia >= 0 && ib >= 0:
			return ia < ib
		case ia >= 0:
			return true
		case ib >= 0:
			return false
		}
		la, lb := strings.ToLower(sections[a].Country), strings.ToLower(sections[b].Country)
		if la != lb {
			return la < lb
		}
		return sections[a].Country < sections[b].Country
	})
	return sections
}

func orderIndex(country string) int {
	for i, c := range countryOrder {
		if c == country {
			return i
		}
	}
	return -1
}

var nonAnchor = regexp.MustCompile(`[^a-z0-9-]`)

// CountryAnchor is the in-page anchor id of a country section.
func CountryAnchor(country string) string {
	s := strings.Join(strings.Fields(strings.ToLower(country)), "-")
	return "country-" + nonAnchor.ReplaceAllString(s, "")
}

// Stars renders a rating as full and empty stars, or "N/A" when the rating
// is missing.
func Stars(r domain.Rating) string {
	if !r.Valid || r.Stars < 0 || r.Stars > domain.MaxStars {
		return "N/A"
	}
	return strings.Repeat("★", r.Stars) + strings.Repeat("☆", domain.MaxStars-r.Stars)
}

var activityLevels = []struct {
	name     string
	rotation int
}{
	{"Relaxed", -80},
	{"Leisurely", -40},
	{"Moderate", 0},
	{"Active", 40},
	{"Challenging", 80},
}

const DefaultActivity = "Moderate"

// NormalizeActivity maps a feed activity level onto the fixed scale,
// defaulting to Moderate when absent or unrecognized.
func NormalizeActivity(level *string) string {
	if level == nil {
		return DefaultActivity
	}
	s := strings.TrimSpace(*level)
	for _, a := range activityLevels {
		if strings.EqualFold(a.name, s) {
			return a.name
		}
	}
	return DefaultActivity
}

// ActivityRotation is the gauge needle angle in degrees for a level.
func ActivityRotation(level string) int {
	for _, a := range activityLevels {
		if strings.EqualFold(a.name, strings.TrimSpace(level)) {
			return a.rotation
		}
	}
	return 0
}
