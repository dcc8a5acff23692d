package domain

// RawTourRecord is one flat row of the tours.json feed: a single
// tour x date x hotel combination.
type RawTourRecord struct {
	Tour          string  `json:"tour"`
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"image_url"`
	HotelName     string  `json:"hotel_name"`
	HotelRating   Rating  `json:"hotel_start_rating"`
	PriceFrom     *string `json:"price_from,omitempty"`
	Country       *string `json:"country,omitempty"`
	ActivityLevel *string `json:"tour_activity_level,omitempty"`
}

// KeyStrategy selects how raw records are grouped into tour products.
type KeyStrategy int

const (
	// ByTitleAndDate keys on the literal title+date: one product per
	// calendar occurrence.
	ByTitleAndDate KeyStrategy = iota
	// ByTitle keys on the lowercased, trimmed title: one product with many
	// departure dates.
	ByTitle
)

func (k KeyStrategy) String() string {
	switch k {
	case ByTitleAndDate:
		return "calendar"
	case ByTitle:
		return "catalog"
	default:
		return "unknown"
	}
}

type Country struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// TourProduct is the aggregate built from raw records. Date is set by the
// calendar strategy; the remaining optional fields by the catalog strategy.
type TourProduct struct {
	Key         string  `json:"key"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Hotels      []Hotel `json:"hotels"`

	Date string `json:"date,omitempty"`

	AvailableDates    []string  `json:"available_dates,omitempty"`
	DetectedCountries []Country `json:"detected_countries,omitempty"`
	LocationDisplay   string    `json:"location_display,omitempty"`
	ActivityLevel     string    `json:"activity_level,omitempty"`
	PriceFrom         *string   `json:"price_from,omitempty"`
	Country           string    `json:"country,omitempty"`
}
