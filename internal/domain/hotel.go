package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Hotel is one accommodation offered on a tour product. Within a product the
// name is unique; the first record seen for a name wins.
type Hotel struct {
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	Rating    Rating  `json:"rating"`
	PriceFrom *string `json:"price_from,omitempty"`
}

// Rating is a 0..5 star rating. Valid is false when the feed value was
// absent or not a number.
type Rating struct {
	Stars int
	Valid bool
}

const MaxStars = 5

// NewRating clamps n into 0..MaxStars.
func NewRating(n int) Rating {
	if n < 0 {
		n = 0
	}
	if n > MaxStars {
		n = MaxStars
	}
	return Rating{Stars: n, Valid: true}
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(r.Stars)), nil
}

func (r *Rating) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = Rating{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*r = NewRating(int(f))
		return nil
	}
	// numeric strings like "4" are accepted as well
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*r = NewRating(int(f))
			return nil
		}
	}
	*r = Rating{}
	return nil
}
