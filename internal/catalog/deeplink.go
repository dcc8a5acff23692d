package catalog

import (
	"net/url"
	"strings"

	"tourcatalog/internal/domain"
)

// DeepLinkParam is the query parameter that preselects a calendar date.
const DeepLinkParam = "selected_tour_date"

// ParseDeepLink converts a YYYYMMDD value to an ISO date. ok is false unless
// the value is eight digits naming a date that has tours.
func ParseDeepLink(param string, tours []domain.TourProduct) (string, bool) {
	if len(param) != 8 {
		return "", false
	}
	for _, r := range param {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	date := param[:4] + "-" + param[4:6] + "-" + param[6:]
	for _, t := range tours {
		if t.Date == date {
			return date, true
		}
	}
	return "", false
}

// FormatDeepLink turns an ISO date into the YYYYMMDD parameter form.
func FormatDeepLink(date string) string { return strings.ReplaceAll(date, "-", "") }

// DeepLinkURL adds selected_tour_date to base. A bare "#" placeholder and
// unparseable URLs are returned unchanged.
func DeepLinkURL(base, date string) string {
	if base == "#" {
		return base
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set(DeepLinkParam, FormatDeepLink(date))
	u.RawQuery = q.Encode()
	return u.String()
}
