package catalog

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"tourcatalog/internal/domain"
)

// CountryRule maps a country to the keywords that identify it in free text.
type CountryRule struct {
	Code     string
	Name     string
	Keywords []string

	patterns []*regexp.Regexp
}

// CountryTable is scanned in declared order; that order, not the order of
// words in the text, decides which detected country comes first.
var CountryTable = NewRuleTable([]CountryRule{
	{Code: "IT", Name: "ITALY", Keywords: []string{"italy", "italian", "rome", "venice", "florence", "tuscany", "sorrento", "amalfi", "sicily", "sardinia", "pompeii", "verona", "elba", "cinque terre", "garda", "forte dei marmi", "puglia"}},
	{Code: "AT", Name: "AUSTRIA", Keywords: []string{"austria", "austrian", "innsbruck", "salzburg", "vienna", "tyrol", "mayrhofen", "zell am see", "st. johann", "achensee"}},
	{Code: "HR", Name: "CROATIA", Keywords: []string{"croatia", "croatian", "plitvice", "krk", "istrian", "dubrovnik", "split"}},
	{Code: "ES", Name: "SPAIN", Keywords: []string{"spain", "spanish", "barcelona", "majorca", "costa brava", "ibiza"}},
	{Code: "CH", Name: "SWITZERLAND", Keywords: []string{"switzerland", "swiss", "lucerne", "interlaken", "alps"}},
	{Code: "FR", Name: "FRANCE", Keywords: []string{"france", "french", "paris", "nice", "riviera", "provence", "corsica"}},
	{Code: "DE", Name: "GERMANY", Keywords: []string{"germany", "german", "rhine", "bavaria", "berlin"}},
	{Code: "PT", Name: "PORTUGAL", Keywords: []string{"portugal", "portuguese", "lisbon", "algarve", "porto"}},
	{Code: "GR", Name: "GREECE", Keywords: []string{"greece", "greek", "athens", "crete", "santorini"}},
	{Code: "GB", Name: "UK", Keywords: []string{"uk", "united kingdom", "britain", "british", "england", "scotland", "wales", "london", "scottish"}},
})

// NewRuleTable precompiles one whole-word, case-insensitive pattern per
// keyword. The returned slice keeps the order of rules.
func NewRuleTable(rules []CountryRule) []CountryRule {
	for i := range rules {
		rules[i].patterns = make([]*regexp.Regexp, len(rules[i].Keywords))
		for j, kw := range rules[i].Keywords {
			rules[i].patterns[j] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		}
	}
	return rules
}

func (r CountryRule) matches(text string) bool {
	for _, p := range r.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func (r CountryRule) keywordIn(s string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

const (
	LabelSeparator   = " • "
	FallbackLocation = "Popular Destination"
)

type Classification struct {
	Countries    []domain.Country `json:"countries"`
	DisplayLabel string           `json:"display_label"`
}

var segmentSplit = regexp.MustCompile(`(?i)[,&]| and | with `)

// Classify tags a tour with the countries its title, description and
// country hint mention, and derives a display label such as
// "ITALY • TUSCANY".
func Classify(title, description, hint string) Classification {
	return ClassifyWith(CountryTable, title, description, hint)
}

// ClassifyWith is Classify against an explicit rule table.
func ClassifyWith(table []CountryRule, title, description, hint string) Classification {
	text := strings.ToLower(title + " " + description + " " + hint)

	countries := []domain.Country{}
	detected := make([]CountryRule, 0, 2)
	seen := make(map[string]bool)
	for _, rule := range table {
		if seen[rule.Code] || !rule.matches(text) {
			continue
		}
		seen[rule.Code] = true
		countries = append(countries, domain.Country{Name: rule.Name, Code: rule.Code})
		detected = append(detected, rule)
	}

	parts := titleSegments(title)
	if len(detected) == 0 {
		if len(parts) > 0 {
			return Classification{Countries: countries, DisplayLabel: strings.ToUpper(parts[0])}
		}
		return Classification{Countries: countries, DisplayLabel: FallbackLocation}
	}

	names := make([]string, len(countries))
	for i, c := range countries {
		names[i] = c.Name
	}
	label := strings.Join(names, LabelSeparator)

	added := false
	for _, part := range parts {
		lower := strings.ToLower(part)
		if namesCountry(detected, lower) {
			continue
		}
		keyword := false
		for _, rule := range detected {
			if rule.keywordIn(lower) {
				keyword = true
				break
			}
		}
		if !keyword || len(detected) > 1 {
			label += LabelSeparator + strings.ToUpper(part)
			added = true
			break
		}
	}
	// A single country with only keyword segments still gets the first
	// segment, e.g. "ITALY • TUSCANY".
	if !added && len(parts) > 0 && len(detected) == 1 && !namesCountry(detected, strings.ToLower(parts[0])) {
		label += LabelSeparator + strings.ToUpper(parts[0])
	}

	return Classification{Countries: countries, DisplayLabel: label}
}

func namesCountry(rules []CountryRule, lower string) bool {
	for _, r := range rules {
		if strings.Contains(lower, strings.ToLower(r.Name)) {
			return true
		}
	}
	return false
}

// titleSegments splits a title on commas, ampersands, " and " and " with ",
// keeping trimmed segments longer than two characters.
func titleSegments(title string) []string {
	raw := segmentSplit.Split(title, -1)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) > 2 {
			out = append(out, p)
		}
	}
	return out
}
