package mysql

// departure_date is kept as text: a malformed date must reach the
// aggregator as-is so it can be excluded there.
const listDeparturesSQL = `
SELECT
  tour, departure_date, description, image_url, hotel_name,
  hotel_star_rating, price_from, country, activity_level
FROM tour_departures
ORDER BY id
`
