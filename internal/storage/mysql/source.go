package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"tourcatalog/internal/adapters/observability"
	"tourcatalog/internal/domain"
)

// Source reads the feed from the tour_departures table. It never writes.
type Source struct{ db *sql.DB }

func New(db *sql.DB) *Source { return &Source{db: db} }

// Open connects with the mysql driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *Source) Name() string { return "mysql" }

// Load returns one flat record per row, in id order, keyed like the JSON feed.
func (s *Source) Load(ctx context.Context) ([]map[string]any, error) {
	start := time.Now()
	out, err := s.list(ctx)
	if err != nil {
		observability.ObserveFeed(s.Name(), 0, time.Since(start))
		return nil, &domain.FetchError{Source: "mysql:tour_departures", Err: err}
	}
	observability.ObserveFeed(s.Name(), 200, time.Since(start))
	return out, nil
}

func (s *Source) list(ctx context.Context) ([]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, listDeparturesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]map[string]any, 0)
	for rows.Next() {
		var (
			tour, date, desc, img, hotel sql.NullString
			rating                       sql.NullInt64
			price, country, activity     sql.NullString
		)
		if err := rows.Scan(&tour, &date, &desc, &img, &hotel, &rating, &price, &country, &activity); err != nil {
			return nil, err
		}
		rec := map[string]any{}
		setStr(rec, "tour", tour)
		setStr(rec, "date", date)
		setStr(rec, "description", desc)
		setStr(rec, "image_url", img)
		setStr(rec, "hotel_name", hotel)
		if rating.Valid {
			rec["hotel_start_rating"] = float64(rating.Int64)
		}
		setStr(rec, "price_from", price)
		setStr(rec, "country", country)
		setStr(rec, "tour_activity_level", activity)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func setStr(m map[string]any, k string, v sql.NullString) {
	if v.Valid {
		m[k] = v.String
	}
}
