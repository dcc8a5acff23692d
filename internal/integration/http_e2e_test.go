//go:build integration || !unit

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"tourcatalog/internal/adapters/feed"
	server "tourcatalog/internal/adapters/http_server"
	"tourcatalog/internal/adapters/observability"
	redisad "tourcatalog/internal/adapters/redis"
	"tourcatalog/internal/app"
)

const toursJSON = `[
  {"tour":"Tuscany & Provence","date":"2025-05-02","description":"Hill towns and lavender","hotel_name":"Villa Uno","hotel_start_rating":4,"price_from":"£1,299","country":"Italy","tour_activity_level":"Leisurely"},
  {"tour":"Tuscany & Provence","date":"2025-05-02","hotel_name":"Villa Uno","hotel_start_rating":2,"country":"Italy"},
  {"tour":"tuscany & provence ","date":"2026-04-11","hotel_name":"Mas Deux","hotel_start_rating":"bad","country":"Italy"},
  {"tour":"Lakes and Mountains","date":"2025-08-20","hotel_name":"","hotel_start_rating":3,"country":"Austria"},
  {"tour":"Mystery Tour","date":"not-a-date","hotel_name":"Somewhere"}
]`

// ---------- the test ----------
func TestE2E_FileFeedRedisCacheHTTP(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tours.json")
	if err := os.WriteFile(p, []byte(toursJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	now := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	svc := app.NewCatalogService(feed.NewFile(p), cache, time.Minute,
		app.WithClock(func() time.Time { return now }),
		app.WithLocation(time.UTC))

	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(observability.InitRegistry()))
	srv.MountHandlers(&server.Handlers{Svc: svc})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// refresh populates the cache
	resp, err := http.Post(ts.URL+"/v1/refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("refresh status %d", resp.StatusCode)
	}
	if !mr.Exists("tourcatalog:snapshot:file") {
		t.Fatalf("snapshot not cached")
	}

	// grid
	var grid app.GridPage
	getJSON(t, ts.URL+"/v1/catalog", &grid)
	if len(grid.Sections) != 3 {
		t.Fatalf("sections = %+v", grid.Sections)
	}
	if grid.Sections[0].Country != "Italy" || grid.Sections[1].Country != "Austria" || grid.Sections[2].Country != "Uncategorized" {
		t.Fatalf("section order = %s, %s, %s", grid.Sections[0].Country, grid.Sections[1].Country, grid.Sections[2].Country)
	}
	tp := grid.Sections[0].Products[0]
	if len(tp.AvailableDates) != 2 || tp.AvailableDates[0] != "2025-05-02" {
		t.Fatalf("available dates = %v", tp.AvailableDates)
	}
	if tp.Hotels[0].Rating.Stars != 4 || tp.Hotels[0].URL != "#villa-uno-link" {
		t.Fatalf("hotel = %+v", tp.Hotels[0])
	}
	if tp.Hotels[1].Rating.Valid {
		t.Fatalf("non-numeric rating should be invalid: %+v", tp.Hotels[1])
	}
	if len(tp.DetectedCountries) < 2 || tp.DetectedCountries[0].Code != "IT" || tp.DetectedCountries[1].Code != "FR" {
		t.Fatalf("countries = %+v", tp.DetectedCountries)
	}
	if tp.ActivityLevel != "Leisurely" {
		t.Fatalf("activity = %q", tp.ActivityLevel)
	}

	// calendar opens on the current month
	var cal app.CalendarPage
	getJSON(t, ts.URL+"/v1/calendar", &cal)
	if cal.Month != "2025-05" || cal.CanPrev || !cal.CanNext {
		t.Fatalf("calendar = %+v", cal)
	}
	if len(cal.Years) != 2 || cal.Years[0] != 2025 || cal.Years[1] != 2026 {
		t.Fatalf("years = %v", cal.Years)
	}
	if len(cal.Groups) != 1 || len(cal.Groups[0].Tours[0].Hotels) != 1 {
		t.Fatalf("groups = %+v", cal.Groups)
	}

	// availability toggle
	var toggle struct {
		Years    [2]int `json:"years"`
		Selected int    `json:"selected"`
		Months   []int  `json:"months"`
	}
	getJSON(t, ts.URL+"/v1/catalog/Tuscany%20%26%20Provence/availability?year=2026", &toggle)
	if toggle.Selected != 2026 || len(toggle.Months) != 1 || toggle.Months[0] != 3 {
		t.Fatalf("toggle = %+v", toggle)
	}

	// metrics endpoint is mounted
	mresp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	mresp.Body.Close()
	if mresp.StatusCode != 200 {
		t.Fatalf("metrics status %d", mresp.StatusCode)
	}

	// the cached snapshot survives a feed that disappears
	if err := os.Remove(p); err != nil {
		t.Fatal(err)
	}
	snap, err := svc.Current(context.Background())
	if err != nil || snap.Status() != app.StatusOK {
		t.Fatalf("cached snapshot: %v %v", snap.Status(), err)
	}
}

func getJSON(t *testing.T, url string, dst any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}
