//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"tourcatalog/internal/app"
	mysqlsrc "tourcatalog/internal/storage/mysql"
)

// migrationsDir defaults to the repo's migrations/ folder.
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=tours",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/tours?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSource_MySQL_LoadInIDOrder(t *testing.T) {
	db := startMySQL(t)
	applyMigrations(t, db)
	ctx := context.Background()

	// Arrange
	_, err := db.ExecContext(ctx, `
INSERT INTO tour_departures
  (tour, departure_date, hotel_name, hotel_star_rating, price_from, country, activity_level)
VALUES
  ('Alps Adventure', '2025-06-01', 'Lodge A', 4, '£999', 'Switzerland', 'Active'),
  ('Alps Adventure', '2025-06-01', 'Lodge A', 2, NULL, 'Switzerland', NULL),
  ('Tuscan Hills', 'not-a-date', 'Villa', NULL, NULL, 'Italy', NULL)`)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	src := mysqlsrc.New(db)
	recs, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("rows = %d, want 3", len(recs))
	}
	if recs[0]["hotel_start_rating"] != 4.0 || recs[0]["price_from"] != "£999" {
		t.Fatalf("row 0 = %+v", recs[0])
	}
	if _, ok := recs[2]["hotel_start_rating"]; ok {
		t.Fatalf("NULL rating must be absent: %+v", recs[2])
	}

	// Assert through the load cycle
	svc := app.NewCatalogService(src, nil, time.Minute, app.WithLocation(time.UTC))
	snap, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("service Load: %v", err)
	}
	if len(snap.Calendar) != 1 || len(snap.Catalog) != 2 {
		t.Fatalf("calendar=%d catalog=%d", len(snap.Calendar), len(snap.Catalog))
	}
	if got := snap.Catalog[0].Hotels[0].Rating.Stars; got != 4 {
		t.Fatalf("first rating must win, got %d", got)
	}
}
