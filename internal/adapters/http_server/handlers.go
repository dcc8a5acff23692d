// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tourcatalog/internal/app"
	"tourcatalog/internal/catalog"
	"tourcatalog/internal/domain"
)

// Catalog is the part of app.CatalogService the handlers need.
type Catalog interface {
	Load(ctx context.Context) (app.Snapshot, error)
	Product(ctx context.Context, key string) (domain.TourProduct, error)
	Availability(ctx context.Context, key string, year int) (catalog.YearToggle, error)
	Calendar(ctx context.Context, q app.CalendarQuery) (app.CalendarPage, error)
	Grid(ctx context.Context) (app.GridPage, error)
}

type Handlers struct{ Svc Catalog }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/calendar", h.getCalendar)
		r.Get("/catalog", h.getGrid)
		r.Get("/catalog/{key}", h.getProduct)
		r.Get("/catalog/{key}/availability", h.getAvailability)
		r.Post("/refresh", h.refresh)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeErr maps service errors onto problem responses.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, app.ErrBadQuery):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// also when wrapped in a FetchError: the feed did not answer in time
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", err.Error())
	case domain.IsFetchError(err):
		writeProblem(w, http.StatusBadGateway, "Feed Unavailable", err.Error())
	default:
		log.Error().Err(err).Msg("unexpected handler error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON answers 200 with an ETag, or 304 when the client already has it.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "encode response")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) getCalendar(w http.ResponseWriter, r *http.Request) {
	q := app.CalendarQuery{
		Month:    r.URL.Query().Get("month"),
		DeepLink: r.URL.Query().Get(catalog.DeepLinkParam),
	}
	page, err := h.Svc.Calendar(r.Context(), q)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, r, page)
}

func (h *Handlers) getGrid(w http.ResponseWriter, r *http.Request) {
	page, err := h.Svc.Grid(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, r, page)
}

// productKey is the {key} param, unescaped: chi matches on the raw path
// when a title carries escaped characters such as "%26".
func productKey(r *http.Request) string {
	k := chi.URLParam(r, "key")
	if u, err := url.PathUnescape(k); err == nil {
		return u
	}
	return k
}

func (h *Handlers) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.Product(r.Context(), productKey(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, r, p)
}

func (h *Handlers) getAvailability(w http.ResponseWriter, r *http.Request) {
	year := 0
	if ys := r.URL.Query().Get("year"); ys != "" {
		y, err := strconv.Atoi(ys)
		if err != nil || y < 1 {
			writeProblem(w, http.StatusBadRequest, "Invalid year", "year must be a positive integer")
			return
		}
		year = y
	}
	t, err := h.Svc.Availability(r.Context(), productKey(r), year)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, r, t)
}

type refreshResponse struct {
	Status   string  `json:"status"`
	LoadID   string  `json:"load_id"`
	Products int     `json:"products"`
	Calendar int     `json:"calendar"`
	Years    []int   `json:"years"`
	MinDate  *string `json:"min_date"`
	MaxDate  *string `json:"max_date"`
	Skipped  int     `json:"skipped"`
}

func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Svc.Load(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(refreshResponse{
		Status:   snap.Status(),
		LoadID:   snap.LoadID,
		Products: len(snap.Catalog),
		Calendar: len(snap.Calendar),
		Years:    snap.Years,
		MinDate:  snap.MinDate,
		MaxDate:  snap.MaxDate,
		Skipped:  snap.Skipped,
	}); err != nil {
		log.Error().Err(err).Msg("failed to write refresh body")
	}
}
