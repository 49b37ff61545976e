// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"food_rent/internal/app"
)

type Handlers struct{ Q *app.QueryService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/cities", h.listCities)
	s.mux.Get("/v1/cities/list", h.listCityRows)
	s.mux.Get("/v1/cities/{id}/cuisines", h.topCuisines)
	s.mux.Get("/v1/prices", h.priceDistribution)
	s.mux.Get("/v1/rent", h.averageRent)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
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

// writeJSON sends v with a weak ETag, or 304 when the client already has it.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "response encoding failed")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
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

func queryFailed(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("path", r.URL.Path).Msg("report query failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Error", "report unavailable")
}

func (h *Handlers) listCities(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.CitySummaries(r.Context())
	if err != nil {
		queryFailed(w, r, err)
		return
	}
	writeJSON(w, r, out)
}

// listCityRows returns the registered cities without aggregates.
func (h *Handlers) listCityRows(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListCities(r.Context())
	if err != nil {
		queryFailed(w, r, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) topCuisines(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}

	limit := 5
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 50 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 50")
			return
		}
		limit = l
	}

	out, err := h.Q.TopCategories(r.Context(), id, limit)
	if err != nil {
		queryFailed(w, r, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) priceDistribution(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.PriceDistribution(r.Context())
	if err != nil {
		queryFailed(w, r, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) averageRent(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.AverageRent(r.Context())
	if err != nil {
		queryFailed(w, r, err)
		return
	}
	writeJSON(w, r, out)
}
