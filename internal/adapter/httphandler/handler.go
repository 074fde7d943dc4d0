package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/visual-catalog/internal/core/domain"
	"github.com/niksmo/visual-catalog/internal/core/port"
	"github.com/niksmo/visual-catalog/internal/core/render"
	"github.com/niksmo/visual-catalog/internal/core/service"
)

// GET v1/catalog (200 OK)
// POST v1/catalog/filters JSON {"field" string, "value" string} (200 OK, 400 Bad request, 404 Not found)
// POST v1/catalog/pages JSON {"page" int}, page must be the next page (200 OK, 400 Bad request, 409 Conflict)
// GET v1/catalog/filters/{field}/options (200 OK, 404 Not found)

type CatalogHandler struct {
	catalog  port.CatalogDriver
	board    port.FilterBoard
	recorder port.InteractionsRecorder
}

// RegisterCatalog mounts the catalog routes on mux. recorder may be nil.
func RegisterCatalog(
	mux *http.ServeMux,
	catalog port.CatalogDriver,
	board port.FilterBoard,
	recorder port.InteractionsRecorder,
) {
	h := CatalogHandler{catalog, board, recorder}
	mux.HandleFunc("GET /v1/catalog", h.GetCatalog)
	mux.HandleFunc("POST /v1/catalog/filters", h.PostFilter)
	mux.HandleFunc("POST /v1/catalog/pages", h.PostPage)
	mux.HandleFunc("GET /v1/catalog/filters/{field}/options", h.GetOptions)
}

func (h CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCatalog"
	writeJSON(w, http.StatusOK, h.view(), slog.With("op", op))
}

func (h CatalogHandler) PostFilter(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.PostFilter"
	log := slog.With("op", op)

	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	if err := h.board.Select(req.Field, req.Value); err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownField):
			http.Error(w, "unknown filter field", http.StatusNotFound)
		default:
			http.Error(w, "unknown filter option", http.StatusBadRequest)
		}
		log.Warn("rejected filter", "err", err)
		return
	}

	h.dispatch(r, domain.FilterChanged{Field: req.Field, Value: req.Value}, log)
	writeJSON(w, http.StatusOK, h.view(), log)
}

func (h CatalogHandler) PostPage(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.PostPage"
	log := slog.With("op", op)

	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	if req.Page < domain.FirstPage {
		http.Error(w, "page must be positive", http.StatusBadRequest)
		log.Warn("invalid page", "page", req.Page)
		return
	}

	pager := render.Pager(h.catalog.State())
	if pager.Disabled || pager.Hidden {
		http.Error(w, "pager is not available", http.StatusConflict)
		log.Warn(
			"pager is not available",
			"disabled", pager.Disabled, "hidden", pager.Hidden,
		)
		return
	}

	if req.Page != pager.NextPage {
		http.Error(w, "page is not the next page", http.StatusConflict)
		log.Warn("out of sequence page", "page", req.Page, "next", pager.NextPage)
		return
	}

	h.dispatch(r, domain.PageRequested{Next: pager.NextPage}, log)
	writeJSON(w, http.StatusOK, h.view(), log)
}

func (h CatalogHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetOptions"
	log := slog.With("op", op)

	options, err := h.board.Options(r.PathValue("field"))
	if err != nil {
		http.Error(w, "unknown filter field", http.StatusNotFound)
		log.Warn("failed to get options", "err", err)
		return
	}

	out := make([]Option, len(options))
	for i, o := range options {
		out[i] = Option{
			ID:     o.ID,
			Title:  o.Title,
			Active: o.Active,
			Label:  o.Label(),
		}
	}
	writeJSON(w, http.StatusOK, out, log)
}

// dispatch runs the fetch for intent. A failed fetch is not an error of
// the request: the returned view shows the catalog still loading.
func (h CatalogHandler) dispatch(
	r *http.Request, intent domain.Intent, log *slog.Logger,
) {
	q, err := h.catalog.Dispatch(r.Context(), intent)
	if h.recorder != nil {
		h.recorder.Record(r.Context(), intent, q.Filters)
	}
	switch {
	case errors.Is(err, service.ErrStaleResponse):
		log.Info("superseded by a newer request", "kind", intent.Kind())
		return
	case err != nil:
		log.Error("failed to fetch products", "kind", intent.Kind(), "err", err)
		return
	}
	log.Info("products fetched", "kind", intent.Kind(), "page", intent.Page())
}

func (h CatalogHandler) view() render.View {
	return render.Render(h.catalog.State(), h.board.Controls())
}

func writeJSON(w http.ResponseWriter, status int, v any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}
