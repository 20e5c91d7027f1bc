package transactions

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/atlas-pos/atlas-pos/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	req := ListTransactionsRequest{Limit: limit, Offset: offset}
	if v := r.URL.Query().Get("customer_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.CustomerID = &id
		}
	}
	if d := h.parseDate(r.URL.Query().Get("date_from")); d != nil {
		req.DateFrom = d
	}
	if d := h.parseDate(r.URL.Query().Get("date_to")); d != nil {
		req.DateTo = d
	}

	txns, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.respondError(w, err, "list transactions")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"transactions": txns,
		"total":        total,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid transaction ID")
		return
	}

	txn, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get transaction")
		return
	}

	httpx.JSON(w, http.StatusOK, txn)
}

// respondError maps wrapped error kinds through httpx and logs everything else.
func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, httpx.ErrNotFound),
		errors.Is(err, httpx.ErrDuplicate):
	default:
		h.logger.Error(op+" failed", "error", err)
	}
	httpx.RespondError(w, err)
}

func (h *Handler) parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &t
}
