package register

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atlas-pos/atlas-pos/internal/catalog"
	"github.com/atlas-pos/atlas-pos/internal/customers"
	"github.com/atlas-pos/atlas-pos/internal/platform/httpx"
	"github.com/atlas-pos/atlas-pos/internal/transactions"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/drafts", h.Open)
	r.Route("/drafts/{id}", func(r chi.Router) {
		r.Get("/", h.Show)
		r.Delete("/", h.Cancel)
		r.Put("/customer", h.SetCustomer)
		r.Put("/discount", h.SetDiscount)
		r.Put("/currency", h.SetCurrency)
		r.Put("/payment-type", h.SetPaymentType)
		r.Post("/items", h.AddItem)
		r.Delete("/items/{lineID}", h.RemoveItem)
		r.Post("/scan", h.Scan)
		r.Post("/submit", h.Submit)
	})
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	var req OpenDraftRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
			return
		}
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	draft, err := h.service.Open(r.Context(), req)
	if err != nil {
		h.logger.Error("open draft failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusCreated, NewDraftView(draft))
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err, "get draft")
		return
	}
	httpx.JSON(w, http.StatusOK, NewDraftView(draft))
}

func (h *Handler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	var req SetCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	draft, err := h.service.SetCustomer(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		if errors.Is(err, customers.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "customer not found")
			return
		}
		h.respondError(w, err, "set customer")
		return
	}
	httpx.JSON(w, http.StatusOK, NewDraftView(draft))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	draft, err := h.service.AddProduct(r.Context(), chi.URLParam(r, "id"), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
			return
		}
		h.respondError(w, err, "add item")
		return
	}
	httpx.JSON(w, http.StatusOK, NewDraftView(draft))
}

func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	draft, found, err := h.service.Scan(r.Context(), chi.URLParam(r, "id"), req.Barcode)
	if err != nil {
		h.respondError(w, err, "scan")
		return
	}

	resp := ScanResponse{Found: found, Draft: NewDraftView(draft)}
	if !found {
		resp.Message = "no product for barcode " + req.Barcode
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"))
	if err != nil {
		if errors.Is(err, ErrLineNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.respondError(w, err, "remove item")
		return
	}
	httpx.JSON(w, http.StatusOK, NewDraftView(draft))
}

func (h *Handler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	var req SetDiscountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	draft, err := h.service.SetDiscount(r.Context(), chi.URLParam(r, "id"), req.Discount)
	if err != nil {
		h.respondError(w, err, "set discount")
		return
	}
	httpx.JSON(w, http.StatusOK, NewDraftView(draft))
}

func (h *Handler) SetCurrency(w http.ResponseWriter, r *http.Request) {
	var req SetCurrencyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	draft, err := h.service.SetCurrency(r.Context(), chi.URLParam(r, "id"), transactions.Currency(req.Currency))
	if err != nil {
		h.respondError(w, err, "set currency")
		return
	}
	httpx.JSON(w, http.StatusOK, NewDraftView(draft))
}

func (h *Handler) SetPaymentType(w http.ResponseWriter, r *http.Request) {
	var req SetPaymentTypeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	draft, err := h.service.SetPaymentType(r.Context(), chi.URLParam(r, "id"), transactions.PaymentType(req.PaymentType))
	if err != nil {
		h.respondError(w, err, "set payment type")
		return
	}
	httpx.JSON(w, http.StatusOK, NewDraftView(draft))
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	txn, err := h.service.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrDraftNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
		case errors.Is(err, ErrEmptyDraft):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		case errors.Is(err, ErrSubmitInProgress):
			httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
		default:
			h.logger.Error("submit draft failed", "error", err)
			httpx.Problem(w, http.StatusBadGateway, "Submission Failed", "transaction could not be created")
		}
		return
	}

	httpx.JSON(w, http.StatusCreated, txn)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err, "cancel draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondError maps wrapped error kinds through httpx and logs everything else.
func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, httpx.ErrNotFound),
		errors.Is(err, httpx.ErrValidation),
		errors.Is(err, httpx.ErrConflict):
	default:
		h.logger.Error(op+" failed", "error", err)
	}
	httpx.RespondError(w, err)
}
