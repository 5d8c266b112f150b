// Package handler exposes the invoice HTTP surface: create, view, send.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"invoicer/internal/invoice/models"
	"invoicer/internal/invoice/service"
	"invoicer/internal/platform/metrics"
	"invoicer/internal/platform/middleware"
	id "invoicer/pkg/domain"
	dErrors "invoicer/pkg/domain-errors"
	"invoicer/pkg/platform/httputil"
)

// Service defines the invoice operations the handler depends on.
type Service interface {
	Create(ctx context.Context, in service.CreateInvoiceInput) (*models.Invoice, error)
	Get(ctx context.Context, invoiceID id.InvoiceID) (*models.Invoice, error)
	Send(ctx context.Context, invoiceID id.InvoiceID) error
}

// Handler handles invoice endpoints.
type Handler struct {
	invoices Service
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New creates a new invoice Handler.
func New(invoices Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{invoices: invoices, logger: logger, metrics: m}
}

// Register registers the invoice routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/invoices", func(router chi.Router) {
		router.Use(middleware.Recovery(h.logger))
		router.Use(middleware.RequestID)
		router.Use(middleware.Logger(h.logger))
		router.Use(middleware.Timeout(30 * time.Second))
		router.Use(middleware.ContentTypeJSON)
		router.Use(middleware.Latency(h.metrics))
		router.Post("/", h.handleCreate)
		router.Get("/{id}", h.handleView)
		router.Post("/{id}/send", h.handleSend)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid create invoice request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	inv, err := h.invoices.Create(ctx, req.toInput())
	if err != nil {
		h.writeServiceError(w, r, "failed to create invoice", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, invoiceResponseFrom(inv))
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invoiceID, err := id.ParseInvoiceID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	inv, err := h.invoices.Get(ctx, invoiceID)
	if err != nil {
		h.writeServiceError(w, r, "failed to load invoice", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, invoiceResponseFrom(inv))
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invoiceID, err := id.ParseInvoiceID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.invoices.Send(ctx, invoiceID); err != nil {
		h.writeServiceError(w, r, "failed to send invoice", err)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{
		"message": "invoice sending process initiated successfully",
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeNotFound, dErrors.CodeInvalidTransition, dErrors.CodeConflict:
		h.logger.WarnContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	default:
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
