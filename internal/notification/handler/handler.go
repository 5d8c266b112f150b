// Package handler exposes the inbound delivery-confirmation webhook.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"invoicer/internal/platform/middleware"
	id "invoicer/pkg/domain"
	"invoicer/pkg/platform/httputil"
	"invoicer/pkg/requestcontext"
)

// Confirmer applies a delivery confirmation for an invoice.
type Confirmer interface {
	ConfirmDelivery(ctx context.Context, invoiceID id.InvoiceID) error
}

// EventGuard short-circuits events that were already handled. Optional.
type EventGuard interface {
	FirstSeen(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

// eventIDHeader carries the provider's event ID for duplicate suppression.
const eventIDHeader = "X-Event-ID"

// Handler receives delivery notifications from the mail provider.
type Handler struct {
	confirmer Confirmer
	guard     EventGuard
	logger    *slog.Logger
}

func New(confirmer Confirmer, guard EventGuard, logger *slog.Logger) *Handler {
	return &Handler{confirmer: confirmer, guard: guard, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/notification", func(router chi.Router) {
		router.Use(middleware.Recovery(h.logger))
		router.Use(middleware.RequestID)
		router.Use(middleware.Logger(h.logger))
		router.Post("/hook/delivered/{id}", h.handleDelivered)
	})
}

// handleDelivered accepts a delivery event for an invoice. Anything the
// confirmation workflow absorbs (unknown invoice, replayed event) answers
// 200 so the provider stops retrying; only infrastructure failures answer
// 5xx to trigger redelivery.
func (h *Handler) handleDelivered(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invoiceID, err := id.ParseInvoiceID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	eventID := r.Header.Get(eventIDHeader)
	if eventID != "" {
		ctx = requestcontext.WithEventID(ctx, eventID)
	}
	if h.guard != nil && eventID != "" {
		first, err := h.guard.FirstSeen(ctx, eventID)
		if err != nil {
			h.logger.ErrorContext(ctx, "event guard unavailable", "event_id", eventID, "error", err)
			httputil.WriteError(w, err)
			return
		}
		if !first {
			h.logger.InfoContext(ctx, "duplicate delivery event suppressed",
				"event_id", eventID, "invoice_id", invoiceID.String())
			httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "event already processed"})
			return
		}
	}

	if err := h.confirmer.ConfirmDelivery(ctx, invoiceID); err != nil {
		// Release the event marker so the provider's retry is not swallowed.
		if h.guard != nil && eventID != "" {
			if ferr := h.guard.Forget(ctx, eventID); ferr != nil {
				h.logger.ErrorContext(ctx, "failed to release event marker", "event_id", eventID, "error", ferr)
			}
		}
		h.logger.ErrorContext(ctx, "delivery confirmation failed",
			"invoice_id", invoiceID.String(), "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "delivery confirmation accepted"})
}
