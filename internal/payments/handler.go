package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/posbill/billing-service/internal/domain"
	"github.com/posbill/billing-service/internal/orders"
)

// OrderVerifier is the slice of the order lifecycle service the payment
// endpoints need.
type OrderVerifier interface {
	VerifyPayment(ctx context.Context, req orders.VerifyPaymentRequest) (*orders.OrderResponse, error)
}

type Handler struct {
	client   *Client
	verifier OrderVerifier
	logger   *slog.Logger
}

func NewHandler(client *Client, verifier OrderVerifier, logger *slog.Logger) *Handler {
	return &Handler{
		client:   client,
		verifier: verifier,
		logger:   logger,
	}
}

type createGatewayOrderRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createGatewayOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.client.CreateOrder(r.Context(), req.Amount, req.Currency)
	if err != nil {
		h.logger.Error("failed to create gateway order", "error", err)
		h.writeError(w, http.StatusBadGateway, "payment gateway unavailable")
		return
	}

	h.logger.Info("gateway order created", "gateway_order_id", order.ID, "amount", order.Amount)
	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req orders.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.verifier.VerifyPayment(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			h.writeError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, domain.ErrVerificationFailed):
			h.writeError(w, http.StatusBadRequest, "payment verification failed")
		default:
			h.logger.Error("failed to verify payment", "error", err, "order_id", req.OrderID)
			h.writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.logger.Info("payment verified", "order_id", order.OrderID, "razorpay_payment_id", req.RazorpayPaymentID)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
