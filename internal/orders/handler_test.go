package orders

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/posbill/billing-service/internal/domain"
)

func newTestHandler(store *fakeStore) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(NewService(store, fakeVerifier{}, nil, logger), logger)
}

func TestHandler_HandleCreate(t *testing.T) {
	t.Run("creates a cash order", func(t *testing.T) {
		handler := newTestHandler(newFakeStore())

		body := `{
			"customer_name": "Asha",
			"phone_number": "9876543210",
			"subtotal": "100",
			"tax": "5",
			"grand_total": "105",
			"payment_method": "CASH",
			"cart_items": [{"item_id": "item-a", "name": "A", "price": "10", "quantity": 2}]
		}`
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp OrderResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Payment.Status != string(domain.PaymentStatusCompleted) {
			t.Errorf("expected status COMPLETED, got %s", resp.Payment.Status)
		}
	})

	t.Run("rejects an unknown payment method", func(t *testing.T) {
		handler := newTestHandler(newFakeStore())

		body := `{"payment_method": "CARD"}`
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		handler := newTestHandler(newFakeStore())

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{"))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleDelete(t *testing.T) {
	t.Run("returns 404 for an unknown order", func(t *testing.T) {
		handler := newTestHandler(newFakeStore())

		mux := http.NewServeMux()
		mux.HandleFunc("DELETE /orders/{orderId}", handler.HandleDelete)

		req := httptest.NewRequest(http.MethodDelete, "/orders/missing", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("deletes an existing order", func(t *testing.T) {
		store := newFakeStore()
		handler := newTestHandler(store)

		service := NewService(store, fakeVerifier{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
		created, err := service.Create(context.Background(), createRequest("CASH"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		mux := http.NewServeMux()
		mux.HandleFunc("DELETE /orders/{orderId}", handler.HandleDelete)

		req := httptest.NewRequest(http.MethodDelete, "/orders/"+created.OrderID, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d", rec.Code)
		}
	})
}
