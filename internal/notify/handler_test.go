package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/posbill/billing-service/internal/domain"
)

func TestReceiptHandler_Handle(t *testing.T) {
	event := domain.PaymentCompletedEvent{
		OrderID:           "order-1",
		CustomerName:      "Asha",
		RazorpayPaymentID: "pay_gw1",
		GrandTotal:        decimal.RequireFromString("105.50"),
		Timestamp:         time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("sends a receipt email", func(t *testing.T) {
		var sent map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/send" {
				t.Errorf("expected /send, got %s", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
				t.Fatalf("failed to decode email request: %v", err)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		handler := NewReceiptHandler(server.URL, "receipts@posbill.local", server.Client(), logger)

		if err := handler.Handle(context.Background(), payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if sent["to"] != "receipts@posbill.local" {
			t.Errorf("unexpected recipient: %s", sent["to"])
		}
		if sent["subject"] != "Payment received: order-1" {
			t.Errorf("unexpected subject: %s", sent["subject"])
		}
	})

	t.Run("fails when the email service errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		handler := NewReceiptHandler(server.URL, "receipts@posbill.local", server.Client(), logger)

		if err := handler.Handle(context.Background(), payload); err == nil {
			t.Fatal("expected error for failed email delivery")
		}
	})

	t.Run("fails on a malformed payload", func(t *testing.T) {
		handler := NewReceiptHandler("http://unused", "receipts@posbill.local", http.DefaultClient, logger)

		if err := handler.Handle(context.Background(), []byte("{")); err == nil {
			t.Fatal("expected error for malformed payload")
		}
	})
}
