package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestClient_CreateOrder(t *testing.T) {
	t.Run("registers the amount in minor units", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/orders" {
				t.Errorf("expected /v1/orders, got %s", r.URL.Path)
			}
			user, pass, ok := r.BasicAuth()
			if !ok || user != "key-id" || pass != "key-secret" {
				t.Errorf("unexpected credentials: %s:%s", user, pass)
			}

			var req map[string]any
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if req["amount"] != float64(10550) {
				t.Errorf("expected amount 10550, got %v", req["amount"])
			}
			if req["currency"] != "INR" {
				t.Errorf("expected currency INR, got %v", req["currency"])
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"id":"order_gw1","amount":10550,"currency":"INR","status":"created"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "key-id", "key-secret", server.Client())

		order, err := client.CreateOrder(context.Background(), decimal.RequireFromString("105.50"), "INR")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.ID != "order_gw1" {
			t.Errorf("expected gateway order id order_gw1, got %s", order.ID)
		}
		if order.Status != "created" {
			t.Errorf("expected status created, got %s", order.Status)
		}
	})

	t.Run("surfaces gateway errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(server.URL, "key-id", "wrong", server.Client())

		_, err := client.CreateOrder(context.Background(), decimal.NewFromInt(10), "INR")
		if err == nil {
			t.Fatal("expected error for non-2xx response")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(server.URL, "key-id", "key-secret", server.Client())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.CreateOrder(ctx, decimal.NewFromInt(10), "INR")
		if err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}
