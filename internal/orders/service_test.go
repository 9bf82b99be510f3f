package orders

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/posbill/billing-service/internal/domain"
)

type fakeStore struct {
	orders map[string]*domain.Order
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: make(map[string]*domain.Order)}
}

func (f *fakeStore) Create(_ context.Context, order *domain.Order) error {
	f.nextID++
	order.ID = f.nextID
	clone := *order
	f.orders[order.OrderID] = &clone
	return nil
}

func (f *fakeStore) GetByOrderID(_ context.Context, orderID string) (*domain.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, nil
	}
	clone := *order
	return &clone, nil
}

func (f *fakeStore) UpdatePayment(_ context.Context, order *domain.Order) error {
	existing, ok := f.orders[order.OrderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	existing.Payment = order.Payment
	return nil
}

func (f *fakeStore) Delete(_ context.Context, orderID string) error {
	if _, ok := f.orders[orderID]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(f.orders, orderID)
	return nil
}

func (f *fakeStore) List(_ context.Context) ([]domain.Order, error) {
	var list []domain.Order
	for _, order := range f.orders {
		list = append(list, *order)
	}
	return list, nil
}

type fakeVerifier struct {
	valid bool
}

func (f fakeVerifier) Verify(_, _, _ string) bool {
	return f.valid
}

func newTestService(store *fakeStore, verifier SignatureVerifier) *Service {
	return NewService(store, verifier, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func createRequest(method string) CreateOrderRequest {
	return CreateOrderRequest{
		CustomerName:  "Asha",
		PhoneNumber:   "9876543210",
		Subtotal:      decimal.NewFromInt(100),
		Tax:           decimal.NewFromInt(5),
		GrandTotal:    decimal.NewFromInt(105),
		PaymentMethod: method,
		CartItems: []CartItemRequest{
			{ItemID: "item-a", Name: "A", Price: decimal.NewFromInt(10), Quantity: 2},
		},
	}
}

func TestService_Create(t *testing.T) {
	t.Run("cash orders complete immediately", func(t *testing.T) {
		store := newFakeStore()
		service := newTestService(store, fakeVerifier{})

		resp, err := service.Create(context.Background(), createRequest("CASH"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resp.Payment.Status != string(domain.PaymentStatusCompleted) {
			t.Errorf("expected status COMPLETED, got %s", resp.Payment.Status)
		}
		if resp.OrderID == "" {
			t.Error("expected order id to be assigned")
		}
		if !resp.GrandTotal.Equal(decimal.NewFromInt(105)) {
			t.Errorf("expected grand total 105, got %s", resp.GrandTotal)
		}
		if len(resp.Items) != 1 || resp.Items[0].Name != "A" || resp.Items[0].Quantity != 2 {
			t.Errorf("unexpected items: %+v", resp.Items)
		}
	})

	t.Run("online orders start pending", func(t *testing.T) {
		store := newFakeStore()
		service := newTestService(store, fakeVerifier{})

		resp, err := service.Create(context.Background(), createRequest("ONLINE"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resp.Payment.Status != string(domain.PaymentStatusPending) {
			t.Errorf("expected status PENDING, got %s", resp.Payment.Status)
		}
	})

	t.Run("unknown payment method fails without persisting", func(t *testing.T) {
		store := newFakeStore()
		service := newTestService(store, fakeVerifier{})

		_, err := service.Create(context.Background(), createRequest("BARTER"))
		if !errors.Is(err, domain.ErrInvalidPaymentMethod) {
			t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
		}
		if len(store.orders) != 0 {
			t.Errorf("expected no orders persisted, got %d", len(store.orders))
		}
	})
}

type capturedEvent struct {
	topic string
	key   string
	event any
}

type fakePublisher struct {
	events []capturedEvent
}

func (f *fakePublisher) Publish(_ context.Context, topic, key string, event any) error {
	f.events = append(f.events, capturedEvent{topic: topic, key: key, event: event})
	return nil
}

func TestService_PublishesEvents(t *testing.T) {
	store := newFakeStore()
	publisher := &fakePublisher{}
	service := NewService(store, fakeVerifier{valid: true}, publisher, slog.New(slog.NewTextHandler(io.Discard, nil)))

	created, err := service.Create(context.Background(), createRequest("ONLINE"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = service.VerifyPayment(context.Background(), VerifyPaymentRequest{
		OrderID:           created.OrderID,
		RazorpayOrderID:   "order_gw1",
		RazorpayPaymentID: "pay_gw1",
		RazorpaySignature: "sig",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(publisher.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(publisher.events))
	}
	if publisher.events[0].topic != TopicOrderCreated || publisher.events[0].key != created.OrderID {
		t.Errorf("unexpected first event: %+v", publisher.events[0])
	}
	if publisher.events[1].topic != TopicPaymentCompleted {
		t.Errorf("unexpected second event: %+v", publisher.events[1])
	}
}

func TestService_Delete(t *testing.T) {
	t.Run("deletes an existing order", func(t *testing.T) {
		store := newFakeStore()
		service := newTestService(store, fakeVerifier{})

		resp, err := service.Create(context.Background(), createRequest("CASH"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := service.Delete(context.Background(), resp.OrderID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(store.orders) != 0 {
			t.Error("expected order to be removed")
		}
	})

	t.Run("unknown id fails with not found and leaves store unchanged", func(t *testing.T) {
		store := newFakeStore()
		service := newTestService(store, fakeVerifier{})

		if _, err := service.Create(context.Background(), createRequest("CASH")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		err := service.Delete(context.Background(), "missing")
		if !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
		if len(store.orders) != 1 {
			t.Errorf("expected store unchanged, got %d orders", len(store.orders))
		}
	})
}

func TestService_VerifyPayment(t *testing.T) {
	verifyRequest := func(orderID string) VerifyPaymentRequest {
		return VerifyPaymentRequest{
			OrderID:           orderID,
			RazorpayOrderID:   "order_gw1",
			RazorpayPaymentID: "pay_gw1",
			RazorpaySignature: "sig",
		}
	}

	t.Run("unknown order fails with not found", func(t *testing.T) {
		service := newTestService(newFakeStore(), fakeVerifier{valid: true})

		_, err := service.VerifyPayment(context.Background(), verifyRequest("missing"))
		if !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("invalid signature never mutates the order", func(t *testing.T) {
		store := newFakeStore()
		service := newTestService(store, fakeVerifier{valid: false})

		created, err := service.Create(context.Background(), createRequest("ONLINE"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err = service.VerifyPayment(context.Background(), verifyRequest(created.OrderID))
		if !errors.Is(err, domain.ErrVerificationFailed) {
			t.Fatalf("expected ErrVerificationFailed, got %v", err)
		}

		stored := store.orders[created.OrderID]
		if stored.Payment.Status != domain.PaymentStatusPending {
			t.Errorf("expected status PENDING, got %s", stored.Payment.Status)
		}
		if stored.Payment.RazorpayPaymentID != "" {
			t.Errorf("expected no gateway references stored, got %q", stored.Payment.RazorpayPaymentID)
		}
	})

	t.Run("valid signature completes the payment and stores the triple", func(t *testing.T) {
		store := newFakeStore()
		service := newTestService(store, fakeVerifier{valid: true})

		created, err := service.Create(context.Background(), createRequest("ONLINE"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		resp, err := service.VerifyPayment(context.Background(), verifyRequest(created.OrderID))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resp.Payment.Status != string(domain.PaymentStatusCompleted) {
			t.Errorf("expected status COMPLETED, got %s", resp.Payment.Status)
		}

		stored := store.orders[created.OrderID]
		if stored.Payment.RazorpayOrderID != "order_gw1" ||
			stored.Payment.RazorpayPaymentID != "pay_gw1" ||
			stored.Payment.RazorpaySignature != "sig" {
			t.Errorf("expected gateway triple stored, got %+v", stored.Payment)
		}
	})

	t.Run("re-verifying with a valid triple is idempotent", func(t *testing.T) {
		store := newFakeStore()
		service := newTestService(store, fakeVerifier{valid: true})

		created, err := service.Create(context.Background(), createRequest("ONLINE"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		first, err := service.VerifyPayment(context.Background(), verifyRequest(created.OrderID))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := service.VerifyPayment(context.Background(), verifyRequest(created.OrderID))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if first.Payment != second.Payment {
			t.Errorf("expected identical payment state, got %+v and %+v", first.Payment, second.Payment)
		}
	})
}
