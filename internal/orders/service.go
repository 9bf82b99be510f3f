package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/posbill/billing-service/internal/domain"
)

const (
	TopicOrderCreated     = "order.created"
	TopicPaymentCompleted = "payment.completed"
)

// OrderStore is the persistence contract the lifecycle service depends on.
// *OrderRepository satisfies it.
type OrderStore interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
	UpdatePayment(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, orderID string) error
	List(ctx context.Context) ([]domain.Order, error)
}

// SignatureVerifier authenticates a gateway-issued credential triple.
type SignatureVerifier interface {
	Verify(gatewayOrderID, gatewayPaymentID, signature string) bool
}

// EventPublisher is satisfied by *messaging.Producer. A nil publisher
// disables event emission.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

type Service struct {
	store     OrderStore
	verifier  SignatureVerifier
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(store OrderStore, verifier SignatureVerifier, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		verifier:  verifier,
		publisher: publisher,
		logger:    logger,
	}
}

// Create persists a new order. Cash orders are completed immediately; any
// other method starts pending until the payment is verified.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, req.PaymentMethod)
	}

	status := domain.PaymentStatusPending
	if method == domain.PaymentMethodCash {
		status = domain.PaymentStatusCompleted
	}

	order := &domain.Order{
		OrderID:      uuid.New().String(),
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		Subtotal:     req.Subtotal,
		Tax:          req.Tax,
		GrandTotal:   req.GrandTotal,
		Method:       method,
		Payment:      domain.PaymentDetails{Status: status},
		CreatedAt:    time.Now().UTC(),
	}

	for _, item := range req.CartItems {
		order.Items = append(order.Items, domain.LineItem{
			ItemID:   item.ItemID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	if err := s.store.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.publish(ctx, TopicOrderCreated, order.OrderID, domain.OrderCreatedEvent{
		OrderID:      order.OrderID,
		CustomerName: order.CustomerName,
		GrandTotal:   order.GrandTotal,
		Method:       order.Method,
		Timestamp:    order.CreatedAt,
	})

	resp := NewOrderResponse(*order)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, orderID string) error {
	existing, err := s.store.GetByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("lookup order: %w", err)
	}
	if existing == nil {
		return domain.ErrOrderNotFound
	}

	return s.store.Delete(ctx, orderID)
}

// VerifyPayment checks the gateway signature and completes the order's
// payment state. Re-verifying an already completed order with a valid triple
// is allowed and overwrites the stored credentials with the same values.
func (s *Service) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*OrderResponse, error) {
	order, err := s.store.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("lookup order: %w", err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	if !s.verifier.Verify(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		return nil, domain.ErrVerificationFailed
	}

	order.Payment.RazorpayOrderID = req.RazorpayOrderID
	order.Payment.RazorpayPaymentID = req.RazorpayPaymentID
	order.Payment.RazorpaySignature = req.RazorpaySignature
	order.Payment.Status = domain.PaymentStatusCompleted

	if err := s.store.UpdatePayment(ctx, order); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}

	s.publish(ctx, TopicPaymentCompleted, order.OrderID, domain.PaymentCompletedEvent{
		OrderID:           order.OrderID,
		CustomerName:      order.CustomerName,
		RazorpayPaymentID: order.Payment.RazorpayPaymentID,
		GrandTotal:        order.GrandTotal,
		Timestamp:         time.Now().UTC(),
	})

	resp := NewOrderResponse(*order)
	return &resp, nil
}

// Latest returns all orders, newest first.
func (s *Service) Latest(ctx context.Context) ([]OrderResponse, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return NewOrderResponses(list), nil
}

func (s *Service) publish(ctx context.Context, topic, key string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, key, event); err != nil {
		s.logger.Error("failed to publish event", "error", err, "topic", topic, "order_id", key)
	}
}
