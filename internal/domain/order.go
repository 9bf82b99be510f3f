package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

// ParsePaymentMethod maps a request-supplied string onto the closed set of
// payment methods. Unknown values fail with ErrInvalidPaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentMethodCash:
		return PaymentMethodCash, nil
	case PaymentMethodOnline:
		return PaymentMethodOnline, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)

type LineItem struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// PaymentDetails holds the payment state of an order. The gateway references
// are empty until a payment has been verified.
type PaymentDetails struct {
	Status            PaymentStatus `json:"status"`
	RazorpayOrderID   string        `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string        `json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string        `json:"razorpay_signature,omitempty"`
}

type Order struct {
	ID           int64           `json:"-"`
	OrderID      string          `json:"order_id"`
	CustomerName string          `json:"customer_name"`
	PhoneNumber  string          `json:"phone_number"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	Method       PaymentMethod   `json:"payment_method"`
	Items        []LineItem      `json:"items"`
	Payment      PaymentDetails  `json:"payment"`
	CreatedAt    time.Time       `json:"created_at"`
}
