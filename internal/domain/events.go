package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderCreatedEvent struct {
	OrderID      string          `json:"order_id"`
	CustomerName string          `json:"customer_name"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	Method       PaymentMethod   `json:"payment_method"`
	Timestamp    time.Time       `json:"timestamp"`
}

type PaymentCompletedEvent struct {
	OrderID           string          `json:"order_id"`
	CustomerName      string          `json:"customer_name"`
	RazorpayPaymentID string          `json:"razorpay_payment_id"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	Timestamp         time.Time       `json:"timestamp"`
}
