package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/posbill/billing-service/internal/domain"
)

type CartItemRequest struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerName  string            `json:"customer_name"`
	PhoneNumber   string            `json:"phone_number"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Tax           decimal.Decimal   `json:"tax"`
	GrandTotal    decimal.Decimal   `json:"grand_total"`
	PaymentMethod string            `json:"payment_method"`
	CartItems     []CartItemRequest `json:"cart_items"`
}

type VerifyPaymentRequest struct {
	OrderID           string `json:"order_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type LineItemResponse struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type PaymentDetailsResponse struct {
	Status            string `json:"status"`
	RazorpayOrderID   string `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string `json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string `json:"razorpay_signature,omitempty"`
}

type OrderResponse struct {
	OrderID       string                 `json:"order_id"`
	CustomerName  string                 `json:"customer_name"`
	PhoneNumber   string                 `json:"phone_number"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	Tax           decimal.Decimal        `json:"tax"`
	GrandTotal    decimal.Decimal        `json:"grand_total"`
	PaymentMethod string                 `json:"payment_method"`
	Items         []LineItemResponse     `json:"items"`
	Payment       PaymentDetailsResponse `json:"payment"`
	CreatedAt     time.Time              `json:"created_at"`
}

// NewOrderResponse is a pure mapping from the stored order to the external
// response shape.
func NewOrderResponse(order domain.Order) OrderResponse {
	items := make([]LineItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItemResponse{
			ItemID:   item.ItemID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	return OrderResponse{
		OrderID:       order.OrderID,
		CustomerName:  order.CustomerName,
		PhoneNumber:   order.PhoneNumber,
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		GrandTotal:    order.GrandTotal,
		PaymentMethod: string(order.Method),
		Items:         items,
		Payment: PaymentDetailsResponse{
			Status:            string(order.Payment.Status),
			RazorpayOrderID:   order.Payment.RazorpayOrderID,
			RazorpayPaymentID: order.Payment.RazorpayPaymentID,
			RazorpaySignature: order.Payment.RazorpaySignature,
		},
		CreatedAt: order.CreatedAt,
	}
}

func NewOrderResponses(list []domain.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(list))
	for _, order := range list {
		responses = append(responses, NewOrderResponse(order))
	}
	return responses
}
