package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/posbill/billing-service/internal/domain"
)

// ReceiptHandler turns payment.completed events into receipt emails sent
// through the email collaborator service.
type ReceiptHandler struct {
	emailServiceURL string
	receiptsEmail   string
	httpClient      *http.Client
	logger          *slog.Logger
}

func NewReceiptHandler(emailServiceURL, receiptsEmail string, client *http.Client, logger *slog.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		emailServiceURL: emailServiceURL,
		receiptsEmail:   receiptsEmail,
		httpClient:      client,
		logger:          logger,
	}
}

func (h *ReceiptHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.PaymentCompletedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal payment completed event: %w", err)
	}

	h.logger.Info("processing payment completed event", "order_id", event.OrderID)

	body := map[string]string{
		"to":      h.receiptsEmail,
		"subject": "Payment received: " + event.OrderID,
		"body": fmt.Sprintf("Payment of %s received from %s (payment %s).",
			event.GrandTotal.StringFixed(2), event.CustomerName, event.RazorpayPaymentID),
	}

	if err := h.sendEmail(ctx, body); err != nil {
		h.logger.Error("failed to send receipt email", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send receipt email: %w", err)
	}

	h.logger.Info("receipt sent", "order_id", event.OrderID)
	return nil
}

func (h *ReceiptHandler) sendEmail(ctx context.Context, body map[string]string) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.emailServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}

	return nil
}
