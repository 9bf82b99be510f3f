package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/posbill/billing-service/internal/domain"
)

var csvHeader = []string{
	"Order ID", "Customer Name", "Phone Number", "Items",
	"Total", "Payment Method", "Status", "Date",
}

// marshalOrdersCSV emits one row per order with a "name x quantity" item
// summary. Embedded quotes and commas are escaped per RFC 4180.
func marshalOrdersCSV(list []domain.Order) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, order := range list {
		parts := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			parts = append(parts, fmt.Sprintf("%s x %d", item.Name, item.Quantity))
		}

		status := string(order.Payment.Status)
		if status == "" {
			status = string(domain.PaymentStatusPending)
		}

		record := []string{
			order.OrderID,
			order.CustomerName,
			order.PhoneNumber,
			strings.Join(parts, "; "),
			order.GrandTotal.StringFixed(2),
			string(order.Method),
			status,
			order.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
