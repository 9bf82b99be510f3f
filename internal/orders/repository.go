package orders

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/posbill/billing-service/internal/domain"
)

const orderColumns = `id, order_id, customer_name, phone_number, subtotal, tax, grand_total,
	payment_method, payment_status, razorpay_order_id, razorpay_payment_id, razorpay_signature, created_at`

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists the order and its line items in a single transaction.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (order_id, customer_name, phone_number, subtotal, tax, grand_total,
			payment_method, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, order.OrderID, order.CustomerName, order.PhoneNumber, order.Subtotal, order.Tax,
		order.GrandTotal, order.Method, order.Payment.Status, order.CreatedAt).Scan(&order.ID)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_fk, item_id, name, price, quantity)
			VALUES ($1, $2, $3, $4, $5)
		`, order.ID, item.ItemID, item.Name, item.Price, item.Quantity)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByOrderID returns nil without error when the order does not exist.
func (r *OrderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE order_id = $1
	`, orderID)

	order, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id, name, price, quantity
		FROM order_items
		WHERE order_fk = $1
		ORDER BY id
	`, order.ID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ItemID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

// UpdatePayment writes the payment state back to the order row. All other
// order fields are immutable after creation.
func (r *OrderRepository) UpdatePayment(ctx context.Context, order *domain.Order) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = $1, razorpay_order_id = $2, razorpay_payment_id = $3, razorpay_signature = $4
		WHERE order_id = $5
	`, order.Payment.Status, nullable(order.Payment.RazorpayOrderID),
		nullable(order.Payment.RazorpayPaymentID), nullable(order.Payment.RazorpaySignature),
		order.OrderID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// Delete removes the order; line items cascade at the schema level.
func (r *OrderRepository) Delete(ctx context.Context, orderID string) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM orders WHERE order_id = $1
	`, orderID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC
	`)
}

func (r *OrderRepository) ListBetween(ctx context.Context, start, end time.Time) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC
	`, start, end)
}

func (r *OrderRepository) ListPage(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
}

func (r *OrderRepository) ListPageBetween(ctx context.Context, start, end time.Time, limit, offset int) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, start, end, limit, offset)
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}

func (r *OrderRepository) CountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders WHERE created_at >= $1 AND created_at <= $2
	`, start, end).Scan(&count)
	return count, err
}

// SumForDate sums grand totals for the calendar day of the given date.
// The half-open range keeps the created_at index usable.
func (r *OrderRepository) SumForDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	from, to := dayRange(date)

	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(grand_total), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
	`, from, to).Scan(&total)
	return total, err
}

func (r *OrderRepository) CountForDate(ctx context.Context, date time.Time) (int64, error) {
	from, to := dayRange(date)

	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
	`, from, to).Scan(&count)
	return count, err
}

// SalesByMonth groups the year's orders by calendar month. Months without
// orders produce no row.
func (r *OrderRepository) SalesByMonth(ctx context.Context, year int) ([]domain.MonthTotal, error) {
	from, to := yearRange(year)

	rows, err := r.db.QueryContext(ctx, `
		SELECT EXTRACT(MONTH FROM created_at)::int AS month, SUM(grand_total)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY month
		ORDER BY month
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var totals []domain.MonthTotal
	for rows.Next() {
		var t domain.MonthTotal
		if err := rows.Scan(&t.Month, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}

// SalesByWeek groups by Postgres' native ISO-8601 week number.
func (r *OrderRepository) SalesByWeek(ctx context.Context, year int) ([]domain.WeekTotal, error) {
	from, to := yearRange(year)

	rows, err := r.db.QueryContext(ctx, `
		SELECT EXTRACT(WEEK FROM created_at)::int AS week, SUM(grand_total)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY week
		ORDER BY week
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var totals []domain.WeekTotal
	for rows.Next() {
		var t domain.WeekTotal
		if err := rows.Scan(&t.Week, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[int64]*domain.Order)
	var ids []int64

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		order.Items = []domain.LineItem{}
		orderMap[order.ID] = order
		ids = append(ids, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT order_fk, item_id, name, price, quantity
		FROM order_items
		WHERE order_fk = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderFK int64
		var item domain.LineItem
		if err := itemRows.Scan(&orderFK, &item.ItemID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		order := orderMap[orderFK]
		order.Items = append(order.Items, item)
	}

	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		orders = append(orders, *orderMap[id])
	}

	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	var gatewayOrderID, gatewayPaymentID, gatewaySignature sql.NullString

	err := row.Scan(&order.ID, &order.OrderID, &order.CustomerName, &order.PhoneNumber,
		&order.Subtotal, &order.Tax, &order.GrandTotal, &order.Method, &order.Payment.Status,
		&gatewayOrderID, &gatewayPaymentID, &gatewaySignature, &order.CreatedAt)
	if err != nil {
		return nil, err
	}

	order.Payment.RazorpayOrderID = gatewayOrderID.String
	order.Payment.RazorpayPaymentID = gatewayPaymentID.String
	order.Payment.RazorpaySignature = gatewaySignature.String

	return order, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func dayRange(date time.Time) (time.Time, time.Time) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return from, from.AddDate(0, 0, 1)
}

func yearRange(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}
