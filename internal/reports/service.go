package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/posbill/billing-service/internal/domain"
	"github.com/posbill/billing-service/internal/orders"
)

const recentOrderLimit = 5

// SalesStore is the reporting slice of the order repository.
// *orders.OrderRepository satisfies it.
type SalesStore interface {
	List(ctx context.Context) ([]domain.Order, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]domain.Order, error)
	ListPage(ctx context.Context, limit, offset int) ([]domain.Order, error)
	ListPageBetween(ctx context.Context, start, end time.Time, limit, offset int) ([]domain.Order, error)
	Count(ctx context.Context) (int64, error)
	CountBetween(ctx context.Context, start, end time.Time) (int64, error)
	SumForDate(ctx context.Context, date time.Time) (decimal.Decimal, error)
	CountForDate(ctx context.Context, date time.Time) (int64, error)
	SalesByMonth(ctx context.Context, year int) ([]domain.MonthTotal, error)
	SalesByWeek(ctx context.Context, year int) ([]domain.WeekTotal, error)
}

type Service struct {
	store SalesStore
	now   func() time.Time
}

func NewService(store SalesStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

type DashboardResponse struct {
	TodaySales      decimal.Decimal        `json:"today_sales"`
	TodayOrderCount int64                  `json:"today_order_count"`
	RecentOrders    []orders.OrderResponse `json:"recent_orders"`
}

type PageResponse struct {
	Content       []orders.OrderResponse `json:"content"`
	Page          int                    `json:"page"`
	Size          int                    `json:"size"`
	TotalElements int64                  `json:"total_elements"`
	TotalPages    int64                  `json:"total_pages"`
}

// Dashboard reports today's totals and the most recent orders. Sums and
// counts are zero, never absent, when the day has no orders.
func (s *Service) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	today := s.now()

	sales, err := s.store.SumForDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("sum sales for date: %w", err)
	}

	count, err := s.store.CountForDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("count orders for date: %w", err)
	}

	recent, err := s.store.ListPage(ctx, recentOrderLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("list recent orders: %w", err)
	}

	return &DashboardResponse{
		TodaySales:      sales,
		TodayOrderCount: count,
		RecentOrders:    orders.NewOrderResponses(recent),
	}, nil
}

// MonthlySales returns one labeled bucket per month that had orders, month
// ascending. Empty months are omitted.
func (s *Service) MonthlySales(ctx context.Context, year int) ([]domain.MonthlySales, error) {
	totals, err := s.store.SalesByMonth(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("sales by month: %w", err)
	}

	buckets := make([]domain.MonthlySales, 0, len(totals))
	for _, t := range totals {
		buckets = append(buckets, domain.MonthlySales{
			MonthName:  time.Month(t.Month).String(),
			TotalSales: t.Total,
		})
	}

	return buckets, nil
}

// WeeklySales returns one "Week N" bucket per ISO week that had orders.
func (s *Service) WeeklySales(ctx context.Context, year int) ([]domain.WeeklySales, error) {
	totals, err := s.store.SalesByWeek(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("sales by week: %w", err)
	}

	buckets := make([]domain.WeeklySales, 0, len(totals))
	for _, t := range totals {
		buckets = append(buckets, domain.WeeklySales{
			WeekName:   fmt.Sprintf("Week %d", t.Week),
			TotalSales: t.Total,
		})
	}

	return buckets, nil
}

// Paginated returns a zero-based page of orders, newest first. When both
// dates are set the page is restricted to [start 00:00:00, end 23:59:59].
func (s *Service) Paginated(ctx context.Context, page, size int, start, end *time.Time) (*PageResponse, error) {
	offset := page * size

	var (
		list  []domain.Order
		total int64
		err   error
	)

	if start != nil && end != nil {
		from, to := inclusiveDayRange(*start, *end)
		list, err = s.store.ListPageBetween(ctx, from, to, size, offset)
		if err != nil {
			return nil, fmt.Errorf("list page: %w", err)
		}
		total, err = s.store.CountBetween(ctx, from, to)
	} else {
		list, err = s.store.ListPage(ctx, size, offset)
		if err != nil {
			return nil, fmt.Errorf("list page: %w", err)
		}
		total, err = s.store.Count(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	totalPages := total / int64(size)
	if total%int64(size) != 0 {
		totalPages++
	}

	return &PageResponse{
		Content:       orders.NewOrderResponses(list),
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// ExportCSV serializes the selected orders, all of them when no range is
// given, using the same inclusive day-range rule as pagination.
func (s *Service) ExportCSV(ctx context.Context, start, end *time.Time) ([]byte, error) {
	var (
		list []domain.Order
		err  error
	)

	if start != nil && end != nil {
		from, to := inclusiveDayRange(*start, *end)
		list, err = s.store.ListBetween(ctx, from, to)
	} else {
		list, err = s.store.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders for export: %w", err)
	}

	data, err := marshalOrdersCSV(list)
	if err != nil {
		return nil, fmt.Errorf("export orders to csv: %w", err)
	}

	return data, nil
}

func inclusiveDayRange(start, end time.Time) (time.Time, time.Time) {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	to := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())
	return from, to
}
