package services

import (
	"context"
	"sort"
	"time"

	"milano/entity"
	"milano/pkg/apperr"
	"milano/repository"

	"github.com/shopspring/decimal"
)

const topProductsLimit = 10

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod falls back to month for anything it does not know.
func ParsePeriod(s string) Period {
	switch p := Period(s); p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p
	}
	return PeriodMonth
}

type DayRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

type StatusCount struct {
	Status entity.OrderStatus `json:"status"`
	Count  int                `json:"count"`
}

type TopProduct struct {
	MenuItemID   uint            `json:"menuItemId"`
	Name         string          `json:"name"`
	TotalSold    int             `json:"totalSold"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

type Analytics struct {
	Period            Period          `json:"period"`
	From              time.Time       `json:"from"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalOrders       int             `json:"totalOrders"`
	TotalUsers        int64           `json:"totalUsers"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	RevenueByDay      []DayRevenue    `json:"revenueByDay"`
	OrdersByStatus    []StatusCount   `json:"ordersByStatus"`
	TopProducts       []TopProduct    `json:"topProducts"`
}

type AnalyticsService struct {
	Orders  repository.OrderStore
	Users   repository.UserStore
	Catalog *CatalogService

	Now      func() time.Time
	Location *time.Location
}

func NewAnalyticsService(orders repository.OrderStore, users repository.UserStore, catalog *CatalogService) *AnalyticsService {
	return &AnalyticsService{
		Orders:   orders,
		Users:    users,
		Catalog:  catalog,
		Now:      time.Now,
		Location: time.Local,
	}
}

// RangeStart is local midnight today, minus 7, 30 or 365 days for the
// longer periods.
func (s *AnalyticsService) RangeStart(p Period) time.Time {
	now := s.Now().In(s.Location)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.Location)
	switch p {
	case PeriodDay:
		return midnight
	case PeriodWeek:
		return midnight.AddDate(0, 0, -7)
	case PeriodYear:
		return midnight.AddDate(0, 0, -365)
	}
	return midnight.AddDate(0, 0, -30)
}

func (s *AnalyticsService) Compute(ctx context.Context, period string) (*Analytics, error) {
	p := ParsePeriod(period)
	from := s.RangeStart(p)

	fromUTC := from.UTC()
	orders, err := s.Orders.ListOrders(ctx, repository.OrderFilter{CreatedFrom: &fromUTC})
	if err != nil {
		return nil, apperr.Unavailable(err, "could not load orders")
	}
	users, err := s.Users.CountUsersSince(ctx, fromUTC)
	if err != nil {
		return nil, apperr.Unavailable(err, "could not count users")
	}

	out := reduceOrders(orders, s.Location)
	out.Period = p
	out.From = from
	out.TotalUsers = users

	ids := make([]uint, len(out.TopProducts))
	for i, tp := range out.TopProducts {
		ids[i] = tp.MenuItemID
	}
	names := s.Catalog.Names(ctx, ids)
	for i := range out.TopProducts {
		tp := &out.TopProducts[i]
		if n, ok := names[tp.MenuItemID]; ok {
			tp.Name = n
		} else {
			tp.Name = entity.PlaceholderName(tp.MenuItemID)
		}
	}
	return out, nil
}

// reduceOrders is the pure projection over one snapshot of orders.
func reduceOrders(orders []entity.Order, loc *time.Location) *Analytics {
	out := &Analytics{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		TotalOrders:       len(orders),
		RevenueByDay:      []DayRevenue{},
		OrdersByStatus:    []StatusCount{},
		TopProducts:       []TopProduct{},
	}

	byStatus := make(map[entity.OrderStatus]int)
	byDay := make(map[string]decimal.Decimal)
	products := make(map[uint]*TopProduct)
	delivered := 0

	for _, o := range orders {
		byStatus[o.Status]++
		if o.Status != entity.StatusDelivered {
			continue
		}
		delivered++
		out.TotalRevenue = out.TotalRevenue.Add(o.TotalAmount)

		day := o.CreatedAt.In(loc).Format("2006-01-02")
		byDay[day] = byDay[day].Add(o.TotalAmount)

		for _, it := range o.Items {
			tp, ok := products[it.MenuItemID]
			if !ok {
				tp = &TopProduct{MenuItemID: it.MenuItemID, TotalRevenue: decimal.Zero}
				products[it.MenuItemID] = tp
			}
			tp.TotalSold += it.Quantity
			tp.TotalRevenue = tp.TotalRevenue.Add(it.Subtotal())
		}
	}

	if delivered > 0 {
		out.AverageOrderValue = out.TotalRevenue.Div(decimal.NewFromInt(int64(delivered))).Round(2)
	}

	for day, rev := range byDay {
		out.RevenueByDay = append(out.RevenueByDay, DayRevenue{Date: day, Revenue: rev})
	}
	sort.Slice(out.RevenueByDay, func(i, j int) bool { return out.RevenueByDay[i].Date < out.RevenueByDay[j].Date })

	for _, st := range entity.StatusSequence {
		if n := byStatus[st]; n > 0 {
			out.OrdersByStatus = append(out.OrdersByStatus, StatusCount{Status: st, Count: n})
		}
	}

	for _, tp := range products {
		out.TopProducts = append(out.TopProducts, *tp)
	}
	sort.Slice(out.TopProducts, func(i, j int) bool {
		a, b := out.TopProducts[i], out.TopProducts[j]
		if a.TotalSold != b.TotalSold {
			return a.TotalSold > b.TotalSold
		}
		return a.MenuItemID < b.MenuItemID
	})
	if len(out.TopProducts) > topProductsLimit {
		out.TopProducts = out.TopProducts[:topProductsLimit]
	}
	return out
}
