package store

import (
	"context"

	"github.com/medghazouan/bidayalab/internal/models"
)

type DashboardStats struct {
	TotalBlogs        int64
	TotalProjects     int64
	TotalPlans        int64
	TotalTestimonials int64
	TotalMessages     int64
	UnreadMessages    int64
	TotalOrders       int64
	OrdersByStatus    map[models.OrderStatus]int64
}

func (s *Store) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		OrdersByStatus: make(map[models.OrderStatus]int64),
	}

	totals := []struct {
		count func(context.Context, string, any) (int64, error)
		dst   *int64
	}{
		{s.Blogs.Count, &stats.TotalBlogs},
		{s.Projects.Count, &stats.TotalProjects},
		{s.Pricing.Count, &stats.TotalPlans},
		{s.Testimonials.Count, &stats.TotalTestimonials},
		{s.Contacts.Count, &stats.TotalMessages},
		{s.Orders.Count, &stats.TotalOrders},
	}
	for _, t := range totals {
		n, err := t.count(ctx, "", nil)
		if err != nil {
			return nil, err
		}
		*t.dst = n
	}

	unread, err := s.Contacts.Count(ctx, "status", string(models.ContactStatusNew))
	if err != nil {
		return nil, err
	}
	stats.UnreadMessages = unread

	for _, status := range models.OrderStatuses {
		n, err := s.Orders.Count(ctx, "status", string(status))
		if err != nil {
			return nil, err
		}
		stats.OrdersByStatus[status] = n
	}

	return stats, nil
}
