package store

import (
	"context"

	"github.com/medghazouan/bidayalab/internal/models"
)

func (s *Store) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return s.Orders.FindOne(ctx, "orderNumber", orderNumber)
}

// GetOrdersPage returns one page of orders, newest first, and the total count.
func (s *Store) GetOrdersPage(ctx context.Context, limit, offset int) ([]models.Order, int, error) {
	orders, err := s.Orders.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := len(orders)
	if offset >= total {
		return []models.Order{}, total, nil
	}
	end := min(offset+limit, total)
	return orders[offset:end], total, nil
}
