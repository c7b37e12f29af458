package actions

import (
	"context"

	"github.com/medghazouan/bidayalab/internal/store"
)

type Dashboard struct {
	db *store.Store
}

func (d *Dashboard) Stats(ctx context.Context) (*store.DashboardStats, error) {
	return d.db.GetDashboardStats(ctx)
}
