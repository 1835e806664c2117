package worker

import (
	"context"
	"log/slog"
	"time"

	"bistro/internal/service"
)

// StockWorker periodically scans for ingredients at or below their low-stock
// threshold and publishes them to the inventory channel so staff displays
// can warn before a dish becomes unplaceable.
type StockWorker struct {
	invSvc   *service.InventoryService
	pub      service.Publisher
	interval time.Duration
}

func NewStockWorker(invSvc *service.InventoryService, pub service.Publisher) *StockWorker {
	return &StockWorker{
		invSvc:   invSvc,
		pub:      pub,
		interval: time.Minute,
	}
}

func (w *StockWorker) Start(ctx context.Context) {
	slog.Info("starting stock worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("stock worker stopped")
			return
		case <-ticker.C:
			if err := w.check(ctx); err != nil {
				slog.Error("low stock check failed", "error", err)
			}
		}
	}
}

func (w *StockWorker) check(ctx context.Context) error {
	low, err := w.invSvc.LowStock(ctx)
	if err != nil {
		return err
	}
	if len(low) == 0 {
		return nil
	}

	slog.Warn("ingredients running low", "count", len(low))
	if err := w.pub.Publish(ctx, service.TopicInventory, low); err != nil {
		slog.Error("low stock publish failed", "error", err)
	}
	return nil
}
