package service

import (
	"context"
	"log/slog"
)

// Topics the core publishes state changes to. The transport behind them is
// an external concern; the core only needs Publish.
const (
	TopicKitchen   = "kitchen"
	TopicBilling   = "billing"
	TopicInventory = "inventory"
)

func TopicCustomer(customerID string) string {
	return "customer." + customerID
}

type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// notify broadcasts after a committed mutation. Delivery failures are logged
// and swallowed; the committed state, not the broadcast, is authoritative.
func notify(ctx context.Context, pub Publisher, topic string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, topic, payload); err != nil {
		slog.Error("notification publish failed", "topic", topic, "error", err)
	}
}
