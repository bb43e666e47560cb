package models

import "time"

const (
	EventCartItemAdded       = "cart.item_added"
	EventCartItemRemoved     = "cart.item_removed"
	EventCartQuantityUpdated = "cart.quantity_updated"
)

// CartEvent is published after every successful cart mutation.
type CartEvent struct {
	Event     string    `json:"event"`
	Username  string    `json:"username"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CartSize  int       `json:"cart_size"`
	Timestamp time.Time `json:"timestamp"`
}
