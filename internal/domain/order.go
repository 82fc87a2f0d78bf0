package domain

import (
	"context"
	"time"
)

const OrderStatusPlaced = "placed"

// OrderItem 带下单时的名称/单价快照
type OrderItem struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int
}

type Order struct {
	ID        string
	UserID    string
	Items     []OrderItem
	Total     float64
	Status    string
	CreatedAt time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	// List userID 为空时不过滤
	List(ctx context.Context, userID string, offset, limit int) ([]Order, int64, error)
}
