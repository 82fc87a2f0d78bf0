package domain

import (
	"context"
	"time"
)

type Product struct {
	ID          string
	Name        string
	Description *string
	Price       float64
	Image       *string
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	// DecrementStock 原子条件扣减：仅当 stock >= qty 时 stock -= qty。
	// 返回 false 表示库存不足或商品不存在，此时没有任何写入。
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)
	// IncrementStock 用于下单失败时回补
	IncrementStock(ctx context.Context, id string, qty int) error
}
