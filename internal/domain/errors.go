package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")

	ErrReservedEmail      = errors.New("email reserved for admin")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotUserAccount     = errors.New("not a user account")
	ErrAdminDenied        = errors.New("admin access denied")

	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
)

// StockError 携带商品名，errors.Is(err, ErrInsufficientStock) 成立
type StockError struct {
	ProductID string
	Product   string
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.Product)
}

func (e *StockError) Is(target error) bool { return target == ErrInsufficientStock }
