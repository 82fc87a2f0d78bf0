package handler

import (
	"errors"

	"fruito-api/internal/domain"
	"fruito-api/internal/transport/http/ez"
)

// fail 领域错误 → 对外文案；未识别的交给 ez 统一 500
func fail(err error) error {
	var se *domain.StockError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &se):
		return ez.BadRequest("Insufficient stock for " + se.Product)
	case errors.Is(err, domain.ErrReservedEmail):
		return ez.BadRequest("This email is reserved for admin")
	case errors.Is(err, domain.ErrEmailTaken):
		return ez.BadRequest("Email already registered")
	case errors.Is(err, domain.ErrInvalidQuantity):
		return ez.BadRequest("Quantity must be at least 1")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return ez.Unauthorized("Invalid credentials")
	case errors.Is(err, domain.ErrNotUserAccount):
		return ez.Forbidden("Not a user account")
	case errors.Is(err, domain.ErrAdminDenied):
		return ez.Forbidden("Admin access denied")
	case errors.Is(err, domain.ErrProductNotFound):
		return ez.NotFound("Product not found")
	case errors.Is(err, domain.ErrOrderNotFound):
		return ez.NotFound("Order not found")
	case errors.Is(err, domain.ErrNotFound):
		return ez.NotFound("Not found")
	}
	return err
}
