package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fruito-api/internal/domain"
	"fruito-api/internal/feature/order"
	"fruito-api/pkg/utils"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = utils.NewID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	m := order.FromDomain(o)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *OrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var m order.OrderModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o := m.ToDomain()
	return &o, nil
}

func (r *OrderRepo) List(ctx context.Context, userID string, offset, limit int) ([]domain.Order, int64, error) {
	tx := r.db.WithContext(ctx).Model(&order.OrderModel{})
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	tx = tx.Session(&gorm.Session{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ms []order.OrderModel
	if err := tx.Order("created_at desc").Offset(offset).Limit(limit).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.Order, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out, total, nil
}
