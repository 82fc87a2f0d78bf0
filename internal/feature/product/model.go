package product

import (
	"time"

	"fruito-api/internal/domain"
)

type ProductModel struct {
	ID          string  `gorm:"primaryKey;type:varchar(32)" bson:"_id"`
	Name        string  `gorm:"type:text;not null" bson:"name"`
	Description *string `gorm:"type:text" bson:"description,omitempty"`
	Price       float64 `gorm:"not null;default:0" bson:"price"`
	Image       *string `gorm:"type:text" bson:"image,omitempty"`
	Stock       int     `gorm:"not null;default:0" bson:"stock"`

	CreatedAt time.Time `gorm:"autoCreateTime" bson:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" bson:"updated_at"`
}

func (ProductModel) TableName() string { return "product" }

func FromDomain(p *domain.Product) ProductModel {
	return ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m ProductModel) ToDomain() domain.Product {
	return domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Image:       m.Image,
		Stock:       m.Stock,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
