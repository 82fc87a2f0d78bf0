package order

import (
	"time"

	"fruito-api/internal/domain"
)

// ItemModel 以 JSON 内嵌在订单里（gorm serializer / mongo 子文档），不单独建表
type ItemModel struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

type OrderModel struct {
	ID     string      `gorm:"primaryKey;type:varchar(32)" bson:"_id"`
	// 带索引，mysql 不能给 TEXT 直接建索引，入参层限 255
	UserID string      `gorm:"size:255;not null;index" bson:"user_id"`
	Items  []ItemModel `gorm:"serializer:json;type:text" bson:"items"`
	Total  float64     `gorm:"not null" bson:"total"`
	Status string      `gorm:"size:16;not null;default:placed" bson:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" bson:"created_at"`
}

func (OrderModel) TableName() string { return "order" }

func FromDomain(o *domain.Order) OrderModel {
	items := make([]ItemModel, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemModel{ProductID: it.ProductID, Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	return OrderModel{
		ID:        o.ID,
		UserID:    o.UserID,
		Items:     items,
		Total:     o.Total,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
}

func (m OrderModel) ToDomain() domain.Order {
	items := make([]domain.OrderItem, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, domain.OrderItem{ProductID: it.ProductID, Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	return domain.Order{
		ID:        m.ID,
		UserID:    m.UserID,
		Items:     items,
		Total:     m.Total,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
}
