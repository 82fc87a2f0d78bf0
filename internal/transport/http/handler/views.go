package handler

import (
	"time"

	"fruito-api/internal/domain"
	"fruito-api/internal/service"
)

type userView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserView(u *domain.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type sessionView struct {
	userView
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toSessionView(s *service.Session) sessionView {
	return sessionView{userView: toUserView(&s.User), Token: s.Token.Value, ExpiresAt: s.Token.ExpiresAt}
}

type productView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Image       *string `json:"image"`
	Stock       int     `json:"stock"`
}

func toProductView(p *domain.Product) productView {
	return productView{
		ID: p.ID, Name: p.Name, Description: p.Description,
		Price: p.Price, Image: p.Image, Stock: p.Stock,
	}
}

type orderView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Total     float64   `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type orderItemView struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type orderDetailView struct {
	orderView
	Items []orderItemView `json:"items"`
}

func toOrderView(o *domain.Order) orderView {
	return orderView{ID: o.ID, UserID: o.UserID, Total: o.Total, Status: o.Status, CreatedAt: o.CreatedAt}
}

func toOrderDetailView(o *domain.Order) orderDetailView {
	items := make([]orderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemView{ProductID: it.ProductID, Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	return orderDetailView{orderView: toOrderView(o), Items: items}
}

type pageQuery struct {
	Offset int `form:"offset,default=0" binding:"gte=0"`
	Limit  int `form:"limit,default=20" binding:"gte=0,lte=100"`
}
