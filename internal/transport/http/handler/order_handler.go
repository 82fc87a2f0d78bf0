package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fruito-api/internal/domain"
	"fruito-api/internal/service"
	"fruito-api/internal/transport/http/ez"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler { return &OrderHandler{orders: orders} }

func (h *OrderHandler) Priority() int { return 30 }

type orderItemIn struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"   binding:"gte=1"`
}

type orderIn struct {
	UserID string        `json:"user_id" binding:"required,max=255"`
	Items  []orderItemIn `json:"items"   binding:"dive"`
}

type orderListQuery struct {
	pageQuery
	UserID string `form:"user_id"`
}

type orderListOut struct {
	Total int64             `json:"total"`
	Items []orderDetailView `json:"items"`
}

func (h *OrderHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[orderIn, orderView]{
		Method: http.MethodPost,
		Path:   "/orders",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *orderIn) (orderView, error) {
			items := make([]service.OrderItemInput, 0, len(in.Items))
			for _, it := range in.Items {
				items = append(items, service.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
			}
			o, err := h.orders.PlaceOrder(c.Request.Context(), service.PlaceOrderInput{UserID: in.UserID, Items: items})
			if err != nil {
				return orderView{}, fail(err)
			}
			return toOrderView(o), nil
		},
	})

	ez.RegisterAction(e, ez.Action[idURI, orderDetailView]{
		Method: http.MethodGet,
		Path:   "/orders/:id",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *idURI) (orderDetailView, error) {
			o, err := h.orders.Get(c.Request.Context(), in.ID)
			if err != nil {
				return orderDetailView{}, fail(err)
			}
			return toOrderDetailView(o), nil
		},
	})
}

func (h *OrderHandler) MountAdmin(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g), ez.Action[orderListQuery, orderListOut]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *orderListQuery) (orderListOut, error) {
			list, total, err := h.orders.List(c.Request.Context(), in.UserID, in.Offset, in.Limit)
			if err != nil {
				return orderListOut{}, fail(err)
			}
			out := orderListOut{Total: total, Items: make([]orderDetailView, 0, len(list))}
			for i := range list {
				out.Items = append(out.Items, toOrderDetailView(&list[i]))
			}
			return out, nil
		},
	})
}
