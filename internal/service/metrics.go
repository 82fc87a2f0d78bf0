package service

import "github.com/prometheus/client_golang/prometheus"

const (
	rejectNotFound        = "product_not_found"
	rejectInsufficient    = "insufficient_stock"
	rejectInvalidQuantity = "invalid_quantity"
)

var (
	ordersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fruito_orders_placed_total",
		Help: "Orders successfully placed",
	})
	orderRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fruito_order_rejections_total",
		Help: "Orders rejected before commit",
	}, []string{"reason"})
)

func init() { prometheus.MustRegister(ordersPlaced, orderRejections) }
