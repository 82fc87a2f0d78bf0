package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"fruito-api/internal/domain"
)

type OrderItemInput struct {
	ProductID string
	Quantity  int
}

type PlaceOrderInput struct {
	UserID string
	Items  []OrderItemInput
}

type OrderService struct {
	products domain.ProductRepository
	orders   domain.OrderRepository
	catalog  *CatalogService
	events   EventPublisher
	log      *zap.Logger
}

func NewOrderService(products domain.ProductRepository, orders domain.OrderRepository, catalog *CatalogService,
	events EventPublisher, l *zap.Logger) *OrderService {
	if events == nil {
		events = NopPublisher{}
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &OrderService{products: products, orders: orders, catalog: catalog, events: events, log: l}
}

type lineReq struct {
	productID string
	qty       int
}

// aggregate 同一商品多次出现时合并数量，保持首次出现的顺序
func aggregate(items []OrderItemInput) ([]lineReq, error) {
	idx := make(map[string]int, len(items))
	out := make([]lineReq, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, domain.ErrInvalidQuantity
		}
		if i, ok := idx[it.ProductID]; ok {
			out[i].qty += it.Quantity
			continue
		}
		idx[it.ProductID] = len(out)
		out = append(out, lineReq{productID: it.ProductID, qty: it.Quantity})
	}
	return out, nil
}

// PlaceOrder 先全量校验（不写），再逐个条件扣减；任何一步失败都回补已扣的库存
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (o *domain.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderService.PlaceOrder")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("user.id", in.UserID), attribute.Int("items", len(in.Items)))

	lines, err := aggregate(in.Items)
	if err != nil {
		orderRejections.WithLabelValues(rejectInvalidQuantity).Inc()
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, ln := range lines {
		p, err := s.products.FindByID(ctx, ln.productID)
		if err != nil {
			return nil, fmt.Errorf("find product: %w", err)
		}
		if p == nil {
			orderRejections.WithLabelValues(rejectNotFound).Inc()
			return nil, domain.ErrProductNotFound
		}
		if p.Stock < ln.qty {
			orderRejections.WithLabelValues(rejectInsufficient).Inc()
			return nil, &domain.StockError{ProductID: p.ID, Product: p.Name}
		}
		items = append(items, domain.OrderItem{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: ln.qty})
		total = total.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(ln.qty))))
	}

	applied := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		ok, err := s.products.DecrementStock(ctx, it.ProductID, it.Quantity)
		if err != nil {
			s.compensate(ctx, applied)
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
		if !ok {
			// 校验之后被并发订单抢先扣减
			s.compensate(ctx, applied)
			orderRejections.WithLabelValues(rejectInsufficient).Inc()
			return nil, &domain.StockError{ProductID: it.ProductID, Product: it.Name}
		}
		applied = append(applied, it)
	}

	o = &domain.Order{
		UserID: in.UserID,
		Items:  items,
		Total:  total.InexactFloat64(),
		Status: domain.OrderStatusPlaced,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		s.compensate(ctx, applied)
		return nil, fmt.Errorf("create order: %w", err)
	}

	ordersPlaced.Inc()
	span.SetAttributes(attribute.String("order.id", o.ID))
	if s.catalog != nil {
		s.catalog.InvalidateListing(ctx)
	}
	publish(ctx, s.events, s.log, EventOrderPlaced, OrderPlacedEvent{
		OrderID: o.ID, UserID: o.UserID, Total: o.Total, Items: len(o.Items), CreatedAt: o.CreatedAt,
	})
	return o, nil
}

// compensate 请求被取消也要把库存加回去
func (s *OrderService) compensate(ctx context.Context, applied []domain.OrderItem) {
	ctx = context.WithoutCancel(ctx)
	for _, it := range applied {
		if err := s.products.IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
			s.log.Error("stock compensation failed",
				zap.String("product_id", it.ProductID),
				zap.Int("quantity", it.Quantity),
				zap.Error(err),
			)
		}
	}
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) List(ctx context.Context, userID string, offset, limit int) ([]domain.Order, int64, error) {
	offset, limit = clampPage(offset, limit)
	list, total, err := s.orders.List(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return list, total, nil
}
