package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const (
	EventOrderPlaced  = "order.placed"
	EventUserSignedUp = "user.signed_up"
)

var tracer = otel.Tracer("fruito-api/internal/service")

// EventPublisher mq.Publisher 满足该接口；未配置 MQ 时用 NopPublisher
type EventPublisher interface {
	Publish(ctx context.Context, key string, v any) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

type OrderPlacedEvent struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Total     float64   `json:"total"`
	Items     int       `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

type UserSignedUpEvent struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// publish 尽力而为，失败只记日志，不影响已完成的写入
func publish(ctx context.Context, p EventPublisher, l *zap.Logger, key string, v any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := p.Publish(ctx, key, v); err != nil {
		l.Warn("publish event failed", zap.String("key", key), zap.Error(err))
	}
}
