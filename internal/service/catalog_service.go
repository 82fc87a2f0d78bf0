package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fruito-api/internal/core/cache"
	"fruito-api/internal/domain"
)

const (
	productsCacheKey = "products:all"
	// 失效后隔一段时间再删一次，覆盖失效前已读库、失效后才回填的 List
	listingRedeleteAfter = 500 * time.Millisecond
)

type ProductInput struct {
	Name        string
	Description *string
	Price       float64
	Image       *string
	Stock       int
}

type CatalogService struct {
	products domain.ProductRepository
	cache    *cache.Cache // nil 表示不走缓存
	ttl      time.Duration
	log      *zap.Logger

	redeleteAfter time.Duration
}

func NewCatalogService(products domain.ProductRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *CatalogService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &CatalogService{products: products, cache: c, ttl: ttl, log: l, redeleteAfter: listingRedeleteAfter}
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "CatalogService.Create")
	defer span.End()

	p := &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Stock:       in.Stock,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.InvalidateListing(ctx)
	return p, nil
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "CatalogService.List")
	defer span.End()

	if s.cache == nil {
		return s.list(ctx)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, productsCacheKey, s.ttl, s.list)
}

func (s *CatalogService) list(ctx context.Context) ([]domain.Product, error) {
	ps, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if ps == nil {
		ps = []domain.Product{}
	}
	return ps, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// InvalidateListing 库存或商品变化后调用：立即删一次，延迟再删一次。
// 失败只记日志，缓存靠 TTL 兜底
func (s *CatalogService) InvalidateListing(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.invalidate(context.WithoutCancel(ctx))
	if s.redeleteAfter > 0 {
		time.AfterFunc(s.redeleteAfter, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			s.invalidate(ctx)
		})
	}
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, productsCacheKey); err != nil {
		s.log.Warn("invalidate products cache", zap.Error(err))
	}
}
