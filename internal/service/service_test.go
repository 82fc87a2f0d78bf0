package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fruito-api/internal/core/auth"
	"fruito-api/internal/core/cache"
	"fruito-api/internal/domain"
	"fruito-api/internal/repo"
	"fruito-api/internal/repo/repotest"
	"fruito-api/pkg/utils"
)

const (
	testAdminEmail = "admin@fruito.local"
	testAdminPass  = "admin-pass"
)

type recordedEvent struct {
	key     string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{key: key, payload: v})
	return nil
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.key)
	}
	return out
}

type fixture struct {
	stores  *repo.Stores
	hasher  *utils.PasswordHasher
	jwt     *auth.JWTer
	events  *recordingPublisher
	auth    *AuthService
	seeder  *AdminSeeder
	catalog *CatalogService
	orders  *OrderService
}

func newFixture(t *testing.T, c *cache.Cache) *fixture {
	t.Helper()
	f := &fixture{
		stores: repotest.NewStores(t),
		hasher: utils.NewPasswordHasher("test-secret", bcrypt.MinCost),
		jwt:    auth.NewJWTer("jwt-secret", "fruito-test", time.Hour),
		events: &recordingPublisher{},
	}
	f.auth = NewAuthService(f.stores.Users, f.hasher, f.jwt, testAdminEmail, f.events, nil)
	f.seeder = NewAdminSeeder(f.stores.Users, f.hasher, testAdminEmail, testAdminPass, "Admin", nil)
	f.catalog = NewCatalogService(f.stores.Products, c, time.Minute, nil)
	f.orders = NewOrderService(f.stores.Products, f.stores.Orders, f.catalog, f.events, nil)
	return f
}

func (f *fixture) product(t *testing.T, name string, price float64, stock int) *domain.Product {
	t.Helper()
	p, err := f.catalog.Create(context.Background(), ProductInput{Name: name, Price: price, Stock: stock})
	require.NoError(t, err)
	return p
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.stores.Products.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}
