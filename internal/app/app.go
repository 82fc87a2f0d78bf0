package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fruito-api/internal/core/auth"
	"fruito-api/internal/core/cache"
	"fruito-api/internal/core/config"
	"fruito-api/internal/core/database"
	"fruito-api/internal/core/logger"
	"fruito-api/internal/core/mq"
	"fruito-api/internal/repo"
	"fruito-api/internal/service"
	"fruito-api/internal/transport/http/handler"
	"fruito-api/internal/transport/http/router"
	"fruito-api/pkg/utils"
)

// App 进程内的依赖容器：cmd/api、cmd/admin、cmd/lambda 共用
type App struct {
	Cfg    *config.Config
	Log    *zap.Logger
	Stores *repo.Stores
	JWT    *auth.JWTer

	Auth    *service.AuthService
	Seeder  *service.AdminSeeder
	Catalog *service.CatalogService
	Orders  *service.OrderService
	Users   *service.UserService
	Diag    *service.DiagService

	modules *router.Registry
	closers []func() error
}

// Extras 可选的外部依赖，nil 表示不启用
type Extras struct {
	Cache     *cache.Cache
	Publisher service.EventPublisher
}

// New 按配置连存储、redis、rabbitmq；redis/mq 连不上只告警降级
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	stores, closeStores, err := OpenStores(ctx, cfg, l)
	if err != nil {
		return nil, err
	}
	var (
		ex      Extras
		closers = []func() error{closeStores}
	)

	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := c.Ping(pctx); err != nil {
			l.Warn("redis unavailable, listing cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
		} else {
			ex.Cache = c
			closers = append(closers, c.Close)
		}
		cancel()
	}

	if cfg.MQ.URL != "" {
		p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			l.Warn("rabbitmq unavailable, events disabled", zap.Error(err))
		} else {
			ex.Publisher = p
			closers = append(closers, p.Close)
		}
	}

	a := NewWithStores(cfg, l, stores, ex)
	a.closers = closers
	return a, nil
}

// OpenStores db.driver=mongo 走文档库，其余走 gorm
func OpenStores(ctx context.Context, cfg *config.Config, l *zap.Logger) (*repo.Stores, func() error, error) {
	if cfg.DB.Driver == "mongo" {
		client, db, err := database.NewMongo(ctx, database.MongoOpts{
			URI:         cfg.DB.DSN,
			Database:    cfg.DB.Name,
			MaxPoolSize: uint64(max(0, cfg.DB.MaxOpenConns)),
			Timeout:     10 * time.Second,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open mongo: %w", err)
		}
		l.Info("database connected", zap.String("driver", "mongo"), zap.String("db", cfg.DB.Name))
		return repo.NewMongoStores(client, db), func() error { return client.Disconnect(context.Background()) }, nil
	}

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             logger.ToStdLogger(l.Named("gorm"), zapcore.WarnLevel),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open %s (%s): %w", cfg.DB.Driver, database.MaskDSN(cfg.DB.DSN), err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))
	return repo.NewGormStores(db, cfg.DB.Driver), sqlDB.Close, nil
}

// NewWithStores 组装服务与 HTTP 模块，测试直接传内存仓储
func NewWithStores(cfg *config.Config, l *zap.Logger, stores *repo.Stores, ex Extras) *App {
	if l == nil {
		l = zap.NewNop()
	}
	pub := ex.Publisher
	if pub == nil {
		pub = service.NopPublisher{}
	}
	hasher := utils.NewPasswordHasher(cfg.Security.Secret, cfg.Security.BcryptCost)
	jwter := auth.NewJWTer(cfg.JWTSecret(), cfg.JWT.Issuer, time.Duration(cfg.JWT.AccessTokenTTLMin)*time.Minute)

	a := &App{Cfg: cfg, Log: l, Stores: stores, JWT: jwter}
	a.Auth = service.NewAuthService(stores.Users, hasher, jwter, cfg.Seed.AdminEmail, pub, l.Named("auth"))
	a.Seeder = service.NewAdminSeeder(stores.Users, hasher, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, cfg.Seed.AdminName, l.Named("seed"))
	a.Catalog = service.NewCatalogService(stores.Products, ex.Cache, time.Duration(cfg.Redis.ProductsTTLSec)*time.Second, l.Named("catalog"))
	a.Orders = service.NewOrderService(stores.Products, stores.Orders, a.Catalog, pub, l.Named("orders"))
	a.Users = service.NewUserService(stores.Users)
	a.Diag = service.NewDiagService(stores.Inspector, cfg.DB.DSN != "", cfg.DB.Name != "")

	a.modules = router.NewRegistry(
		handler.NewDiagHandler(a.Diag),
		handler.NewAuthHandler(a.Auth),
		handler.NewProductHandler(a.Catalog, a.Auth),
		handler.NewOrderHandler(a.Orders),
		handler.NewAdminHandler(a.Users),
	)
	return a
}

// Bootstrap 建表/索引（按配置）+ 管理员对齐
func (a *App) Bootstrap(ctx context.Context) error {
	if a.Cfg.DB.AutoMigrate {
		if err := a.Stores.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		a.Log.Info("migrate done")
	}
	return a.Seeder.Run(ctx)
}

func (a *App) routerOptions() router.Options {
	name := a.Cfg.Trace.ServiceName
	if name == "" {
		name = a.Cfg.App.Name
	}
	return router.Options{
		Logger:      a.Log,
		ServiceName: name,
		JWT:         a.JWT,
		Limits:      a.Cfg.Limits,
		Modules:     a.modules,
		AdminCheck:  a.checkAdmin,
	}
}

func (a *App) checkAdmin(ctx context.Context, uid string) error {
	_, err := a.Auth.AuthorizeAdminToken(ctx, uid)
	return err
}

func (a *App) APIEngine() *gin.Engine { return router.NewAPIEngine(a.routerOptions()) }

func (a *App) AdminEngine() *gin.Engine { return router.NewAdminEngine(a.routerOptions()) }

// Close 逆序关闭
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
