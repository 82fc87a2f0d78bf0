package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/gorm"

	"fruito-api/internal/domain"
	"fruito-api/internal/feature/order"
	"fruito-api/internal/feature/product"
	"fruito-api/internal/feature/user"
)

// Stores 一组仓储 + 诊断入口，gorm 与 mongo 二选一
type Stores struct {
	Users     domain.UserRepository
	Products  domain.ProductRepository
	Orders    domain.OrderRepository
	Inspector domain.StoreInspector

	migrate func(ctx context.Context) error
}

// Migrate gorm 走 AutoMigrate；mongo 建索引
func (s *Stores) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(ctx)
}

func NewGormStores(db *gorm.DB, driver string) *Stores {
	return &Stores{
		Users:     NewUserRepo(db),
		Products:  NewProductRepo(db),
		Orders:    NewOrderRepo(db),
		Inspector: &gormInspector{db: db, driver: driver},
		migrate: func(ctx context.Context) error {
			return db.WithContext(ctx).AutoMigrate(&user.UserModel{}, &product.ProductModel{}, &order.OrderModel{})
		},
	}
}

func NewMongoStores(client *mongo.Client, db *mongo.Database) *Stores {
	return &Stores{
		Users:     NewMongoUserRepo(db),
		Products:  NewMongoProductRepo(db),
		Orders:    NewMongoOrderRepo(db),
		Inspector: &mongoInspector{client: client, db: db},
		migrate: func(ctx context.Context) error {
			_, err := db.Collection(collUser).Indexes().CreateMany(ctx, []mongo.IndexModel{
				{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
				{Keys: bson.D{{Key: "role", Value: 1}}},
			})
			if err != nil {
				return err
			}
			_, err = db.Collection(collOrder).Indexes().CreateOne(ctx, mongo.IndexModel{
				Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			})
			return err
		},
	}
}

type gormInspector struct {
	db     *gorm.DB
	driver string
}

func (i *gormInspector) Driver() string { return i.driver }

func (i *gormInspector) DatabaseName(ctx context.Context) string {
	return i.db.WithContext(ctx).Migrator().CurrentDatabase()
}

func (i *gormInspector) Ping(ctx context.Context) error {
	sqlDB, err := i.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (i *gormInspector) Collections(ctx context.Context) ([]string, error) {
	return i.db.WithContext(ctx).Migrator().GetTables()
}

type mongoInspector struct {
	client *mongo.Client
	db     *mongo.Database
}

func (i *mongoInspector) Driver() string { return "mongo" }

func (i *mongoInspector) DatabaseName(context.Context) string { return i.db.Name() }

func (i *mongoInspector) Ping(ctx context.Context) error {
	return i.client.Ping(ctx, readpref.Primary())
}

func (i *mongoInspector) Collections(ctx context.Context) ([]string, error) {
	return i.db.ListCollectionNames(ctx, bson.D{})
}
