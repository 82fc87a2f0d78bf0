package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fruito-api/internal/domain"
	"fruito-api/internal/feature/order"
	"fruito-api/pkg/utils"
)

type MongoOrderRepo struct{ coll *mongo.Collection }

func NewMongoOrderRepo(db *mongo.Database) *MongoOrderRepo {
	return &MongoOrderRepo{coll: db.Collection(collOrder)}
}

func (r *MongoOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = utils.NewID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, order.FromDomain(o))
	return err
}

func (r *MongoOrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var m order.OrderModel
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o := m.ToDomain()
	return &o, nil
}

func (r *MongoOrderRepo) List(ctx context.Context, userID string, offset, limit int) ([]domain.Order, int64, error) {
	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var ms []order.OrderModel
	if err := cur.All(ctx, &ms); err != nil {
		return nil, 0, err
	}
	out := make([]domain.Order, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out, total, nil
}
