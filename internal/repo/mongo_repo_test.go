package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"fruito-api/internal/domain"
	"fruito-api/internal/repo"
)

// 模拟部署：按顺序返回预置响应，不需要真实 mongod
func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func updated(n, modified int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: modified})
}

func TestMongoProductRepo_DecrementStock(t *testing.T) {
	mt := newMock(t)

	mt.Run("enough stock", func(mt *mtest.T) {
		products := repo.NewMongoProductRepo(mt.DB)
		mt.AddMockResponses(updated(1, 1))

		ok, err := products.DecrementStock(context.Background(), "p1", 3)
		require.NoError(mt, err)
		assert.True(mt, ok)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, "p1", cmd.Lookup("updates", "0", "q", "_id").StringValue())
		assert.EqualValues(mt, 3, cmd.Lookup("updates", "0", "q", "stock", "$gte").AsInt64())
		assert.EqualValues(mt, -3, cmd.Lookup("updates", "0", "u", "$inc", "stock").AsInt64())
	})

	mt.Run("filter not matched", func(mt *mtest.T) {
		products := repo.NewMongoProductRepo(mt.DB)
		mt.AddMockResponses(updated(0, 0))

		ok, err := products.DecrementStock(context.Background(), "p1", 30)
		require.NoError(mt, err)
		assert.False(mt, ok)
	})

	mt.Run("server error", func(mt *mtest.T) {
		products := repo.NewMongoProductRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value", Name: "BadValue"}))

		ok, err := products.DecrementStock(context.Background(), "p1", 1)
		assert.Error(mt, err)
		assert.False(mt, ok)
	})
}

func TestMongoProductRepo_IncrementStock(t *testing.T) {
	mt := newMock(t)

	mt.Run("restores", func(mt *mtest.T) {
		products := repo.NewMongoProductRepo(mt.DB)
		mt.AddMockResponses(updated(1, 1))
		require.NoError(mt, products.IncrementStock(context.Background(), "p1", 2))
		assert.EqualValues(mt, 2, mt.GetStartedEvent().Command.Lookup("updates", "0", "u", "$inc", "stock").AsInt64())
	})

	mt.Run("missing product", func(mt *mtest.T) {
		products := repo.NewMongoProductRepo(mt.DB)
		mt.AddMockResponses(updated(0, 0))
		assert.ErrorIs(mt, products.IncrementStock(context.Background(), "gone", 2), domain.ErrNotFound)
	})
}

func TestMongoProductRepo_FindByID(t *testing.T) {
	mt := newMock(t)

	mt.Run("found", func(mt *mtest.T) {
		products := repo.NewMongoProductRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "fruito.product", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "p1"},
			{Key: "name", Value: "Mango"},
			{Key: "price", Value: 2.5},
			{Key: "stock", Value: 10},
		}))

		p, err := products.FindByID(context.Background(), "p1")
		require.NoError(mt, err)
		require.NotNil(mt, p)
		assert.Equal(mt, "Mango", p.Name)
		assert.Equal(mt, 2.5, p.Price)
		assert.Equal(mt, 10, p.Stock)
		assert.Nil(mt, p.Image)
	})

	mt.Run("not found", func(mt *mtest.T) {
		products := repo.NewMongoProductRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "fruito.product", mtest.FirstBatch))

		p, err := products.FindByID(context.Background(), "nope")
		require.NoError(mt, err)
		assert.Nil(mt, p)
	})
}

func TestMongoUserRepo_SetRoleAndPassword(t *testing.T) {
	mt := newMock(t)

	mt.Run("updates", func(mt *mtest.T) {
		users := repo.NewMongoUserRepo(mt.DB)
		mt.AddMockResponses(updated(1, 1))

		require.NoError(mt, users.SetRoleAndPassword(context.Background(), "a@x.io", domain.RoleAdmin, "hash"))
		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, "a@x.io", cmd.Lookup("updates", "0", "q", "email").StringValue())
		assert.Equal(mt, domain.RoleAdmin, cmd.Lookup("updates", "0", "u", "$set", "role").StringValue())
		assert.Equal(mt, "hash", cmd.Lookup("updates", "0", "u", "$set", "password_hash").StringValue())
	})

	mt.Run("unknown email", func(mt *mtest.T) {
		users := repo.NewMongoUserRepo(mt.DB)
		mt.AddMockResponses(updated(0, 0))
		assert.ErrorIs(mt, users.SetRoleAndPassword(context.Background(), "x@x.io", domain.RoleAdmin, "h"), domain.ErrNotFound)
	})
}

func TestMongoUserRepo_DemoteAdminsExcept(t *testing.T) {
	mt := newMock(t)

	mt.Run("reports modified", func(mt *mtest.T) {
		users := repo.NewMongoUserRepo(mt.DB)
		mt.AddMockResponses(updated(2, 2))

		n, err := users.DemoteAdminsExcept(context.Background(), "a@x.io")
		require.NoError(mt, err)
		assert.EqualValues(mt, 2, n)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, "a@x.io", cmd.Lookup("updates", "0", "q", "email", "$ne").StringValue())
		assert.Equal(mt, domain.RoleAdmin, cmd.Lookup("updates", "0", "q", "role").StringValue())
		assert.Equal(mt, domain.RoleUser, cmd.Lookup("updates", "0", "u", "$set", "role").StringValue())
		assert.True(mt, cmd.Lookup("updates", "0", "multi").Boolean())
	})
}

func TestMongoUserRepo_CreateDuplicate(t *testing.T) {
	mt := newMock(t)

	mt.Run("maps duplicate key", func(mt *mtest.T) {
		users := repo.NewMongoUserRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: fruito.user index: email_1",
		}))

		err := users.Create(context.Background(), &domain.User{Name: "A", Email: "a@x.io", Role: domain.RoleUser})
		assert.ErrorIs(mt, err, domain.ErrDuplicate)
	})

	mt.Run("inserts", func(mt *mtest.T) {
		users := repo.NewMongoUserRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u := &domain.User{Name: "A", Email: "a@x.io", Role: domain.RoleUser}
		require.NoError(mt, users.Create(context.Background(), u))
		assert.NotEmpty(mt, u.ID)
		assert.False(mt, u.CreatedAt.IsZero())
	})
}
