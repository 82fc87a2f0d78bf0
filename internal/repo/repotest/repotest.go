// Package repotest 给各层测试提供真实 gorm 仓储（内存 sqlite）
package repotest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fruito-api/internal/core/database"
	"fruito-api/internal/repo"
	"fruito-api/pkg/utils"
)

// NewGormDB 每次一个独立的内存库；单连接，写入天然串行，避免 sqlite 的 database is locked
func NewGormDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", utils.NewID())
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          dsn,
		LogLevel:     "silent",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func NewStores(t testing.TB) *repo.Stores {
	t.Helper()
	s := repo.NewGormStores(NewGormDB(t), "sqlite")
	require.NoError(t, s.Migrate(context.Background()))
	return s
}
