package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fruito-api/internal/domain"
)

func admins(t *testing.T, f *fixture) []domain.User {
	t.Helper()
	all, _, err := f.stores.Users.List(context.Background(), 0, 100)
	require.NoError(t, err)
	var out []domain.User
	for _, u := range all {
		if u.Role == domain.RoleAdmin {
			out = append(out, u)
		}
	}
	return out
}

func TestAdminSeeder_Idempotent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.seeder.Run(ctx))
	require.NoError(t, f.seeder.Run(ctx))

	as := admins(t, f)
	require.Len(t, as, 1)
	assert.Equal(t, testAdminEmail, as[0].Email)

	_, total, err := f.stores.Users.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestAdminSeeder_DemotesOthersAndResetsPassword(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.auth.Signup(ctx, SignupInput{Name: "Mallory", Email: "m@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, f.stores.Users.SetRoleAndPassword(ctx, "m@example.com", domain.RoleAdmin, "x"))

	// 预先存在但角色是 user 的保留邮箱账号
	require.NoError(t, f.stores.Users.Create(ctx, &domain.User{
		Name: "Old", Email: testAdminEmail, PasswordHash: "old", Role: domain.RoleUser,
	}))

	require.NoError(t, f.seeder.Run(ctx))

	as := admins(t, f)
	require.Len(t, as, 1)
	assert.Equal(t, testAdminEmail, as[0].Email)

	m, err := f.stores.Users.FindByEmail(ctx, "m@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, m.Role)

	_, err = f.auth.AdminLogin(ctx, testAdminEmail, testAdminPass)
	assert.NoError(t, err)

	rotated := NewAdminSeeder(f.stores.Users, f.hasher, testAdminEmail, "rotated", "", nil)
	require.NoError(t, rotated.Run(ctx))
	_, err = f.auth.AdminLogin(ctx, testAdminEmail, testAdminPass)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.auth.AdminLogin(ctx, testAdminEmail, "rotated")
	assert.NoError(t, err)
}
