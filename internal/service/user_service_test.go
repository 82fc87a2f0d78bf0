package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPage(t *testing.T) {
	cases := []struct{ off, lim, wantOff, wantLim int }{
		{0, 0, 0, defaultPageSize},
		{-1, 10, 0, 10},
		{5, 1000, 5, maxPageSize},
	}
	for _, c := range cases {
		off, lim := clampPage(c.off, c.lim)
		assert.Equal(t, c.wantOff, off)
		assert.Equal(t, c.wantLim, lim)
	}
}

func TestUserService_List(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.seeder.Run(ctx))
	for _, e := range []string{"a@x.io", "b@x.io"} {
		_, err := f.auth.Signup(ctx, SignupInput{Name: e, Email: e, Password: "pw"})
		require.NoError(t, err)
	}
	us, total, err := NewUserService(f.stores.Users).List(ctx, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, us, 2)
}
