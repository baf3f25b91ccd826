package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dubeyRahul26/flexcart/models"
	"github.com/dubeyRahul26/flexcart/store"
)

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"  A@B.com ":        "a@b.com",
		"Mixed.Case@E.COM":  "mixed.case@e.com",
		"plain@example.com": "plain@example.com",
	}
	for in, want := range cases {
		require.Equal(t, want, store.NormalizeEmail(in))
	}
}

func TestFakeCreateDefaultsToCustomer(t *testing.T) {
	ctx := context.Background()
	f := store.NewFake()

	user, err := f.Create(ctx, "A", "a@b.com", "secret1", "")
	require.NoError(t, err)
	require.Equal(t, models.RoleCustomer, user.Role)
	require.NotEmpty(t, user.ID)
	require.NotEqual(t, "secret1", user.PasswordHash)
}

func TestFakeRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := store.NewFake()

	_, err := f.Create(ctx, "A", "a@b.com", "secret1", "")
	require.NoError(t, err)

	_, err = f.Create(ctx, "B", " A@B.COM ", "secret2", "")
	require.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestFakePasswordRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := store.NewFake()

	user, err := f.Create(ctx, "A", "a@b.com", "secret1", "")
	require.NoError(t, err)

	require.True(t, f.VerifyPassword(user, "secret1"))
	require.False(t, f.VerifyPassword(user, "wrong"))

	require.NoError(t, f.UpdatePassword(ctx, user.ID.Hex(), "changed1"))

	updated, err := f.FindByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	require.True(t, f.VerifyPassword(updated, "changed1"))
	require.False(t, f.VerifyPassword(updated, "secret1"))
}
