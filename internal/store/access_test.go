package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWhitelist_IsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddWhitelist(ctx, 55, "", 1001, "friend"))
	require.NoError(t, s.AddWhitelist(ctx, 55, "", 1001, "friend again"))

	entries, err := s.ListWhitelist(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1, "second add must not duplicate the entry")
	assert.Equal(t, int64(55), entries[0].UserID)
	assert.Equal(t, "friend", entries[0].Notes, "first grant wins")
	assert.Equal(t, int64(1001), entries[0].AddedBy)
}

func TestIsWhitelisted(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	ok, err := s.IsWhitelisted(ctx, 55)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.AddWhitelist(ctx, 55, "", 1001, ""))

	ok, err = s.IsWhitelisted(ctx, 55)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRemoveWhitelist_ReportsWhetherRemoved(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	removed, err := s.RemoveWhitelist(ctx, 55)
	require.NoError(t, err)
	assert.False(t, removed, "removing an absent user reports false")

	require.NoError(t, s.AddWhitelist(ctx, 55, "", 1001, ""))

	removed, err = s.RemoveWhitelist(ctx, 55)
	require.NoError(t, err)
	assert.True(t, removed)

	ok, err := s.IsWhitelisted(ctx, 55)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddAdmin_IsIdempotentAndPreservesTier(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddAdmin(ctx, 1001, "", true))
	require.NoError(t, s.AddAdmin(ctx, 1001, "", false))

	entries, err := s.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsSuper, "re-adding must not demote a super-admin")
}

func TestAdminChecks(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddAdmin(ctx, 1001, "", true))
	require.NoError(t, s.AddAdmin(ctx, 1002, "", false))

	isAdmin, err := s.IsAdmin(ctx, 1001)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isSuper, err := s.IsSuperAdmin(ctx, 1001)
	require.NoError(t, err)
	assert.True(t, isSuper)

	isSuper, err = s.IsSuperAdmin(ctx, 1002)
	require.NoError(t, err)
	assert.False(t, isSuper, "regular admin is not a super-admin")

	isAdmin, err = s.IsAdmin(ctx, 9)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestAdminAccessDoesNotRequireWhitelist(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddAdmin(ctx, 1001, "", false))

	isAdmin, err := s.IsAdmin(ctx, 1001)
	require.NoError(t, err)
	whitelisted, err2 := s.IsWhitelisted(ctx, 1001)
	require.NoError(t, err2)

	assert.True(t, isAdmin)
	assert.False(t, whitelisted, "admin status is independent of the whitelist")
}

func TestListAdmins_SuperAdminsFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddAdmin(ctx, 2001, "", false))
	require.NoError(t, s.AddAdmin(ctx, 1001, "", true))
	require.NoError(t, s.AddAdmin(ctx, 2002, "", false))

	entries, err := s.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, int64(1001), entries[0].UserID)
	assert.True(t, entries[0].IsSuper)
	// Regular admins follow in grant order
	assert.Equal(t, int64(2001), entries[1].UserID)
	assert.Equal(t, int64(2002), entries[2].UserID)
}

func TestListWhitelist_MostRecentFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddWhitelist(ctx, 11, "", 1001, ""))
	require.NoError(t, s.AddWhitelist(ctx, 22, "", 1001, ""))
	require.NoError(t, s.AddWhitelist(ctx, 33, "", 1001, ""))

	entries, err := s.ListWhitelist(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, int64(33), entries[0].UserID)
	assert.Equal(t, int64(22), entries[1].UserID)
	assert.Equal(t, int64(11), entries[2].UserID)
}

func TestSeedAdmins_IsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SeedAdmins(ctx, []int64{1001, 1002}))
	require.NoError(t, s.SeedAdmins(ctx, []int64{1001, 1002}))

	entries, err := s.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.True(t, e.IsSuper, "seeded admins are super-admins")
	}
}

func TestSeedAdmins_EmptyListIsNotAnError(t *testing.T) {
	s := setupTestStore(t)

	err := s.SeedAdmins(context.Background(), nil)
	assert.NoError(t, err)
}
