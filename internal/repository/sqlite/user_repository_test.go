package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocapsule/internal/repository/sqlite"
	"vocapsule/internal/testutil"
)

func TestUserRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.MustClose(t, db)

	store := sqlite.NewStore(db)
	ctx := context.Background()

	user, err := store.Users().Create(ctx, "u@example.com", "bcrypt-hash")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.Equal(t, "u@example.com", user.Email)

	byEmail, err := store.Users().GetByEmail(ctx, "u@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "bcrypt-hash", byEmail.PasswordHash)

	byID, err := store.Users().Get(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "u@example.com", byID.Email)

	missing, err := store.Users().GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = store.Users().Create(ctx, "u@example.com", "other-hash")
	assert.Error(t, err, "duplicate email must be rejected")
}
