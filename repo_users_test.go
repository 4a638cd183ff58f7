package auth_test

import (
	"context"
	"database/sql"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-tokens"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const sqliteCreateUsers = `CREATE TABLE users (
    id TEXT NOT NULL PRIMARY KEY,
    name TEXT,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT,
    active BOOLEAN NOT NULL DEFAULT FALSE,
    blocked BOOLEAN NOT NULL DEFAULT FALSE,
    verified BOOLEAN NOT NULL DEFAULT FALSE,
    password_strikes INTEGER NOT NULL DEFAULT 0,
    password_birthday TIMESTAMP NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP,
    deleted_at TIMESTAMP NULL
);`

func setupUsersDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = db.Exec(sqliteCreateUsers)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}

func seedUser(t *testing.T, repo auth.Users, email string) *auth.User {
	t.Helper()

	user, err := repo.Create(context.Background(), &auth.User{
		Email:        email,
		PasswordHash: "hash",
		Active:       true,
		Verified:     true,
	})
	require.NoError(t, err)
	return user
}

func TestUsersRepository_Create(t *testing.T) {
	repo := auth.NewUsersRepository(setupUsersDB(t))

	user := seedUser(t, repo, "  Test@Example.com ")

	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "test", user.Username)
	assert.NotEqual(t, uuid.Nil, user.ID)

	// The ID derives from the email, so reseeding keeps the key stable.
	again, err := repo.Create(context.Background(), &auth.User{Email: "other@example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, user.ID, again.ID)
}

func TestUsersRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewUsersRepository(setupUsersDB(t))
	seedUser(t, repo, "test@example.com")

	t.Run("by email", func(t *testing.T) {
		user, err := repo.GetByEmail(ctx, "Test@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "test@example.com", user.Email)
	})

	t.Run("by username", func(t *testing.T) {
		user, err := repo.GetByUsername(ctx, "test")
		require.NoError(t, err)
		assert.Equal(t, "test@example.com", user.Email)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "ghost@example.com")
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := repo.GetByUsername(ctx, "ghost")
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))
	})
}

func TestUsersRepository_LockoutTracking(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewUsersRepository(setupUsersDB(t))
	user := seedUser(t, repo, "test@example.com")

	user.PasswordStrikes = 4
	user.Blocked = true
	require.NoError(t, repo.TrackFailedPassword(ctx, user))

	stored, err := repo.GetByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, 4, stored.PasswordStrikes)
	assert.True(t, stored.Blocked)

	require.NoError(t, repo.TrackSuccessfulLogin(ctx, user))

	stored, err = repo.GetByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.PasswordStrikes)
	// A successful login clears strikes but never unblocks by itself.
	assert.True(t, stored.Blocked)

	require.NoError(t, repo.Unblock(ctx, user.ID))

	stored, err = repo.GetByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.False(t, stored.Blocked)
	assert.Equal(t, 0, stored.PasswordStrikes)
}

func TestRepositoryManager(t *testing.T) {
	db := setupUsersDB(t)
	_, err := db.Exec(`CREATE TABLE revoked_tokens (
    token TEXT NOT NULL PRIMARY KEY,
    expiration TIMESTAMP NOT NULL
);`)
	require.NoError(t, err)

	manager := auth.NewRepositoryManager(db)

	require.NoError(t, manager.Validate())
	assert.NotNil(t, manager.Users())
	assert.NotNil(t, manager.RevokedTokens())

	err = manager.RunInTx(context.Background(), nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := manager.Users().CreateTx(ctx, tx, &auth.User{Email: "tx@example.com"})
		return err
	})
	require.NoError(t, err)

	user, err := manager.Users().GetByEmail(context.Background(), "tx@example.com")
	require.NoError(t, err)
	assert.Equal(t, "tx", user.Username)
}
