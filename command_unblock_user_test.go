package auth_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnblockUserMessageType(t *testing.T) {
	assert.Equal(t, "user.unblock", auth.UnblockUserMessage{}.Type())
}

func TestUnblockUserHandler(t *testing.T) {
	ctx := context.Background()
	manager := auth.NewRepositoryManager(setupUsersDB(t))
	handler := auth.NewUnblockUserHandler(manager)

	user := seedUser(t, manager.Users(), "blocked@example.com")
	user.PasswordStrikes = 5
	user.Blocked = true
	require.NoError(t, manager.Users().TrackFailedPassword(ctx, user))

	err := handler.Execute(ctx, auth.UnblockUserMessage{Email: "blocked@example.com"})
	require.NoError(t, err)

	stored, err := manager.Users().GetByEmail(ctx, "blocked@example.com")
	require.NoError(t, err)
	assert.False(t, stored.Blocked)
	assert.Equal(t, 0, stored.PasswordStrikes)
}

func TestUnblockUserHandler_UnknownEmail(t *testing.T) {
	manager := auth.NewRepositoryManager(setupUsersDB(t))
	handler := auth.NewUnblockUserHandler(manager)

	err := handler.Execute(context.Background(), auth.UnblockUserMessage{Email: "ghost@example.com"})
	require.Error(t, err)
	assert.True(t, goerrors.IsNotFound(err))
}

func TestUnblockUserHandler_CancelledContext(t *testing.T) {
	manager := auth.NewRepositoryManager(setupUsersDB(t))
	handler := auth.NewUnblockUserHandler(manager)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handler.Execute(ctx, auth.UnblockUserMessage{Email: "any@example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
