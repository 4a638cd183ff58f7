package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// UnblockUserMessage requests that a locked-out account be reopened.
type UnblockUserMessage struct {
	Email string `json:"email"`
}

func (e UnblockUserMessage) Type() string { return "user.unblock" }

// UnblockUserHandler clears the blocked flag and strike counter for the user
// behind the message's email. This is the operational escape hatch for the
// lockout policy: once an account is blocked, only this path reopens it.
type UnblockUserHandler struct {
	repo RepositoryManager
}

func NewUnblockUserHandler(repo RepositoryManager) *UnblockUserHandler {
	return &UnblockUserHandler{repo: repo}
}

func (h *UnblockUserHandler) Execute(ctx context.Context, event UnblockUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user unblock",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *UnblockUserHandler) execute(ctx context.Context, event UnblockUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := h.repo.Users().GetByEmailTx(ctx, tx, event.Email)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return ErrIdentityNotFound.Clone().WithMetadata(map[string]any{
					"email": event.Email,
				})
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user for unblock")
		}

		if err := h.repo.Users().UnblockTx(ctx, tx, user.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to unblock user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "user unblock transaction failed")
	}

	return nil
}
