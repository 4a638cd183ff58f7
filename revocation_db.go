package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// DatabaseRevocationStore persists revoked tokens in the revoked_tokens
// table. Each call is a single short statement; the database engine's own
// locking discipline is the only synchronization.
type DatabaseRevocationStore struct {
	db bun.IDB
}

// NewDatabaseRevocationStore returns a store backed by db.
func NewDatabaseRevocationStore(db bun.IDB) *DatabaseRevocationStore {
	return &DatabaseRevocationStore{db: db}
}

var _ RevocationStore = (*DatabaseRevocationStore)(nil)

// IsRevoked runs a point lookup by token string.
func (s *DatabaseRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*RevokedToken)(nil)).
		Where("?TableAlias.token = ?", token).
		Exists(ctx)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check token revocation")
	}

	return exists, nil
}

// Record inserts a revocation record. The prior IsRevoked check keeps the
// insert from tripping the primary key when the token is already revoked.
func (s *DatabaseRevocationStore) Record(ctx context.Context, token string, expiration time.Time) error {
	revoked, err := s.IsRevoked(ctx, token)
	if err != nil {
		return err
	}
	if revoked {
		return nil
	}

	record := &RevokedToken{
		Token:      token,
		Expiration: expiration.UTC(),
	}

	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to record token revocation")
	}

	return nil
}
