package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model. Only the columns the auth core reads or writes are
// mapped here; profile data lives with the consuming application.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID               uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name             string     `bun:"name" json:"name,omitempty"`
	Username         string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email            string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash     string     `bun:"password_hash" json:"password_hash,omitempty"`
	Active           bool       `bun:"active" json:"active,omitempty"`
	Blocked          bool       `bun:"blocked" json:"blocked,omitempty"`
	Verified         bool       `bun:"verified" json:"verified,omitempty"`
	PasswordStrikes  int        `bun:"password_strikes" json:"password_strikes,omitempty"`
	PasswordBirthday *time.Time `bun:"password_birthday,nullzero" json:"password_birthday,omitempty"`
	CreatedAt        *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt        *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt        *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Identifier returns the value tokens are minted for.
func (u *User) Identifier() string {
	return u.Email
}

// RevokedToken is a token invalidated before its natural expiry. Records are
// written once and never mutated; the expiration column exists so an external
// sweep can eventually discard records for tokens that have expired anyway.
type RevokedToken struct {
	bun.BaseModel `bun:"table:revoked_tokens,alias:rtk"`

	Token      string    `bun:"token,pk" json:"token,omitempty"`
	Expiration time.Time `bun:"expiration,notnull" json:"expiration,omitempty"`
}
