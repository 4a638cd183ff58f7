package auth

import (
	"github.com/goliatone/go-persistence-bun"
)

// RegisterModels registers this package's models with the persistence layer
// so fixtures and migrations resolve them. Call it once during bootstrap,
// before the persistence client is created.
func RegisterModels() {
	persistence.RegisterModel((*User)(nil))
	persistence.RegisterModel((*RevokedToken)(nil))
}
