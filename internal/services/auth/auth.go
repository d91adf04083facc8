package auth

import (
	"errors"

	"pickaxeclub/wither/internal/util"
)

const ServiceName = "wither"

var ErrTokenNotFound = errors.New("auth token not found")

// Store resolves API credentials by provider name.
type Store interface {
	SetToken(provider string, token string) error
	GetToken(provider string) (string, error)
	DeleteToken(provider string) error
}

// DefaultStore returns the standard auth store: process environment first,
// then the OS keychain. On a dyno the keychain is absent and only the
// environment answers.
func DefaultStore() Store {
	return NewChainStore(NewEnvStore(DefaultEnvVars), NewKeyringStore(ServiceName))
}

// NormalizeProvider normalizes a provider name for consistent key lookup.
func NormalizeProvider(provider string) string {
	return util.NormalizeKey(provider)
}
