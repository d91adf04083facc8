package auth

import (
	"errors"
	"os"
	"strings"
)

// ErrReadOnly is returned when writing to a store that cannot persist tokens.
var ErrReadOnly = errors.New("auth store is read-only")

// DefaultEnvVars maps credential names to the environment variables the
// deployment sets for them.
var DefaultEnvVars = map[string]string{
	"digitalocean":         "DO_ACCESS_TOKEN",
	"hetzner":              "HCLOUD_TOKEN",
	"heroku":               "HEROKU_PLATFORM_API_TOKEN",
	"cloudflare":           "CLOUDFLARE_API_TOKEN",
	"porkbun-apikey":       "PORKBUN_API_KEY",
	"porkbun-secretapikey": "PORKBUN_SECRET_API_KEY",
	"ssh":                  "DO_SSH_PASSWORD",
}

// EnvStore reads tokens from environment variables.
type EnvStore struct {
	vars   map[string]string
	lookup func(string) (string, bool)
}

func NewEnvStore(vars map[string]string) *EnvStore {
	return &EnvStore{vars: vars, lookup: os.LookupEnv}
}

func (e *EnvStore) GetToken(provider string) (string, error) {
	name, ok := e.vars[NormalizeProvider(provider)]
	if !ok {
		return "", ErrTokenNotFound
	}
	value, ok := e.lookup(name)
	if !ok || strings.TrimSpace(value) == "" {
		return "", ErrTokenNotFound
	}
	return value, nil
}

func (e *EnvStore) SetToken(provider string, token string) error {
	return ErrReadOnly
}

func (e *EnvStore) DeleteToken(provider string) error {
	return ErrReadOnly
}

// ChainStore consults each store in order. Writes go to the first store
// that accepts them.
type ChainStore struct {
	stores []Store
}

func NewChainStore(stores ...Store) *ChainStore {
	return &ChainStore{stores: stores}
}

func (c *ChainStore) GetToken(provider string) (string, error) {
	for _, s := range c.stores {
		token, err := s.GetToken(provider)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, ErrTokenNotFound) {
			return "", err
		}
	}
	return "", ErrTokenNotFound
}

func (c *ChainStore) SetToken(provider string, token string) error {
	for _, s := range c.stores {
		err := s.SetToken(provider, token)
		if errors.Is(err, ErrReadOnly) {
			continue
		}
		return err
	}
	return ErrReadOnly
}

func (c *ChainStore) DeleteToken(provider string) error {
	deleted := false
	for _, s := range c.stores {
		err := s.DeleteToken(provider)
		switch {
		case err == nil:
			deleted = true
		case errors.Is(err, ErrReadOnly), errors.Is(err, ErrTokenNotFound):
		default:
			return err
		}
	}
	if !deleted {
		return ErrTokenNotFound
	}
	return nil
}
