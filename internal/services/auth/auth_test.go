package auth

import (
	"errors"
	"testing"
)

func newTestEnvStore(env map[string]string) *EnvStore {
	s := NewEnvStore(DefaultEnvVars)
	s.lookup = func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
	return s
}

func TestEnvStore_GetToken(t *testing.T) {
	s := newTestEnvStore(map[string]string{"DO_ACCESS_TOKEN": "do-token"})

	got, err := s.GetToken("DigitalOcean")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "do-token" {
		t.Errorf("expected %q, got %q", "do-token", got)
	}
}

func TestEnvStore_MissingOrBlank(t *testing.T) {
	s := newTestEnvStore(map[string]string{"HCLOUD_TOKEN": "  "})

	for _, provider := range []string{"hetzner", "digitalocean", "unknown"} {
		if _, err := s.GetToken(provider); !errors.Is(err, ErrTokenNotFound) {
			t.Errorf("%s: expected ErrTokenNotFound, got %v", provider, err)
		}
	}
}

func TestEnvStore_ReadOnly(t *testing.T) {
	s := newTestEnvStore(nil)
	if err := s.SetToken("hetzner", "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestChainStore_FallsThrough(t *testing.T) {
	env := newTestEnvStore(map[string]string{})
	mock := NewMockStore()
	mock.SetToken("hetzner", "from-keyring")

	chain := NewChainStore(env, mock)

	got, err := chain.GetToken("hetzner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-keyring" {
		t.Errorf("expected %q, got %q", "from-keyring", got)
	}
}

func TestChainStore_EnvWins(t *testing.T) {
	env := newTestEnvStore(map[string]string{"HCLOUD_TOKEN": "from-env"})
	mock := NewMockStore()
	mock.SetToken("hetzner", "from-keyring")

	got, err := NewChainStore(env, mock).GetToken("hetzner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-env" {
		t.Errorf("expected %q, got %q", "from-env", got)
	}
}

func TestChainStore_SetSkipsReadOnly(t *testing.T) {
	mock := NewMockStore()
	chain := NewChainStore(newTestEnvStore(nil), mock)

	if err := chain.SetToken("hetzner", "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := mock.GetToken("hetzner"); got != "tok" {
		t.Errorf("expected token stored in second store, got %q", got)
	}
}

func TestChainStore_DeleteMissing(t *testing.T) {
	chain := NewChainStore(newTestEnvStore(nil), NewMockStore())
	if err := chain.DeleteToken("hetzner"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}
}
