package providers

import (
	"context"
	"errors"
	"testing"

	"pickaxeclub/wither/internal/domain"
	"pickaxeclub/wither/internal/services/auth"

	"github.com/google/go-cmp/cmp"
)

type stubProvider struct{ name string }

func (s stubProvider) GetDisplayName() string { return s.name }
func (s stubProvider) ListDroplets(context.Context) ([]domain.Droplet, error) {
	return nil, nil
}
func (s stubProvider) CreateDroplet(context.Context, domain.CreateDropletOpts) (*domain.Droplet, error) {
	return nil, nil
}
func (s stubProvider) DeleteDroplet(context.Context, string) error { return nil }

func TestRegistry_GetNormalizesName(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("Stub", func(auth.Store) (domain.Provider, error) {
		return stubProvider{name: "Stub"}, nil
	})

	p, err := Get("  STUB ", auth.NewMockStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.GetDisplayName() != "Stub" {
		t.Errorf("expected Stub provider, got %q", p.GetDisplayName())
	}
}

func TestRegistry_Unknown(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, err := Get("nope", auth.NewMockStore()); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	factory := func(auth.Store) (domain.Provider, error) { return stubProvider{}, nil }
	Register("dup", factory)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("DUP", factory)
}

func TestRegisterAll(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	RegisterAll()

	if diff := cmp.Diff([]string{"digitalocean", "hetzner"}, List()); diff != "" {
		t.Errorf("registered providers mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterAll_MissingToken(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	RegisterAll()

	_, err := Get("digitalocean", auth.NewMockStore())
	if !errors.Is(err, auth.ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}
}
