package droplet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"pickaxeclub/wither/internal/config"
	"pickaxeclub/wither/internal/domain"
	"pickaxeclub/wither/internal/providers"
	"pickaxeclub/wither/internal/services/auth"
)

type mockProvider struct {
	droplets []domain.Droplet
	listErr  error
}

func (m *mockProvider) GetDisplayName() string { return "Mock" }

func (m *mockProvider) ListDroplets(context.Context) ([]domain.Droplet, error) {
	return m.droplets, m.listErr
}

func (m *mockProvider) CreateDroplet(context.Context, domain.CreateDropletOpts) (*domain.Droplet, error) {
	return nil, errors.New("not implemented")
}

func (m *mockProvider) DeleteDroplet(context.Context, string) error {
	return errors.New("not implemented")
}

func setup(t *testing.T, mock *mockProvider) {
	t.Helper()
	config.SetPath(filepath.Join(t.TempDir(), "config.json"))
	t.Cleanup(config.ResetPath)
	t.Setenv("WITHER_CLOUD_PROVIDER", "mock")
	t.Setenv("WITHER_DROPLET_NAME", "pickaxe.club")

	providers.Reset()
	t.Cleanup(func() { providers.Reset() })
	providers.Register("mock", func(auth.Store) (domain.Provider, error) { return mock, nil })
}

func execStatus(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(append([]string{"status"}, args...))
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func TestStatus_Running(t *testing.T) {
	setup(t, &mockProvider{droplets: []domain.Droplet{
		{ID: "1", Name: "other"},
		{ID: "1234", Name: "pickaxe.club", Status: "active", PublicIPv4: "203.0.113.5", Region: "nyc3", Size: "g-4vcpu-16gb"},
	}})

	stdout, _ := execStatus(t)

	for _, want := range []string{"1234", "active", "203.0.113.5", "nyc3"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestStatus_Absent(t *testing.T) {
	setup(t, &mockProvider{})

	stdout, _ := execStatus(t)

	if !strings.Contains(stdout, "pickaxe.club is not running on Mock.") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestStatus_JSON(t *testing.T) {
	setup(t, &mockProvider{droplets: []domain.Droplet{{ID: "1234", Name: "pickaxe.club"}}})

	stdout, _ := execStatus(t, "-o", "json")

	var got domain.Droplet
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid json %q: %v", stdout, err)
	}
	if got.ID != "1234" {
		t.Errorf("id = %q", got.ID)
	}
}

func TestStatus_ListError(t *testing.T) {
	setup(t, &mockProvider{listErr: domain.ErrUnauthorized})

	_, stderr := execStatus(t)

	if !strings.Contains(stderr, "failed to list droplets") {
		t.Errorf("stderr = %q", stderr)
	}
}
