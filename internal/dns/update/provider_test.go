package update

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"pickaxeclub/wither/internal/dns/domain"
	"pickaxeclub/wither/internal/dns/services"
)

type stubProvider struct {
	created []domain.RecordOpts
	err     error
}

func (s *stubProvider) GetDisplayName() string { return "Stub" }

func (s *stubProvider) ListRecords(context.Context, string) ([]domain.Record, error) {
	return nil, s.err
}

func (s *stubProvider) CreateRecord(_ context.Context, zone string, opts domain.RecordOpts) (*domain.Record, error) {
	s.created = append(s.created, opts)
	return &domain.Record{ID: "42", Zone: zone, Name: opts.Name, Type: opts.Type, Content: opts.Content}, nil
}

func (s *stubProvider) UpdateRecord(context.Context, string, string, domain.RecordOpts) error {
	return nil
}

func TestProviderUpdater_Update(t *testing.T) {
	p := &stubProvider{}
	u := NewProviderUpdater(services.New(p), "pickaxe.club", zerolog.Nop())

	if err := u.Update(context.Background(), "mc.pickaxe.club", "203.0.113.7"); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(p.created) != 1 || p.created[0].Name != "mc" || p.created[0].Content != "203.0.113.7" {
		t.Errorf("created = %+v", p.created)
	}
}

func TestProviderUpdater_MixedCaseZone(t *testing.T) {
	p := &stubProvider{}
	u := NewProviderUpdater(services.New(p), "Pickaxe.Club.", zerolog.Nop())

	if err := u.Update(context.Background(), "MC.pickaxe.club", "203.0.113.7"); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(p.created) != 1 || p.created[0].Name != "mc" {
		t.Errorf("created = %+v", p.created)
	}
}

func TestProviderUpdater_OutsideZone(t *testing.T) {
	p := &stubProvider{}
	u := NewProviderUpdater(services.New(p), "pickaxe.club", zerolog.Nop())

	if err := u.Update(context.Background(), "mc.example.com", "203.0.113.7"); err == nil {
		t.Fatal("Update() expected error for a name outside the zone")
	}
	if len(p.created) != 0 {
		t.Errorf("provider was called: %+v", p.created)
	}
}

func TestProviderUpdater_ProviderError(t *testing.T) {
	p := &stubProvider{err: domain.ErrUnauthorized}
	u := NewProviderUpdater(services.New(p), "pickaxe.club", zerolog.Nop())

	err := u.Update(context.Background(), "mc.pickaxe.club", "203.0.113.7")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Update() error = %v, want ErrUnauthorized", err)
	}
}
