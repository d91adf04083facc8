package services

import (
	"context"
	"errors"
	"testing"

	"pickaxeclub/wither/internal/dns/domain"

	"github.com/google/go-cmp/cmp"
)

type fakeProvider struct {
	records []domain.Record
	listErr error

	created []domain.RecordOpts
	updated map[string]domain.RecordOpts
}

func (f *fakeProvider) GetDisplayName() string { return "Fake" }

func (f *fakeProvider) ListRecords(_ context.Context, zone string) ([]domain.Record, error) {
	return f.records, f.listErr
}

func (f *fakeProvider) CreateRecord(_ context.Context, zone string, opts domain.RecordOpts) (*domain.Record, error) {
	f.created = append(f.created, opts)
	return &domain.Record{ID: "new", Zone: zone, Name: opts.Name + "." + zone, Type: opts.Type, Content: opts.Content, TTL: opts.TTL}, nil
}

func (f *fakeProvider) UpdateRecord(_ context.Context, zone, id string, opts domain.RecordOpts) error {
	if f.updated == nil {
		f.updated = map[string]domain.RecordOpts{}
	}
	f.updated[id] = opts
	return nil
}

func TestUpsertA_UpdatesExisting(t *testing.T) {
	p := &fakeProvider{records: []domain.Record{
		{ID: "1", Name: "survival.pickaxe.club", Type: "TXT", Content: "hello"},
		{ID: "2", Name: "Survival.Pickaxe.Club.", Type: domain.RecordTypeA, Content: "10.0.0.1", TTL: 600},
	}}
	svc := New(p)

	rec, err := svc.UpsertA(context.Background(), "pickaxe.club", "survival", "203.0.113.5")
	if err != nil {
		t.Fatalf("UpsertA() error = %v", err)
	}

	want := map[string]domain.RecordOpts{
		"2": {Name: "survival", Type: domain.RecordTypeA, Content: "203.0.113.5", TTL: DefaultTTL},
	}
	if diff := cmp.Diff(want, p.updated); diff != "" {
		t.Errorf("updates mismatch (-want +got):\n%s", diff)
	}
	if len(p.created) != 0 {
		t.Errorf("unexpected create %v", p.created)
	}
	if rec.ID != "2" || rec.Content != "203.0.113.5" {
		t.Errorf("UpsertA() = %+v", rec)
	}
}

func TestUpsertA_CreatesMissing(t *testing.T) {
	p := &fakeProvider{}
	svc := New(p, WithTTL(300))

	if _, err := svc.UpsertA(context.Background(), "Pickaxe.Club.", "creative.pickaxe.club", "198.51.100.7"); err != nil {
		t.Fatalf("UpsertA() error = %v", err)
	}

	want := []domain.RecordOpts{{Name: "creative", Type: domain.RecordTypeA, Content: "198.51.100.7", TTL: 300}}
	if diff := cmp.Diff(want, p.created); diff != "" {
		t.Errorf("creates mismatch (-want +got):\n%s", diff)
	}
}

func TestUpsertA_Validation(t *testing.T) {
	svc := New(&fakeProvider{})

	if _, err := svc.UpsertA(context.Background(), "", "survival", "203.0.113.5"); err == nil {
		t.Error("expected error for empty zone")
	}
	for _, bad := range []string{"", "999.1.1.1", "2001:db8::1", "survival"} {
		if _, err := svc.UpsertA(context.Background(), "pickaxe.club", "survival", bad); err == nil {
			t.Errorf("expected error for address %q", bad)
		}
	}
}

func TestUpsertA_ListErrorPropagates(t *testing.T) {
	p := &fakeProvider{listErr: domain.ErrUnauthorized}
	_, err := New(p).UpsertA(context.Background(), "pickaxe.club", "survival", "203.0.113.5")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestNormalizeSubdomain(t *testing.T) {
	tests := map[string]string{
		"survival":               "survival",
		"SURVIVAL.pickaxe.club.": "survival",
		"pickaxe.club":           "",
		" ":                      "",
	}
	for in, want := range tests {
		if got := normalizeSubdomain(in, "pickaxe.club"); got != want {
			t.Errorf("normalizeSubdomain(%q) = %q, want %q", in, got, want)
		}
	}
}
