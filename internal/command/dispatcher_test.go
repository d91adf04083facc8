package command

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pickaxeclub/wither/internal/configvars"
)

// recorder collects every side effect in call order.
type recorder struct {
	calls []string
	err   error
}

func (r *recorder) add(format string, args ...any) error {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
	return r.err
}

func (r *recorder) Say(_ context.Context, text string) error { return r.add("say %s", text) }

func (r *recorder) ToGame(_ context.Context, speaker, text string) error {
	return r.add("game <%s> %s", speaker, text)
}

func (r *recorder) ListPlayers(context.Context) error { return r.add("list") }

func (r *recorder) Status(context.Context) error { return r.add("status") }

func (r *recorder) Boot(_ context.Context, week string) error { return r.add("boot %s", week) }

func (r *recorder) Shutdown(context.Context) error { return r.add("shutdown") }

func (r *recorder) RunRemote(_ context.Context, name, command string) error {
	return r.add("remote %s %s", name, command)
}

func (r *recorder) Cutover(_ context.Context, label, address string) error {
	return r.add("cutover %s %s", label, address)
}

func (r *recorder) Zone() string { return "pickaxe.club" }

func newDispatcher(vars map[string]string) (*Dispatcher, *recorder) {
	r := &recorder{}
	svc := Services{
		Relay:           r,
		Droplets:        r,
		Cutover:         r,
		Vars:            configvars.NewMemoryStore(vars),
		BackupCommand:   "./backup.sh",
		GenerateCommand: "",
	}
	return NewDispatcher(svc, NewPolicy([]string{"qrush"})), r
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name   string
		issuer string
		text   string
		want   []string
	}{
		{"chat", "alice", "hey everyone", []string{"game <alice> hey everyone"}},
		{"list", "alice", "wither list", []string{"list"}},
		{"status open to all", "alice", "wither status", []string{"status"}},
		{"boot", "qrush", "wither boot 042a", []string{"boot 042a"}},
		{"boot keeps extra words for validation", "qrush", "wither boot 042 a", []string{"boot 042 a"}},
		{"shutdown", "qrush", "wither shutdown", []string{"shutdown"}},
		{"dns", "qrush", "wither dns survival 203.0.113.5", []string{"cutover survival 203.0.113.5"}},
		{"dns bad address", "qrush", "wither dns survival 203.0.113", []string{"say " + MsgDNSSyntax}},
		{"dns bad label", "qrush", "wither dns sur.vival 203.0.113.5", []string{"say " + MsgDNSSyntax}},
		{"dns missing args", "qrush", "wither dns survival", []string{"say " + MsgDNSSyntax}},
		{"backup", "qrush", "wither backup", []string{"remote backup ./backup.sh"}},
		{"generate unconfigured", "qrush", "wither generate", []string{"remote generate "}},
		{"boss", "qrush", "wither boss", []string{"say you are the boss", "game <MC_wither> you are the big boss"}},
		{"ip", "alice", "wither ip", []string{"say Pickaxe.club is at 203.0.113.5 (pickaxe.club)."}},
		{"slackbot ignored", "slackbot", "hello", nil},
		{"empty ignored", "alice", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, r := newDispatcher(map[string]string{configvars.RCONIP: "203.0.113.5"})

			if err := d.Dispatch(context.Background(), tt.issuer, tt.text); err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, r.calls); diff != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatch_UnauthorizedHasNoEffects(t *testing.T) {
	for _, text := range []string{
		"wither boot 042a",
		"wither shutdown",
		"wither dns survival 203.0.113.5",
		"wither backup",
		"wither generate",
		"wither boss",
	} {
		t.Run(text, func(t *testing.T) {
			d, r := newDispatcher(nil)
			if err := d.Dispatch(context.Background(), "stranger", text); err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}
			if len(r.calls) != 0 {
				t.Errorf("calls = %v, want none", r.calls)
			}
		})
	}
}

func TestDispatch_AddressUnset(t *testing.T) {
	d, r := newDispatcher(nil)

	if err := d.Dispatch(context.Background(), "alice", "wither ip"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if diff := cmp.Diff([]string{"say " + MsgNoAddress}, r.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatch_ReturnsHandlerError(t *testing.T) {
	d, r := newDispatcher(nil)
	want := errors.New("connection refused")
	r.err = want

	err := d.Dispatch(context.Background(), "alice", "hey everyone")
	if !errors.Is(err, want) {
		t.Errorf("Dispatch() error = %v, want %v", err, want)
	}
}

func TestErrorClass(t *testing.T) {
	inner := &typedError{}
	err := fmt.Errorf("outer: %w", fmt.Errorf("middle: %w", inner))
	if got := errorClass(err); got != "*command.typedError" {
		t.Errorf("errorClass() = %q", got)
	}
}

type typedError struct{}

func (*typedError) Error() string { return "boom" }
