package rcon

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	gorcon "github.com/gorcon/rcon"
	"github.com/gorcon/rcon/rcontest"

	"pickaxeclub/wither/internal/retry"
)

func newTestServer(t *testing.T) *rcontest.Server {
	t.Helper()
	srv := rcontest.NewServer(
		rcontest.SetSettings(rcontest.Settings{Password: "hunter2"}),
		rcontest.SetCommandHandler(func(c *rcontest.Context) {
			reply := "Unknown command"
			if c.Request().Body() == "list" {
				reply = "There are 1 of a max of 20 players online: qrush\n"
			}
			gorcon.NewPacket(gorcon.SERVERDATA_RESPONSE_VALUE, c.Request().ID, reply).WriteTo(c.Conn())
		}),
	)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Execute(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.Addr(), "hunter2")

	got, err := c.Execute(context.Background(), "list")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if want := "There are 1 of a max of 20 players online: qrush"; got != want {
		t.Errorf("Execute() = %q, want %q", got, want)
	}
}

func TestClient_AuthFailureNotRetried(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.Addr(), "wrong", WithRetry(retry.Config{MaxAttempts: 3}))

	_, err := c.Execute(context.Background(), "list")
	if !errors.Is(err, gorcon.ErrAuthFailed) {
		t.Fatalf("Execute() error = %v, want ErrAuthFailed", err)
	}
}

func TestClient_DialRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c := New(addr, "pw",
		WithTimeouts(200*time.Millisecond, time.Second),
		WithRetry(retry.Config{MaxAttempts: 2}))

	if _, err := c.Execute(context.Background(), "list"); err == nil {
		t.Fatal("expected dial error")
	}
	if c.Address() != addr {
		t.Errorf("Address() = %q", c.Address())
	}
}

func TestClient_Resolver(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name    string
		static  string
		resolve Resolver
	}{
		{
			name:    "moved address",
			static:  "192.0.2.1:25575",
			resolve: func(context.Context) (string, error) { return srv.Addr(), nil },
		},
		{
			name:    "empty keeps static",
			static:  srv.Addr(),
			resolve: func(context.Context) (string, error) { return "", nil },
		},
		{
			name:    "lookup error keeps static",
			static:  srv.Addr(),
			resolve: func(context.Context) (string, error) { return "", errors.New("store down") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.static, "hunter2",
				WithTimeouts(200*time.Millisecond, time.Second),
				WithRetry(retry.Config{MaxAttempts: 1}),
				WithResolver(tt.resolve))

			if _, err := c.Execute(context.Background(), "list"); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
		})
	}
}

func TestFirstWord(t *testing.T) {
	if got := firstWord(`tellraw @a ["",{"text":"secret"}]`); got != "tellraw" {
		t.Errorf("firstWord() = %q", got)
	}
	if got := firstWord("list"); got != "list" {
		t.Errorf("firstWord() = %q", got)
	}
}
