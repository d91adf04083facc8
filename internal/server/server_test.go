package server

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRun_ShutsDownOnCancel(t *testing.T) {
	f := newFixture()
	api := NewAPI(f.dispatcher, f.chat, f.vars, "s3cret", zerolog.Nop())
	s := New("127.0.0.1:0", api, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
