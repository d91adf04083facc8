// Package rcon talks to the game server's remote console.
package rcon

import (
	"context"
	"fmt"
	"strings"
	"time"

	gorcon "github.com/gorcon/rcon"
	"github.com/rs/zerolog"

	"pickaxeclub/wither/internal/retry"
)

const (
	defaultDialTimeout = 5 * time.Second
	defaultDeadline    = 10 * time.Second
)

// Client opens a fresh console connection per command. Only the dial is
// retried; a command that reached the server is never sent twice.
type Client struct {
	addr        string
	password    string
	dialTimeout time.Duration
	deadline    time.Duration
	retry       retry.Config
	resolve     Resolver
	logger      zerolog.Logger
}

// Resolver returns the console's current host:port. An empty result keeps
// the address the client was built with.
type Resolver func(ctx context.Context) (string, error)

// Option configures a Client.
type Option func(*Client)

// WithTimeouts sets the dial timeout and the per-command deadline.
func WithTimeouts(dial, deadline time.Duration) Option {
	return func(c *Client) {
		c.dialTimeout = dial
		c.deadline = deadline
	}
}

// WithRetry sets the dial retry policy.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithResolver looks the address up before every command, so a console that
// moved while the process kept running is still reached.
func WithResolver(r Resolver) Option {
	return func(c *Client) { c.resolve = r }
}

// WithLogger sets the client's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the console at addr (host:port).
func New(addr, password string, opts ...Option) *Client {
	c := &Client{
		addr:        addr,
		password:    password,
		dialTimeout: defaultDialTimeout,
		deadline:    defaultDeadline,
		retry:       retry.DefaultConfig(),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Address returns the console's host:port.
func (c *Client) Address() string { return c.addr }

// Execute runs command and returns the server's reply with surrounding
// whitespace removed.
func (c *Client) Execute(ctx context.Context, command string) (string, error) {
	addr := c.currentAddress(ctx)

	var conn *gorcon.Conn
	err := retry.Do(ctx, c.retry, retry.IsRetryable, func() error {
		var err error
		conn, err = gorcon.Dial(addr, c.password,
			gorcon.SetDialTimeout(c.dialTimeout),
			gorcon.SetDeadline(c.deadline))
		if err != nil {
			c.logger.Debug().Err(err).Str("addr", addr).Msg("rcon dial failed")
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("rcon: dial %s: %w", addr, err)
	}
	defer conn.Close()

	out, err := conn.Execute(command)
	if err != nil {
		return "", fmt.Errorf("rcon: execute %q: %w", firstWord(command), err)
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) currentAddress(ctx context.Context) string {
	if c.resolve == nil {
		return c.addr
	}
	addr, err := c.resolve(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Str("fallback", c.addr).Msg("rcon address lookup failed")
		return c.addr
	}
	if addr == "" {
		return c.addr
	}
	return addr
}

// firstWord keeps relayed chat text out of error messages.
func firstWord(command string) string {
	if i := strings.IndexByte(command, ' '); i >= 0 {
		return command[:i]
	}
	return command
}
