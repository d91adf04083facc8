// Package sshprobe runs short commands on the droplet over SSH with
// password authentication.
package sshprobe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// DefaultTimeout bounds connecting and authenticating.
const DefaultTimeout = 10 * time.Second

// ErrTimeout is returned when the host does not answer within the timeout.
var ErrTimeout = errors.New("ssh: connection timed out")

// Prober opens one SSH session per command.
type Prober struct {
	user     string
	password string
	port     string
	timeout  time.Duration
}

// Option configures a Prober.
type Option func(*Prober)

// WithPort sets the SSH port (default 22).
func WithPort(port string) Option {
	return func(p *Prober) { p.port = port }
}

// WithTimeout sets the connect and handshake timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) { p.timeout = d }
}

// New returns a prober logging in as user with password.
func New(user, password string, opts ...Option) *Prober {
	p := &Prober{
		user:     user,
		password: password,
		port:     "22",
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Uptime returns the output of "uptime" on host.
func (p *Prober) Uptime(ctx context.Context, host string) (string, error) {
	return p.Run(ctx, host, "uptime")
}

// Run executes command on host and returns its trimmed combined output.
// Only connecting and authenticating are bounded by the timeout.
func (p *Prober) Run(ctx context.Context, host, command string) (string, error) {
	client, err := p.connect(ctx, host)
	if err != nil {
		return "", err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("ssh: failed to open session on %s: %w", host, err)
	}
	defer session.Close()

	out, err := session.CombinedOutput(command)
	if err != nil {
		return strings.TrimSpace(string(out)), fmt.Errorf("ssh: %s failed on %s: %w", firstWord(command), host, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (p *Prober) connect(ctx context.Context, host string) (*ssh.Client, error) {
	addr := net.JoinHostPort(host, p.port)
	cfg := &ssh.ClientConfig{
		User: p.user,
		Auth: []ssh.AuthMethod{ssh.Password(p.password)},
		// The droplet is recreated on every boot with a fresh host key.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         p.timeout,
	}

	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, classify(addr, err)
	}

	if err := conn.SetDeadline(time.Now().Add(p.timeout)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh: %w", err)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return nil, classify(addr, err)
	}
	if err := conn.SetDeadline(time.Time{}); err != nil {
		c.Close()
		return nil, fmt.Errorf("ssh: %w", err)
	}
	return ssh.NewClient(c, chans, reqs), nil
}

func classify(addr string, err error) error {
	var netErr net.Error
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, addr, err)
	}
	return fmt.Errorf("ssh: failed to connect to %s: %w", addr, err)
}

func firstWord(command string) string {
	if i := strings.IndexByte(command, ' '); i >= 0 {
		return command[:i]
	}
	return command
}
