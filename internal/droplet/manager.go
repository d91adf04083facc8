// Package droplet manages the lifecycle of the single game droplet.
//
// The droplet's existence in the provider's live inventory is its state:
// present means Running, absent means Absent. Nothing is cached; every
// operation lists droplets afresh.
package droplet

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"pickaxeclub/wither/internal/configvars"
	"pickaxeclub/wither/internal/domain"
	"pickaxeclub/wither/internal/metrics"
	"pickaxeclub/wither/internal/sshprobe"
)

// Chat reports.
const (
	MsgOnline         = "Pickaxe.club is online at %s. `%s`"
	MsgOffline        = "Pickaxe.club is offline!"
	MsgTimingOut      = "Pickaxe.club is timing out. Maybe offline?"
	MsgNoAddress      = "Pickaxe.club is starting up and has no address yet."
	MsgAlreadyRunning = "Pickaxe.club is already running!"
	MsgBootSyntax     = "syntax: wither boot <restore_week_number>"
	MsgArchiveMissing = "restore file for week %s not found. Check logs."
	MsgBooting        = "Pickaxe.club is booting up! (restoring week %s)"
	MsgShuttingDown   = "Pickaxe.club is shutting down. I hope it was backed up!"
	MsgNotRunning     = "Pickaxe.club isn't running."
	MsgNotConfigured  = "%s isn't configured."
	MsgRemoteDone     = "Pickaxe.club %s finished. `%s`"
)

// Notifier reports to the chat platform.
type Notifier interface {
	Say(ctx context.Context, text string) error
}

// Shell runs commands on the droplet.
type Shell interface {
	Run(ctx context.Context, host, command string) (string, error)
}

// Archive checks whether a restore archive exists.
type Archive interface {
	Exists(ctx context.Context, week string) (bool, error)
}

// UserDataSource supplies the cloud-init script for new droplets.
type UserDataSource interface {
	Fetch(ctx context.Context) (string, error)
}

// Spec is the fixed shape of the managed droplet.
type Spec struct {
	Name   string
	Region string
	Size   string
	Image  string
}

// DefaultSpec returns the droplet shape the game server is built for.
func DefaultSpec() Spec {
	return Spec{
		Name:   "pickaxe.club",
		Region: "nyc3",
		Size:   "g-4vcpu-16gb",
		Image:  "ubuntu-16-04-x64",
	}
}

// Manager drives boot, shutdown and status of the droplet.
//
// Fetch followed by CreateDroplet is an unsynchronized check-then-act: two
// concurrent boots can both observe Absent. Running a single orchestrator
// process is what keeps the droplet unique.
type Manager struct {
	provider domain.Provider
	vars     configvars.Store
	notify   Notifier
	shell    Shell
	archive  Archive
	userData UserDataSource
	spec     Spec
	logger   zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithSpec overrides the droplet shape.
func WithSpec(s Spec) Option {
	return func(m *Manager) { m.spec = s }
}

// WithLogger sets the manager's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager wires a manager. All collaborators are required.
func NewManager(provider domain.Provider, vars configvars.Store, notify Notifier, shell Shell, archive Archive, userData UserDataSource, opts ...Option) *Manager {
	m := &Manager{
		provider: provider,
		vars:     vars,
		notify:   notify,
		shell:    shell,
		archive:  archive,
		userData: userData,
		spec:     DefaultSpec(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fetch returns the managed droplet, or nil when it is Absent.
func (m *Manager) Fetch(ctx context.Context) (*domain.Droplet, error) {
	d, err := Find(ctx, m.provider, m.spec.Name)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", m.spec.Name, err)
	}
	return d, nil
}

// Find returns the provider's droplet called name, or nil when there is none.
func Find(ctx context.Context, provider domain.Provider, name string) (*domain.Droplet, error) {
	droplets, err := provider.ListDroplets(ctx)
	if err != nil {
		return nil, err
	}
	for i := range droplets {
		if droplets[i].Name == name {
			return &droplets[i], nil
		}
	}
	return nil, nil
}

// Status reports whether the droplet is up, probing it over SSH when it
// exists.
func (m *Manager) Status(ctx context.Context) error {
	d, err := m.Fetch(ctx)
	if err != nil {
		return m.fail("status", err)
	}
	if d == nil {
		m.record("status", "absent")
		return m.notify.Say(ctx, MsgOffline)
	}
	if d.PublicIPv4 == "" {
		m.record("status", "pending")
		return m.notify.Say(ctx, MsgNoAddress)
	}

	uptime, err := m.shell.Run(ctx, d.PublicIPv4, "uptime")
	if errors.Is(err, sshprobe.ErrTimeout) {
		m.logger.Warn().Err(err).Str("ip", d.PublicIPv4).Msg("status probe timed out")
		m.record("status", "timeout")
		return m.notify.Say(ctx, MsgTimingOut)
	}
	if err != nil {
		return m.fail("status", err)
	}

	m.record("status", "running")
	return m.notify.Say(ctx, fmt.Sprintf(MsgOnline, d.PublicIPv4, uptime))
}

// Boot creates the droplet restoring week. The steps run in order and each
// failure stops the boot: already running, malformed week, missing archive.
// BOOT_RESTORE_WEEK is written before the droplet is created; the write may
// restart this process.
func (m *Manager) Boot(ctx context.Context, week string) error {
	d, err := m.Fetch(ctx)
	if err != nil {
		return m.fail("boot", err)
	}
	if d != nil {
		m.record("boot", "noop")
		return m.notify.Say(ctx, MsgAlreadyRunning)
	}

	week, err = ParseRestoreWeek(week)
	if err != nil {
		m.record("boot", "rejected")
		return m.notify.Say(ctx, MsgBootSyntax)
	}

	ok, err := m.archive.Exists(ctx, week)
	if err != nil {
		return m.fail("boot", err)
	}
	if !ok {
		m.record("boot", "rejected")
		return m.notify.Say(ctx, fmt.Sprintf(MsgArchiveMissing, week))
	}

	if err := m.vars.Set(ctx, configvars.BootRestoreWeek, week); err != nil {
		return m.fail("boot", err)
	}

	userData, err := m.userData.Fetch(ctx)
	if err != nil {
		return m.fail("boot", err)
	}

	created, err := m.provider.CreateDroplet(ctx, domain.CreateDropletOpts{
		Name:              m.spec.Name,
		Region:            m.spec.Region,
		Size:              m.spec.Size,
		Image:             m.spec.Image,
		PrivateNetworking: true,
		UserData:          userData,
	})
	if err != nil {
		return m.fail("boot", err)
	}

	m.logger.Info().Str("id", created.ID).Str("week", week).Msg("droplet created")
	m.record("boot", "created")
	return m.notify.Say(ctx, fmt.Sprintf(MsgBooting, week))
}

// Shutdown destroys the droplet if it exists.
func (m *Manager) Shutdown(ctx context.Context) error {
	d, err := m.Fetch(ctx)
	if err != nil {
		return m.fail("shutdown", err)
	}
	if d == nil {
		m.record("shutdown", "noop")
		return m.notify.Say(ctx, MsgNotRunning)
	}

	if err := m.provider.DeleteDroplet(ctx, d.ID); err != nil {
		return m.fail("shutdown", err)
	}

	m.logger.Info().Str("id", d.ID).Msg("droplet deleted")
	m.record("shutdown", "deleted")
	return m.notify.Say(ctx, MsgShuttingDown)
}

// RunRemote runs a configured maintenance command (backup, generate) on the
// droplet and reports its output.
func (m *Manager) RunRemote(ctx context.Context, name, command string) error {
	if command == "" {
		m.record(name, "rejected")
		return m.notify.Say(ctx, fmt.Sprintf(MsgNotConfigured, name))
	}

	d, err := m.Fetch(ctx)
	if err != nil {
		return m.fail(name, err)
	}
	if d == nil {
		m.record(name, "noop")
		return m.notify.Say(ctx, MsgNotRunning)
	}
	if d.PublicIPv4 == "" {
		m.record(name, "pending")
		return m.notify.Say(ctx, MsgNoAddress)
	}

	out, err := m.shell.Run(ctx, d.PublicIPv4, command)
	if errors.Is(err, sshprobe.ErrTimeout) {
		m.record(name, "timeout")
		return m.notify.Say(ctx, MsgTimingOut)
	}
	if err != nil {
		return m.fail(name, err)
	}

	m.record(name, "ok")
	return m.notify.Say(ctx, fmt.Sprintf(MsgRemoteDone, name, out))
}

func (m *Manager) fail(op string, err error) error {
	m.record(op, "error")
	return fmt.Errorf("%s: %w", op, err)
}

func (m *Manager) record(op, result string) {
	metrics.DropletOperationsTotal.WithLabelValues(op, result).Inc()
}
