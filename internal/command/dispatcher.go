package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"pickaxeclub/wither/internal/configvars"
	"pickaxeclub/wither/internal/metrics"
	"pickaxeclub/wither/internal/util"
)

// Chat reports.
const (
	MsgDNSSyntax = "syntax: wither dns <name> <ipv4 address>"
	MsgAddress   = "Pickaxe.club is at %s (%s)."
	MsgNoAddress = "Pickaxe.club has no address yet."
	MsgBoss      = "you are the boss"
	MsgBigBoss   = "you are the big boss"
)

// Relay carries text between chat and game.
type Relay interface {
	Say(ctx context.Context, text string) error
	ToGame(ctx context.Context, speaker, text string) error
	ListPlayers(ctx context.Context) error
}

// Droplets drives the game droplet.
type Droplets interface {
	Status(ctx context.Context) error
	Boot(ctx context.Context, week string) error
	Shutdown(ctx context.Context) error
	RunRemote(ctx context.Context, name, command string) error
}

// Cutover moves the game hostname.
type Cutover interface {
	Cutover(ctx context.Context, label, address string) error
	Zone() string
}

// Services are the collaborators handlers act on.
type Services struct {
	Relay    Relay
	Droplets Droplets
	Cutover  Cutover
	Vars     configvars.Store

	BackupCommand   string
	GenerateCommand string
}

// Handler runs one command.
type Handler func(ctx context.Context, cmd Command) error

// Dispatcher parses, authorizes and runs chat commands.
type Dispatcher struct {
	svc        Services
	policy     Policy
	handlers   map[Kind]Handler
	rconTarget string
	logger     zerolog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithRCONTarget names the console address logged with failures.
func WithRCONTarget(addr string) Option {
	return func(d *Dispatcher) { d.rconTarget = addr }
}

// NewDispatcher builds a dispatcher with one handler per kind.
func NewDispatcher(svc Services, policy Policy, opts ...Option) *Dispatcher {
	d := &Dispatcher{svc: svc, policy: policy, logger: zerolog.Nop()}
	d.handlers = map[Kind]Handler{
		Chat:        d.chat,
		ListPlayers: d.list,
		SetDNS:      d.dns,
		Address:     d.address,
		Boot:        d.boot,
		Shutdown:    d.shutdown,
		Status:      d.status,
		Backup:      d.remote("backup", svc.BackupCommand),
		Generate:    d.remote("generate", svc.GenerateCommand),
		Boss:        d.boss,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch handles one line of chat from issuer. Lines that are not
// commands and commands the issuer may not run are dropped without error.
func (d *Dispatcher) Dispatch(ctx context.Context, issuer, text string) error {
	cmd, ok := Parse(issuer, text)
	if !ok {
		return nil
	}
	kind := cmd.Kind.String()

	if !d.policy.Allowed(issuer, cmd.Kind) {
		d.logger.Debug().Str("kind", kind).Str("issuer", issuer).Msg("command denied")
		metrics.CommandsTotal.WithLabelValues(kind, "denied").Inc()
		return nil
	}

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.CommandDuration.WithLabelValues(kind))

	if err := d.handlers[cmd.Kind](ctx, cmd); err != nil {
		d.logger.Error().
			Err(err).
			Str("class", errorClass(err)).
			Str("kind", kind).
			Str("issuer", issuer).
			Str("rcon", d.rconTarget).
			Msg("command failed")
		metrics.CommandsTotal.WithLabelValues(kind, "error").Inc()
		return err
	}

	d.logger.Debug().Str("kind", kind).Str("issuer", issuer).Msg("command handled")
	metrics.CommandsTotal.WithLabelValues(kind, "ok").Inc()
	return nil
}

func (d *Dispatcher) chat(ctx context.Context, cmd Command) error {
	return d.svc.Relay.ToGame(ctx, cmd.Issuer, cmd.Raw)
}

func (d *Dispatcher) list(ctx context.Context, _ Command) error {
	return d.svc.Relay.ListPlayers(ctx)
}

func (d *Dispatcher) dns(ctx context.Context, cmd Command) error {
	if len(cmd.Args) != 2 || util.ValidateHostLabel(cmd.Args[0]) != nil || util.ValidateIPv4(cmd.Args[1]) != nil {
		return d.svc.Relay.Say(ctx, MsgDNSSyntax)
	}
	return d.svc.Cutover.Cutover(ctx, cmd.Args[0], cmd.Args[1])
}

func (d *Dispatcher) address(ctx context.Context, _ Command) error {
	ip, err := d.svc.Vars.Get(ctx, configvars.RCONIP)
	if errors.Is(err, configvars.ErrNotFound) || (err == nil && ip == "") {
		return d.svc.Relay.Say(ctx, MsgNoAddress)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", configvars.RCONIP, err)
	}
	return d.svc.Relay.Say(ctx, fmt.Sprintf(MsgAddress, ip, d.svc.Cutover.Zone()))
}

func (d *Dispatcher) boot(ctx context.Context, cmd Command) error {
	return d.svc.Droplets.Boot(ctx, strings.Join(cmd.Args, " "))
}

func (d *Dispatcher) shutdown(ctx context.Context, _ Command) error {
	return d.svc.Droplets.Shutdown(ctx)
}

func (d *Dispatcher) status(ctx context.Context, _ Command) error {
	return d.svc.Droplets.Status(ctx)
}

func (d *Dispatcher) remote(name, command string) Handler {
	return func(ctx context.Context, _ Command) error {
		return d.svc.Droplets.RunRemote(ctx, name, command)
	}
}

func (d *Dispatcher) boss(ctx context.Context, cmd Command) error {
	d.logger.Info().Str("line", cmd.Raw).Msg("boss command")
	if err := d.svc.Relay.Say(ctx, MsgBoss); err != nil {
		return err
	}
	return d.svc.Relay.ToGame(ctx, BotName, MsgBigBoss)
}

// errorClass names the type of the innermost wrapped error.
func errorClass(err error) string {
	for {
		inner := errors.Unwrap(err)
		if inner == nil {
			return fmt.Sprintf("%T", err)
		}
		err = inner
	}
}
