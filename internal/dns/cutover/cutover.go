// Package cutover moves the game hostname to a new address and then
// repoints the remote console at it.
package cutover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pickaxeclub/wither/internal/configvars"
	"pickaxeclub/wither/internal/dns/update"
	"pickaxeclub/wither/internal/metrics"
)

// Chat reports.
const (
	MsgMoved  = "I've moved pickaxe to %s, pointing at %s. :pickaxe:"
	MsgFailed = "Dns update failed."
)

// DefaultDelay is how long to wait for the record to propagate before the
// console address changes.
const DefaultDelay = 2 * time.Second

// Notifier reports to the chat platform.
type Notifier interface {
	Say(ctx context.Context, text string) error
}

// Keys holds the TSIG key material written next to the update script.
type Keys struct {
	Dir     string
	Private string
	Public  string
}

// Controller performs DNS cutovers for one zone.
type Controller struct {
	zone    string
	keys    Keys
	updater update.Updater
	vars    configvars.Store
	notify  Notifier
	delay   time.Duration
	logger  zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithDelay overrides the propagation delay.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithLogger sets the controller's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New returns a controller for zone.
func New(zone string, keys Keys, updater update.Updater, vars configvars.Store, notify Notifier, opts ...Option) *Controller {
	c := &Controller{
		zone:    strings.TrimSuffix(zone, "."),
		keys:    keys,
		updater: updater,
		vars:    vars,
		notify:  notify,
		delay:   DefaultDelay,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Zone returns the zone records are written in.
func (c *Controller) Zone() string { return c.zone }

// Cutover points <label>.<zone> at address. A failed update is reported in
// chat and is not an error. RCON_IP is written last and only after a
// successful update; the process may restart while it is written.
func (c *Controller) Cutover(ctx context.Context, label, address string) error {
	fqdn := label + "." + c.zone

	if err := EnsureKeys(c.keys.Dir, c.zone, c.keys.Private, c.keys.Public); err != nil {
		return err
	}

	if err := c.updater.Update(ctx, fqdn, address); err != nil {
		c.logger.Error().Err(err).Str("fqdn", fqdn).Str("address", address).Msg("dns update failed")
		metrics.DNSCutoversTotal.WithLabelValues("failed").Inc()
		return c.notify.Say(ctx, MsgFailed)
	}
	metrics.DNSCutoversTotal.WithLabelValues("ok").Inc()

	if err := c.notify.Say(ctx, fmt.Sprintf(MsgMoved, fqdn, address)); err != nil {
		return err
	}

	t := time.NewTimer(c.delay)
	select {
	case <-t.C:
	case <-ctx.Done():
		t.Stop()
	}

	c.logger.Info().Str("address", address).Msg("repointing console")
	if err := c.vars.Set(context.WithoutCancel(ctx), configvars.RCONIP, address); err != nil {
		return fmt.Errorf("set %s: %w", configvars.RCONIP, err)
	}
	return nil
}

// EnsureKeys writes the zone's TSIG key files into dir unless both already
// exist. Existing files are overwritten when only one of them is present.
func EnsureKeys(dir, zone, private, public string) error {
	privatePath, keyPath := update.KeyFiles(dir, zone)
	if exists(privatePath) && exists(keyPath) {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}
	if err := os.WriteFile(privatePath, []byte(private), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", privatePath, err)
	}
	if err := os.WriteFile(keyPath, []byte(public), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", keyPath, err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
