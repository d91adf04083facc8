// Package app wires the configured components into a running service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"pickaxeclub/wither/internal/chat"
	"pickaxeclub/wither/internal/command"
	"pickaxeclub/wither/internal/config"
	"pickaxeclub/wither/internal/configvars"
	"pickaxeclub/wither/internal/database"
	"pickaxeclub/wither/internal/dns/cutover"
	dnsproviders "pickaxeclub/wither/internal/dns/providers"
	dnsservices "pickaxeclub/wither/internal/dns/services"
	"pickaxeclub/wither/internal/dns/update"
	"pickaxeclub/wither/internal/droplet"
	"pickaxeclub/wither/internal/httpclient"
	"pickaxeclub/wither/internal/logging"
	"pickaxeclub/wither/internal/providers"
	"pickaxeclub/wither/internal/rcon"
	"pickaxeclub/wither/internal/server"
	"pickaxeclub/wither/internal/services/auth"
	"pickaxeclub/wither/internal/sshprobe"
)

// App is the assembled service.
type App struct {
	Config     *config.Config
	Vars       configvars.Store
	Relay      *chat.Relay
	Droplets   *droplet.Manager
	Cutover    *cutover.Controller
	Dispatcher *command.Dispatcher
	API        *server.API

	closers []io.Closer
}

// Options override collaborators, mostly for the CLI and tests.
type Options struct {
	// Poster replaces the chat webhook poster.
	Poster chat.Poster
	// Vars replaces the configured config var store.
	Vars configvars.Store
	// Auth replaces the default credential store.
	Auth auth.Store
	// HTTP replaces the shared retrying client.
	HTTP *retryablehttp.Client
}

// Build assembles every component from cfg.
func Build(cfg *config.Config, opts Options) (*App, error) {
	a := &App{Config: cfg}

	store := opts.Auth
	if store == nil {
		store = auth.DefaultStore()
	}
	client := opts.HTTP
	if client == nil {
		client = httpclient.New(logging.WithComponent("http"), httpclient.DefaultRetryMax)
	}

	vars := opts.Vars
	if vars == nil {
		v, closer, err := OpenVars(cfg, store, client)
		if err != nil {
			return nil, err
		}
		vars = v
		if closer != nil {
			a.closers = append(a.closers, closer)
		}
	}
	a.Vars = vars
	// Heroku config vars already arrive through the environment.
	if cfg.ConfigStore != "heroku" {
		overlayVars(context.Background(), cfg, vars)
	}

	poster := opts.Poster
	if poster == nil {
		poster = chat.NewSlackPoster(cfg.SlackURL, client.StandardClient())
	}
	rconOpts := []rcon.Option{rcon.WithLogger(logging.WithComponent("rcon"))}
	if cfg.ConfigStore != "heroku" {
		rconOpts = append(rconOpts, rcon.WithResolver(rconResolver(cfg, vars)))
	}
	console := rcon.New(cfg.RCONAddress(), cfg.RCONPassword, rconOpts...)
	a.Relay = chat.NewRelay(poster, console, chat.WithLogger(logging.WithComponent("relay")))

	provider, err := providers.Get(cfg.CloudProvider, store)
	if err != nil {
		a.Close()
		return nil, err
	}
	dropletLog := logging.WithComponent("droplet")
	a.Droplets = droplet.NewManager(
		provider,
		vars,
		a.Relay,
		sshprobe.New(cfg.SSHUser, cfg.SSHPassword),
		droplet.NewHTTPArchive(client, cfg.ArchiveURL, dropletLog),
		droplet.NewHTTPUserData(client, cfg.UserDataURL),
		droplet.WithSpec(droplet.Spec{
			Name:   cfg.DropletName,
			Region: cfg.DropletRegion,
			Size:   cfg.DropletSize,
			Image:  cfg.DropletImage,
		}),
		droplet.WithLogger(dropletLog),
	)

	updater, err := NewUpdater(cfg, store)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Cutover = cutover.New(
		cfg.DNSZone,
		cutover.Keys{Dir: cfg.DNSKeyDir, Private: cfg.DNSPrivate, Public: cfg.DNSKey},
		updater,
		vars,
		a.Relay,
		cutover.WithLogger(logging.WithComponent("cutover")),
	)

	a.Dispatcher = command.NewDispatcher(
		command.Services{
			Relay:           a.Relay,
			Droplets:        a.Droplets,
			Cutover:         a.Cutover,
			Vars:            vars,
			BackupCommand:   cfg.BackupCommand,
			GenerateCommand: cfg.GenerateCommand,
		},
		command.NewPolicy(cfg.OperatorList()),
		command.WithLogger(logging.WithComponent("dispatcher")),
		command.WithRCONTarget(cfg.RCONAddress()),
	)

	a.API = server.NewAPI(a.Dispatcher, a.Relay, vars, cfg.SlackToken, logging.WithComponent("http"))
	return a, nil
}

// overlayVars copies the keys the service writes at runtime from the config
// var store onto cfg, so a restarted process sees its last cutover.
func overlayVars(ctx context.Context, cfg *config.Config, vars configvars.Store) {
	logger := logging.WithComponent("app")
	for key, set := range map[string]func(string){
		configvars.RCONIP:          func(v string) { cfg.RCONIP = v },
		configvars.BootRestoreWeek: func(v string) { cfg.BootRestoreWeek = v },
	} {
		v, err := vars.Get(ctx, key)
		switch {
		case errors.Is(err, configvars.ErrNotFound):
		case err != nil:
			logger.Warn().Err(err).Str("key", key).Msg("could not read config var")
		case v != "":
			set(v)
		}
	}
}

// rconResolver reads RCON_IP from a store that does not restart the process
// on write. Heroku applies new vars by restarting, so the overlay covers it.
func rconResolver(cfg *config.Config, vars configvars.Store) rcon.Resolver {
	return func(ctx context.Context) (string, error) {
		ip, err := vars.Get(ctx, configvars.RCONIP)
		if errors.Is(err, configvars.ErrNotFound) || (err == nil && ip == "") {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return net.JoinHostPort(ip, cfg.RCONPort), nil
	}
}

// Server returns the HTTP server on the configured port.
func (a *App) Server() *server.Server {
	return server.New(":"+a.Config.Port, a.API, logging.WithComponent("server"))
}

// Close releases stores opened by Build.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// OpenVars opens the configured config var store. The returned closer is
// nil for stores that hold no resources.
func OpenVars(cfg *config.Config, store auth.Store, client *retryablehttp.Client) (configvars.Store, io.Closer, error) {
	switch cfg.ConfigStore {
	case "heroku":
		token, err := store.GetToken("heroku")
		if err != nil {
			return nil, nil, fmt.Errorf("heroku auth: %w", err)
		}
		return configvars.NewHerokuStore(client, cfg.HerokuApp, token), nil, nil
	case "sqlite":
		path := cfg.StateDB
		if path == "" {
			p, err := database.DefaultPath()
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		s, err := configvars.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "memory":
		return configvars.NewMemoryStore(nil), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown config store %q (valid: heroku, sqlite, memory)", cfg.ConfigStore)
}

// NewUpdater returns the configured DNS updater.
func NewUpdater(cfg *config.Config, store auth.Store) (update.Updater, error) {
	logger := logging.WithComponent("dns")

	switch cfg.DNSUpdater {
	case "script":
		return update.NewScriptUpdater(cfg.DNSScript, cfg.DNSKeyDir, logger), nil
	case "nsupdate":
		if cfg.DNSServer == "" {
			return nil, fmt.Errorf("dns updater nsupdate needs DNS_SERVER")
		}
		return update.NewNSUpdater(cfg.DNSServer, cfg.DNSZone, cfg.DNSKeyDir, logger), nil
	}

	p, err := dnsproviders.Get(cfg.DNSUpdater, store)
	if err != nil {
		return nil, fmt.Errorf("dns updater: %w", err)
	}
	return update.NewProviderUpdater(dnsservices.New(p), cfg.DNSZone, logger), nil
}

// Probe logs whether the droplet exists at startup.
func (a *App) Probe(ctx context.Context, logger zerolog.Logger) {
	d, err := a.Droplets.Fetch(ctx)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("could not list droplets")
	case d == nil:
		logger.Info().Str("name", a.Config.DropletName).Msg("droplet is absent")
	default:
		logger.Info().Str("name", d.Name).Str("id", d.ID).Str("ip", d.PublicIPv4).Msg("droplet is running")
	}
}
