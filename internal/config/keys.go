package config

import (
	"fmt"
	"strings"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "rcon-ip").
	Name string

	// Env is the environment variable the key is read from (e.g. "RCON_IP").
	Env string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Default is applied before the config file and environment are read.
	Default string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only).
	Set func(cfg *Config, value string)
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name: "port", Env: "PORT", Default: "4567",
		Description: "TCP port the webhook server listens on",
		Get:         func(cfg *Config) string { return cfg.Port },
		Set:         func(cfg *Config, v string) { cfg.Port = v },
	},
	{
		Name: "slack-url", Env: "SLACK_URL",
		Description: "Incoming webhook URL chat messages are posted to",
		Get:         func(cfg *Config) string { return cfg.SlackURL },
		Set:         func(cfg *Config, v string) { cfg.SlackURL = v },
	},
	{
		Name: "slack-token", Env: "SLACK_TOKEN",
		Description: "Shared secret expected in the token field of /hook",
		Get:         func(cfg *Config) string { return cfg.SlackToken },
		Set:         func(cfg *Config, v string) { cfg.SlackToken = v },
	},
	{
		Name: "rcon-ip", Env: "RCON_IP",
		Description: "Address of the game server's remote console",
		Get:         func(cfg *Config) string { return cfg.RCONIP },
		Set:         func(cfg *Config, v string) { cfg.RCONIP = v },
	},
	{
		Name: "rcon-port", Env: "RCON_PORT", Default: "25575",
		Description: "Port of the game server's remote console",
		Get:         func(cfg *Config) string { return cfg.RCONPort },
		Set:         func(cfg *Config, v string) { cfg.RCONPort = v },
	},
	{
		Name: "rcon-password", Env: "RCON_PASSWORD",
		Description: "Remote console password",
		Get:         func(cfg *Config) string { return cfg.RCONPassword },
		Set:         func(cfg *Config, v string) { cfg.RCONPassword = v },
	},
	{
		Name: "cloud-provider", Env: "WITHER_CLOUD_PROVIDER", Default: "digitalocean",
		Description: "Cloud provider hosting the droplet (digitalocean, hetzner)",
		Get:         func(cfg *Config) string { return cfg.CloudProvider },
		Set:         func(cfg *Config, v string) { cfg.CloudProvider = v },
	},
	{
		Name: "droplet-name", Env: "WITHER_DROPLET_NAME", Default: "pickaxe.club",
		Description: "Name of the single managed droplet",
		Get:         func(cfg *Config) string { return cfg.DropletName },
		Set:         func(cfg *Config, v string) { cfg.DropletName = v },
	},
	{
		Name: "droplet-region", Env: "WITHER_DROPLET_REGION", Default: "nyc3",
		Description: "Region the droplet is created in",
		Get:         func(cfg *Config) string { return cfg.DropletRegion },
		Set:         func(cfg *Config, v string) { cfg.DropletRegion = v },
	},
	{
		Name: "droplet-size", Env: "WITHER_DROPLET_SIZE", Default: "g-4vcpu-16gb",
		Description: "Size slug of the droplet",
		Get:         func(cfg *Config) string { return cfg.DropletSize },
		Set:         func(cfg *Config, v string) { cfg.DropletSize = v },
	},
	{
		Name: "droplet-image", Env: "WITHER_DROPLET_IMAGE", Default: "ubuntu-16-04-x64",
		Description: "Image slug the droplet boots from",
		Get:         func(cfg *Config) string { return cfg.DropletImage },
		Set:         func(cfg *Config, v string) { cfg.DropletImage = v },
	},
	{
		Name: "user-data-url", Env: "DO_USER_DATA_URL",
		Description: "URL of the cloud-init user-data script",
		Get:         func(cfg *Config) string { return cfg.UserDataURL },
		Set:         func(cfg *Config, v string) { cfg.UserDataURL = v },
	},
	{
		Name: "archive-url", Env: "ARCHIVE_URL",
		Description: "Base URL holding week<id>.tar.gz restore archives",
		Get:         func(cfg *Config) string { return cfg.ArchiveURL },
		Set:         func(cfg *Config, v string) { cfg.ArchiveURL = v },
	},
	{
		Name: "ssh-user", Env: "WITHER_SSH_USER", Default: "minecraft",
		Description: "User for SSH status probes and remote commands",
		Get:         func(cfg *Config) string { return cfg.SSHUser },
		Set:         func(cfg *Config, v string) { cfg.SSHUser = v },
	},
	{
		Name: "ssh-password", Env: "DO_SSH_PASSWORD",
		Description: "Password for SSH status probes and remote commands",
		Get:         func(cfg *Config) string { return cfg.SSHPassword },
		Set:         func(cfg *Config, v string) { cfg.SSHPassword = v },
	},
	{
		Name: "backup-command", Env: "WITHER_BACKUP_COMMAND",
		Description: "Shell command run on the droplet by 'wither backup'",
		Get:         func(cfg *Config) string { return cfg.BackupCommand },
		Set:         func(cfg *Config, v string) { cfg.BackupCommand = v },
	},
	{
		Name: "generate-command", Env: "WITHER_GENERATE_COMMAND",
		Description: "Shell command run on the droplet by 'wither generate'",
		Get:         func(cfg *Config) string { return cfg.GenerateCommand },
		Set:         func(cfg *Config, v string) { cfg.GenerateCommand = v },
	},
	{
		Name: "boot-restore-week", Env: "BOOT_RESTORE_WEEK",
		Description: "Restore week selected by the last boot",
		Get:         func(cfg *Config) string { return cfg.BootRestoreWeek },
		Set:         func(cfg *Config, v string) { cfg.BootRestoreWeek = v },
	},
	{
		Name: "dns-zone", Env: "DNS_ZONE", Default: "pickaxe.club",
		Description: "Zone game hostnames are created under",
		Get:         func(cfg *Config) string { return cfg.DNSZone },
		Set:         func(cfg *Config, v string) { cfg.DNSZone = v },
	},
	{
		Name: "dns-updater", Env: "WITHER_DNS_UPDATER", Default: "script",
		Description: "DNS update back end (script, nsupdate, porkbun, cloudflare)",
		Get:         func(cfg *Config) string { return cfg.DNSUpdater },
		Set:         func(cfg *Config, v string) { cfg.DNSUpdater = v },
	},
	{
		Name: "dns-script", Env: "DNS_SCRIPT", Default: "./change_dns.sh",
		Description: "Script run by the script updater with <fqdn> <address>",
		Get:         func(cfg *Config) string { return cfg.DNSScript },
		Set:         func(cfg *Config, v string) { cfg.DNSScript = v },
	},
	{
		Name: "dns-server", Env: "DNS_SERVER",
		Description: "Authoritative server (host:port) for nsupdate",
		Get:         func(cfg *Config) string { return cfg.DNSServer },
		Set:         func(cfg *Config, v string) { cfg.DNSServer = v },
	},
	{
		Name: "dns-key-dir", Env: "DNS_KEY_DIR", Default: ".",
		Description: "Directory the TSIG key files are written to",
		Get:         func(cfg *Config) string { return cfg.DNSKeyDir },
		Set:         func(cfg *Config, v string) { cfg.DNSKeyDir = v },
	},
	{
		Name: "dns-private", Env: "DNS_PRIVATE",
		Description: "Contents of the TSIG .private key file",
		Get:         func(cfg *Config) string { return cfg.DNSPrivate },
		Set:         func(cfg *Config, v string) { cfg.DNSPrivate = v },
	},
	{
		Name: "dns-key", Env: "DNS_KEY",
		Description: "Contents of the TSIG .key file",
		Get:         func(cfg *Config) string { return cfg.DNSKey },
		Set:         func(cfg *Config, v string) { cfg.DNSKey = v },
	},
	{
		Name: "config-store", Env: "WITHER_CONFIG_STORE", Default: "heroku",
		Description: "Config var store written by boot and dns (heroku, sqlite)",
		Get:         func(cfg *Config) string { return cfg.ConfigStore },
		Set:         func(cfg *Config, v string) { cfg.ConfigStore = v },
	},
	{
		Name: "heroku-app", Env: "HEROKU_APP", Default: "wither",
		Description: "Heroku app whose config vars are written",
		Get:         func(cfg *Config) string { return cfg.HerokuApp },
		Set:         func(cfg *Config, v string) { cfg.HerokuApp = v },
	},
	{
		Name: "state-db", Env: "WITHER_STATE_DB",
		Description: "SQLite file used by the sqlite config store",
		Get:         func(cfg *Config) string { return cfg.StateDB },
		Set:         func(cfg *Config, v string) { cfg.StateDB = v },
	},
	{
		Name: "operators", Env: "WITHER_OPERATORS",
		Description: "Comma-separated users allowed to run management commands",
		Get:         func(cfg *Config) string { return cfg.Operators },
		Set:         func(cfg *Config, v string) { cfg.Operators = v },
	},
	{
		Name: "log-level", Env: "LOG_LEVEL", Default: "info",
		Description: "Minimum log level (debug, info, warn, error)",
		Get:         func(cfg *Config) string { return cfg.LogLevel },
		Set:         func(cfg *Config, v string) { cfg.LogLevel = v },
	},
	{
		Name: "log-json", Env: "LOG_JSON",
		Description: "Write logs as JSON lines when set to 1",
		Get:         func(cfg *Config) string { return cfg.LogJSON },
		Set:         func(cfg *Config, v string) { cfg.LogJSON = v },
	},
}

// Lookup returns the KeySpec for the given name or environment variable, or
// nil if not found. The name is matched case-insensitively after trimming
// whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.TrimSpace(name)
	for i := range Keys {
		if strings.EqualFold(Keys[i].Name, normalized) || strings.EqualFold(Keys[i].Env, normalized) {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Env) > maxLen {
			maxLen = len(k.Env)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Env, k.Description)
	}
	return b.String()
}
