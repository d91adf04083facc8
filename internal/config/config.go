// Package config loads process configuration for wither.
//
// Values come from the process environment (the way the hosting platform
// injects config vars), optionally overlaid on a JSON file at
// ~/.config/wither/config.json (or the platform-equivalent path returned by
// os.UserConfigDir, or the path named by WITHER_CONFIG). The environment
// always wins over the file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"
)

const (
	appDir   = "wither"
	fileName = "config.json"

	// PathEnv names an explicit config file path.
	PathEnv = "WITHER_CONFIG"
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// DefaultOperators is the operator allow-list used when WITHER_OPERATORS is unset.
var DefaultOperators = []string{
	"qrush", "tyrosinase", "bensawyer", "fishtoaster", "cobyr", "ravenx99",
	"uncleadam", "sleeplessbooks",
}

// Config holds everything the webhook service needs at startup.
// Secrets for cloud APIs are not here; they are resolved through auth.Store.
type Config struct {
	Port string `json:"port,omitempty"`

	SlackURL   string `json:"slack_url,omitempty"`
	SlackToken string `json:"slack_token,omitempty"`

	RCONIP       string `json:"rcon_ip,omitempty"`
	RCONPort     string `json:"rcon_port,omitempty"`
	RCONPassword string `json:"rcon_password,omitempty"`

	CloudProvider   string `json:"cloud_provider,omitempty"`
	DropletName     string `json:"droplet_name,omitempty"`
	DropletRegion   string `json:"droplet_region,omitempty"`
	DropletSize     string `json:"droplet_size,omitempty"`
	DropletImage    string `json:"droplet_image,omitempty"`
	UserDataURL     string `json:"user_data_url,omitempty"`
	ArchiveURL      string `json:"archive_url,omitempty"`
	SSHUser         string `json:"ssh_user,omitempty"`
	SSHPassword     string `json:"ssh_password,omitempty"`
	BackupCommand   string `json:"backup_command,omitempty"`
	GenerateCommand string `json:"generate_command,omitempty"`
	BootRestoreWeek string `json:"boot_restore_week,omitempty"`

	DNSZone    string `json:"dns_zone,omitempty"`
	DNSUpdater string `json:"dns_updater,omitempty"`
	DNSScript  string `json:"dns_script,omitempty"`
	DNSServer  string `json:"dns_server,omitempty"`
	DNSKeyDir  string `json:"dns_key_dir,omitempty"`
	DNSPrivate string `json:"dns_private,omitempty"`
	DNSKey     string `json:"dns_key,omitempty"`

	ConfigStore string `json:"config_store,omitempty"`
	HerokuApp   string `json:"heroku_app,omitempty"`
	StateDB     string `json:"state_db,omitempty"`

	Operators string `json:"operators,omitempty"`

	LogLevel string `json:"log_level,omitempty"`
	LogJSON  string `json:"log_json,omitempty"`
}

// Path returns the absolute path to the config file.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load builds the configuration from defaults, the config file (if present)
// and the process environment, in that order.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return loadFrom(path, os.LookupEnv)
}

// LoadFrom is Load with an explicit file path and environment lookup.
// Intended for testing.
func LoadFrom(path string, lookup func(string) (string, bool)) (*Config, error) {
	return loadFrom(path, lookup)
}

func loadFrom(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	for _, k := range Keys {
		if v, ok := lookup(k.Env); ok && v != "" {
			k.Set(cfg, v)
		}
	}

	return cfg, nil
}

// Defaults returns a Config populated with every key's default value.
func Defaults() *Config {
	cfg := &Config{}
	for _, k := range Keys {
		if k.Default != "" {
			k.Set(cfg, k.Default)
		}
	}
	return cfg
}

// RCONAddress returns the host:port of the game server's remote console.
func (c *Config) RCONAddress() string {
	return net.JoinHostPort(c.RCONIP, c.RCONPort)
}

// OperatorList returns the operator allow-list.
func (c *Config) OperatorList() []string {
	if strings.TrimSpace(c.Operators) == "" {
		return append([]string(nil), DefaultOperators...)
	}
	var ops []string
	for _, op := range strings.Split(c.Operators, ",") {
		if op = strings.TrimSpace(op); op != "" {
			ops = append(ops, op)
		}
	}
	return ops
}

// JSONLogs reports whether logs should be written as JSON lines.
func (c *Config) JSONLogs() bool {
	switch strings.ToLower(strings.TrimSpace(c.LogJSON)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
