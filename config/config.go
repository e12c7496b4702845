/*
Package config loads server configuration from YAML.

PURPOSE:
  One flat file drives the server: listen address, database path, the
  family-default timezone, CORS origins, the invitation sweep schedule,
  and the billing price IDs that map plan tiers to checkout prices.

DEFAULTS:
  Every field has a zero-config default so `hearthd` runs with no file
  at all. A missing file is not an error; a malformed one is.

USAGE:
  cfg, err := config.Load("./hearth.yaml")
  loc, err := cfg.Location()
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hearth/household-engine/household"
)

// Config is the top-level server configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// DBPath is the SQLite database file (":memory:" for throwaway runs).
	DBPath string `yaml:"db_path"`

	// Timezone is the IANA zone used for families that haven't set one.
	Timezone string `yaml:"timezone"`

	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string `yaml:"cors_origins"`

	// InvitationSweep is the cron schedule for expiring stale invitations.
	InvitationSweep string `yaml:"invitation_sweep"`

	// InvitationTTLHours is how long a new invitation stays acceptable.
	InvitationTTLHours int `yaml:"invitation_ttl_hours"`

	// Prices maps plan tiers to billing price IDs.
	Prices household.PriceIDs `yaml:"prices"`
}

// Default returns the zero-config defaults.
func Default() *Config {
	return &Config{
		Listen:             ":8080",
		DBPath:             "./hearth.db",
		Timezone:           "UTC",
		CORSOrigins:        []string{"http://localhost:3000"},
		InvitationSweep:    "0 * * * *",
		InvitationTTLHours: 7 * 24,
	}
}

// Normalize fills zero values with defaults so partial files behave.
func (c *Config) Normalize() {
	d := Default()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = d.CORSOrigins
	}
	if c.InvitationSweep == "" {
		c.InvitationSweep = d.InvitationSweep
	}
	if c.InvitationTTLHours <= 0 {
		c.InvitationTTLHours = d.InvitationTTLHours
	}
}

// Load reads YAML configuration from path. A missing file yields the
// defaults; any other read or parse failure is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// InvitationTTL returns the invitation lifetime as a duration.
func (c *Config) InvitationTTL() time.Duration {
	return time.Duration(c.InvitationTTLHours) * time.Hour
}
