// Package config holds the settings of a frabble peer. Values come from
// flags, FRABBLE_ environment variables and an optional YAML file, in that
// order of precedence.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug             = "debug"
	ConfigConfigFile        = "config"
	ConfigNatsURL           = "nats-url"
	ConfigSession           = "session"
	ConfigName              = "name"
	ConfigHost              = "host"
	ConfigLanguage          = "language"
	ConfigTimeLimit         = "time-limit"
	ConfigSeed              = "seed"
	ConfigPenaltyRule       = "penalty-rule"
	ConfigTickInterval      = "tick-interval"
	ConfigHeartbeatInterval = "heartbeat-interval"
	ConfigAckTimeout        = "ack-timeout"
	ConfigAckAttempts       = "ack-attempts"
)

type Config struct {
	*viper.Viper
}

// DefaultConfig returns a config with every default set and nothing
// parsed.
func DefaultConfig() *Config {
	c := &Config{viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigNatsURL, "nats://127.0.0.1:4222")
	c.SetDefault(ConfigSession, "default")
	c.SetDefault(ConfigName, "")
	c.SetDefault(ConfigHost, false)
	c.SetDefault(ConfigLanguage, "en")
	c.SetDefault(ConfigTimeLimit, 0)
	c.SetDefault(ConfigSeed, "")
	c.SetDefault(ConfigPenaltyRule, "remaining-points")
	c.SetDefault(ConfigTickInterval, 500*time.Millisecond)
	c.SetDefault(ConfigHeartbeatInterval, 2*time.Second)
	c.SetDefault(ConfigAckTimeout, 3*time.Second)
	c.SetDefault(ConfigAckAttempts, 3)
}

// Load parses args and binds the environment. A --config file is read if
// given.
func (c *Config) Load(args []string) error {
	if c.Viper == nil {
		c.Viper = viper.New()
	}
	c.setDefaults()

	fs := pflag.NewFlagSet("frabble", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigConfigFile, "", "path to a YAML config file")
	fs.String(ConfigNatsURL, c.GetString(ConfigNatsURL), "the NATS server to connect to")
	fs.String(ConfigSession, c.GetString(ConfigSession), "the session (game room) to join")
	fs.String(ConfigName, "", "your display name; random if empty")
	fs.Bool(ConfigHost, false, "host the session")
	fs.String(ConfigLanguage, c.GetString(ConfigLanguage), "the game language")
	fs.Int(ConfigTimeLimit, 0, "seconds per turn; 0 for no limit")
	fs.String(ConfigSeed, "", "the game seed; random if empty")
	fs.String(ConfigPenaltyRule, c.GetString(ConfigPenaltyRule), "end of game penalty: remaining-points or missing-count")
	fs.Duration(ConfigTickInterval, c.GetDuration(ConfigTickInterval), "how often the turn timer is checked")
	fs.Duration(ConfigHeartbeatInterval, c.GetDuration(ConfigHeartbeatInterval), "how often peers say they are alive")
	fs.Duration(ConfigAckTimeout, c.GetDuration(ConfigAckTimeout), "how long to wait for the host to acknowledge a message")
	fs.Int(ConfigAckAttempts, c.GetInt(ConfigAckAttempts), "how often a message is sent before giving up")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("frabble")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if f := c.GetString(ConfigConfigFile); f != "" {
		c.SetConfigFile(f)
		c.SetConfigType("yaml")
		if err := c.ReadInConfig(); err != nil {
			return err
		}
	}
	if c.GetInt(ConfigAckAttempts) < 1 {
		return errors.New("ack-attempts must be at least 1")
	}
	return nil
}

// SanitizedSettings returns the settings for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
