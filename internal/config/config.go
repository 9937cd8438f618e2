package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token   string `yaml:"token"`
	Mode    string `yaml:"mode"` // polling | webhook (future)
	Workers int    `yaml:"workers"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string   `yaml:"url"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	AdminTTL Duration `yaml:"admin_ttl"` // admin capability-set cache TTL
}

type AdminConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

// PolicyConfig carries every tunable of the moderation policy engine.
type PolicyConfig struct {
	Timezone string `yaml:"timezone"` // fixed named zone for the night window

	TickInterval  Duration `yaml:"tick_interval"`  // lock / night-lock pass
	SweepInterval Duration `yaml:"sweep_interval"` // subscription sweep

	MaxWarnings  int      `yaml:"max_warnings"`
	MuteDuration Duration `yaml:"mute_duration"`

	SubscriptionDays int `yaml:"subscription_days"`
	ExpiryWarnDays   int `yaml:"expiry_warn_days"`

	NightStartHour int      `yaml:"night_start_hour"`
	NightEndHour   int      `yaml:"night_end_hour"`
	NightTolerance Duration `yaml:"night_tolerance"`
	NightWarnLead  Duration `yaml:"night_warn_lead"`
	NightOverride  Duration `yaml:"night_override"` // one-night suppression
}

// Location resolves the configured zone. Boundaries are always evaluated
// there, never in the host zone.
func (p PolicyConfig) Location() (*time.Location, error) {
	return time.LoadLocation(p.Timezone)
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Admin    AdminConfig    `yaml:"admin"`
	Policy   PolicyConfig   `yaml:"policy"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Runtime.Dev = dev
	cfg.applyDefaults()

	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot.token is required")
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database.url is required")
	}
	if _, err := cfg.Policy.Location(); err != nil {
		return nil, fmt.Errorf("policy.timezone: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Bot.Workers <= 0 {
		c.Bot.Workers = 8
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Redis.AdminTTL.Value() <= 0 {
		c.Redis.AdminTTL = Duration(5 * time.Minute)
	}
	p := &c.Policy
	if p.Timezone == "" {
		p.Timezone = "Asia/Tehran"
	}
	if p.TickInterval.Value() <= 0 {
		p.TickInterval = Duration(time.Minute)
	}
	if p.SweepInterval.Value() <= 0 {
		p.SweepInterval = Duration(6 * time.Hour)
	}
	if p.MaxWarnings <= 0 {
		p.MaxWarnings = 3
	}
	if p.MuteDuration.Value() <= 0 {
		p.MuteDuration = Duration(time.Hour)
	}
	if p.SubscriptionDays <= 0 {
		p.SubscriptionDays = 30
	}
	if p.ExpiryWarnDays <= 0 {
		p.ExpiryWarnDays = 3
	}
	if p.NightStartHour == 0 && p.NightEndHour == 0 {
		p.NightStartHour = 2
		p.NightEndHour = 7
	}
	if p.NightTolerance.Value() <= 0 {
		p.NightTolerance = Duration(30 * time.Minute)
	}
	if p.NightWarnLead.Value() <= 0 {
		p.NightWarnLead = Duration(15 * time.Minute)
	}
	if p.NightOverride.Value() <= 0 {
		p.NightOverride = Duration(6 * time.Hour)
	}
}
