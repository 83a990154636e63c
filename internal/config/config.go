package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config is the typed view of the settings the commands consume.
type Config struct {
	Port        int
	MetricsPort int
	Verbose     bool
	LogFile     string

	Store   StoreConfig
	Session SessionConfig
	Mock    MockConfig
	Layout  LayoutConfig
	Login   RateConfig
}

type StoreConfig struct {
	Type string
	DSN  string
}

type SessionConfig struct {
	Store         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
	IdleTimeout   time.Duration
}

type MockConfig struct {
	Enabled          bool
	Delay            time.Duration
	RandomErrors     bool
	ErrorProbability float64
	LoginDelay       time.Duration
}

type LayoutConfig struct {
	// Breakpoint is the web viewport width in CSS pixels below which lists
	// render as cards.
	Breakpoint int
	// TerminalBreakpoint is the same threshold in terminal cells.
	TerminalBreakpoint int
}

type RateConfig struct {
	RPS      float64
	Burst    int
	TrustXFF bool
}

// FromViper reads a Config out of v.
func FromViper(v *viper.Viper) Config {
	return Config{
		Port:        v.GetInt("port"),
		MetricsPort: v.GetInt("metrics_port"),
		Verbose:     v.GetBool("verbose"),
		LogFile:     v.GetString("log_file"),
		Store: StoreConfig{
			Type: v.GetString("store.type"),
			DSN:  v.GetString("store.dsn"),
		},
		Session: SessionConfig{
			Store:         v.GetString("session.store"),
			RedisAddr:     v.GetString("session.redis_addr"),
			RedisPassword: v.GetString("session.redis_password"),
			RedisDB:       v.GetInt("session.redis_db"),
			TTL:           v.GetDuration("session.ttl"),
			IdleTimeout:   v.GetDuration("session.idle_timeout"),
		},
		Mock: MockConfig{
			Enabled:          v.GetBool("mock.enabled"),
			Delay:            v.GetDuration("mock.delay"),
			RandomErrors:     v.GetBool("mock.random_errors"),
			ErrorProbability: v.GetFloat64("mock.error_probability"),
			LoginDelay:       v.GetDuration("mock.login_delay"),
		},
		Layout: LayoutConfig{
			Breakpoint:         v.GetInt("layout.breakpoint"),
			TerminalBreakpoint: v.GetInt("layout.terminal_breakpoint"),
		},
		Login: RateConfig{
			RPS:      v.GetFloat64("login_rate.rps"),
			Burst:    v.GetInt("login_rate.burst"),
			TrustXFF: v.GetBool("login_rate.trust_xff"),
		},
	}
}
