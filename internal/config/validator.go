package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

var (
	storeTypes   = []string{"memory", "mem", "sqlite", "sqlite3", "postgres", "postgresql"}
	sessionTypes = []string{"memory", "redis"}
)

// ValidateConfig checks v and reports every invalid value at once.
func ValidateConfig(v *viper.Viper) error {
	var errs []string
	c := FromViper(v)

	checkPort := func(key string, port int) {
		if port < 1 || port > 65535 {
			errs = append(errs, fmt.Sprintf("%s must be between 1 and 65535, got: %d", key, port))
		}
	}
	checkPort("port", c.Port)
	if c.MetricsPort != 0 {
		checkPort("metrics_port", c.MetricsPort)
		if c.MetricsPort == c.Port {
			errs = append(errs, fmt.Sprintf("metrics_port must differ from port, both are %d", c.Port))
		}
	}

	if !oneOf(c.Store.Type, storeTypes) {
		errs = append(errs, fmt.Sprintf("store.type must be one of %s, got: %q", strings.Join(storeTypes, ", "), c.Store.Type))
	}
	if strings.HasPrefix(strings.ToLower(c.Store.Type), "postgres") && c.Store.DSN == "" {
		errs = append(errs, "store.dsn is required for postgres")
	}

	if !oneOf(c.Session.Store, sessionTypes) {
		errs = append(errs, fmt.Sprintf("session.store must be one of %s, got: %q", strings.Join(sessionTypes, ", "), c.Session.Store))
	}
	if strings.EqualFold(c.Session.Store, "redis") && c.Session.RedisAddr == "" {
		errs = append(errs, "session.redis_addr is required for redis sessions")
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, fmt.Sprintf("session.ttl must be positive, got: %v", c.Session.TTL))
	}

	if c.Mock.Delay < 0 {
		errs = append(errs, fmt.Sprintf("mock.delay must not be negative, got: %v", c.Mock.Delay))
	}
	if c.Mock.LoginDelay < 0 {
		errs = append(errs, fmt.Sprintf("mock.login_delay must not be negative, got: %v", c.Mock.LoginDelay))
	}
	if c.Mock.ErrorProbability < 0 || c.Mock.ErrorProbability > 1 {
		errs = append(errs, fmt.Sprintf("mock.error_probability must be between 0 and 1, got: %v", c.Mock.ErrorProbability))
	}

	if c.Layout.Breakpoint <= 0 {
		errs = append(errs, fmt.Sprintf("layout.breakpoint must be positive, got: %d", c.Layout.Breakpoint))
	}
	if c.Layout.TerminalBreakpoint <= 0 {
		errs = append(errs, fmt.Sprintf("layout.terminal_breakpoint must be positive, got: %d", c.Layout.TerminalBreakpoint))
	}

	if c.Login.RPS < 0 {
		errs = append(errs, fmt.Sprintf("login_rate.rps must not be negative, got: %v", c.Login.RPS))
	}
	if c.Login.Burst < 1 {
		errs = append(errs, fmt.Sprintf("login_rate.burst must be at least 1, got: %d", c.Login.Burst))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// ValidateAndExit prints validation errors to stderr and exits non-zero.
func ValidateAndExit(v *viper.Viper) {
	if err := ValidateConfig(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func oneOf(s string, allowed []string) bool {
	s = strings.ToLower(s)
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
