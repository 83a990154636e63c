// Package config loads condo settings from an optional config file, a .env
// file and CONDO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes the configuration from file and environment variables.
// A missing config file is not an error.
func Load(cfgFile string) error {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("condo")
	}

	viper.SetEnvPrefix("CONDO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	return nil
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", 3000)
	v.SetDefault("metrics_port", 2112)
	v.SetDefault("verbose", false)
	v.SetDefault("log_file", "")

	v.SetDefault("store.type", "memory")
	v.SetDefault("store.dsn", "")

	v.SetDefault("session.store", "memory")
	v.SetDefault("session.redis_addr", "localhost:6379")
	v.SetDefault("session.redis_password", "")
	v.SetDefault("session.redis_db", 0)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.idle_timeout", 30*time.Minute)

	v.SetDefault("mock.enabled", true)
	v.SetDefault("mock.delay", 500*time.Millisecond)
	v.SetDefault("mock.random_errors", false)
	v.SetDefault("mock.error_probability", 0.2)
	v.SetDefault("mock.login_delay", time.Second)

	v.SetDefault("layout.breakpoint", 768)
	v.SetDefault("layout.terminal_breakpoint", 100)

	v.SetDefault("login_rate.rps", 0.2)
	v.SetDefault("login_rate.burst", 5)
	v.SetDefault("login_rate.trust_xff", false)
}
