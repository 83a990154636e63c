package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"condo/internal/config"
	"condo/internal/telemetry"
)

var exit = os.Exit
var cfgFile string

// logCloser releases the log file opened by initConfig.
var logCloser io.Closer

var rootCmd = &cobra.Command{
	Use:   "condo",
	Short: "Condominium management dashboard",
	Long: `condo serves the condominium dashboard (tickets, expenses, residents,
reservations and announcements) on top of a simulated API, and offers
terminal tools to browse and seed the same data.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. It is called once by main.main.
func Execute() {
	defer func() {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'condo --help' for usage.")
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./condo.yaml)")
	pf.BoolP("verbose", "v", false, "Enable verbose/debug logging")
	pf.String("log-file", "", "Also write JSON logs to this file")
	pf.String("store", "", "Storage backend: memory, sqlite or postgres")
	pf.String("dsn", "", "SQLite path or Postgres connection string")

	viper.BindPFlag("verbose", pf.Lookup("verbose"))
	viper.BindPFlag("log_file", pf.Lookup("log-file"))
	viper.BindPFlag("store.type", pf.Lookup("store"))
	viper.BindPFlag("store.dsn", pf.Lookup("dsn"))
}

// initConfig reads the config file and environment, validates the result and
// installs the logger.
func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
		return
	}
	if err := config.ValidateConfig(viper.GetViper()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
		return
	}

	c := config.FromViper(viper.GetViper())
	closer, err := telemetry.InitLogger(telemetry.LoggerOptions{Debug: c.Verbose, LogFile: c.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	logCloser = closer
}
