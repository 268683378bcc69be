package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/courier/packages/core/config"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag  string
	verboseFlag bool
	noColorFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "courier",
	Short: "Send JSON API requests from the command line.",
	Long: `courier builds and sends JSON API requests the way the courier
client library does: parameters, authorization, signatures and cache
policy are described declaratively, and responses are classified into
success or a typed failure.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetHandler(cli.Default)
		if verboseFlag {
			log.SetLevel(log.DebugLevel)
			log.Debugf("courier version %s", version)
		}
		if noColorFlag {
			color.NoColor = true
		}
	},
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", getEnvString("COURIER_CONFIG", ""), "Path to config file (env: COURIER_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("COURIER_VERBOSE", false), "Enable verbose log output (env: COURIER_VERBOSE)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("COURIER_NO_COLOR", false), "Disable colored output (env: COURIER_NO_COLOR)")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies the persistent flags over it
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}

	overrides := &config.Config{}
	if verboseFlag {
		overrides.Verbose = config.BoolPtr(true)
	}
	if noColorFlag {
		overrides.NoColor = config.BoolPtr(true)
	}
	cfg = cfg.Merge(overrides)

	if cfg.GetVerbose() {
		log.SetLevel(log.DebugLevel)
	}
	if cfg.GetNoColor() {
		color.NoColor = true
	}
	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
