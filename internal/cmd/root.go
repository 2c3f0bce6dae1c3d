package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/felixgeelhaar/lumen/internal/config"
	"github.com/felixgeelhaar/lumen/internal/log"
	"github.com/felixgeelhaar/lumen/internal/ux"
	"github.com/felixgeelhaar/lumen/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "Bounce-rate issue tracking for exploration statistics",
	Long: `lumen scans exploration playthrough statistics for states where many
learners drop off, records each finding as a trackable task, and keeps task
status in step with fresh statistics over time.

A state is flagged when at least 100 learners reached it and at least 20% of
them dropped off there. Resolved tasks stay resolved no matter what later
statistics say.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initApp,
}

// Shared command state, populated by initApp before any RunE executes.
var (
	cfg    *config.Config
	logger *log.Logger
)

// rootViper collects flag, env, and file settings for config.Load.
var rootViper = viper.New()

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context so commands
// stop when the process receives an interrupt
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func initApp(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(rootViper)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}
	cfg = loaded

	logger = newLogger(cfg)
	log.SetDefaultLogger(logger)
	return nil
}

// newLogger builds the logger from the resolved configuration. A configured
// log file rotates via lumberjack; otherwise logs go to stderr.
func newLogger(cfg *config.Config) *log.Logger {
	output := log.OutputStderr()
	if cfg.Log.File != "" {
		output = log.OutputFile(cfg.Log.File, log.RotationConfig{
			MaxSizeMB:  cfg.LogRotation.MaxSizeMB,
			MaxBackups: cfg.LogRotation.MaxBackups,
			MaxAgeDays: cfg.LogRotation.MaxAgeDays,
			Compress:   cfg.LogRotation.Compress,
		})
	}

	return log.New(log.Config{
		Level:          log.ParseLevel(cfg.Log.Level),
		Format:         log.ParseFormat(cfg.Log.Format),
		Output:         output,
		ServiceName:    "lumen",
		ServiceVersion: version.Version,
	})
}

// flagOrDefault returns the flag's value, or fallback when the flag was not
// set on the command line.
func flagOrDefault(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		return cmd.Flags().Lookup(name).Value.String()
	}
	return fallback
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default .lumen/config.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, or error")
	flags.String("log-format", "", "log format: text or json")
	flags.String("log-file", "", "log to this file instead of stderr")
	flags.StringP("output", "o", "", "output format: text, json, or yaml")

	rootViper.SetEnvPrefix("LUMEN")
	rootViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	rootViper.AutomaticEnv()

	_ = rootViper.BindPFlag("config", flags.Lookup("config"))
	_ = rootViper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = rootViper.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = rootViper.BindPFlag("log.file", flags.Lookup("log-file"))
	_ = rootViper.BindPFlag("output.format", flags.Lookup("output"))
}
