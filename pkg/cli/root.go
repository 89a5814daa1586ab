package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/stencil/pkg/cliconfig"
	"github.com/getmockd/stencil/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	configPath string
	logLevel   string
	logFormat  string
	logFile    string
	jsonOutput bool

	// cfg and logger are set up by loadConfig before any command runs.
	cfg    *cliconfig.Config
	logger *slog.Logger

	// logSink is the open --log-file, closed by Execute.
	logSink io.Closer

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stencil",
	Short: "stencil substitutes ${name} and ${group:index} placeholders",
	Long: `stencil fills text templates with variables until no placeholder is left.

Values may themselves contain placeholders; they are substituted again until a
fixpoint is reached or the iteration limit is hit.

Configuration can be provided via flags, STENCIL_* environment variables,
.stencilrc.yaml in the current directory, or ~/.config/stencil/config.yaml.`,
	SilenceUsage:      true,
	SilenceErrors:     true, // We handle errors in Execute()
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if logSink != nil {
		_ = logSink.Close()
	}
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: .stencilrc.yaml, then ~/.config/stencil/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write debug logs as JSON to this file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}

// loadConfig resolves the layered configuration, applies persistent flags on
// top and builds the logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := cliconfig.Load(configPath)
	if err != nil {
		return err
	}

	flagCfg := &cliconfig.Config{SetFields: map[string]bool{}}
	if cmd.Flags().Changed("log-level") {
		flagCfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		flagCfg.LogFormat = logFormat
	}
	if cmd.Flags().Changed("log-file") {
		flagCfg.LogFile = logFile
	}
	if cmd.Flags().Changed("json") {
		flagCfg.JSON = jsonOutput
		flagCfg.SetFields["json"] = true
	}
	cliconfig.Merge(loaded, flagCfg, cliconfig.SourceFlag)
	jsonOutput = loaded.JSON

	lc := loaded.LoggingConfig()
	lc.Output = cmd.ErrOrStderr()
	if loaded.LogFile != "" {
		f, err := os.OpenFile(loaded.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logSink = f
		lc.Tee = f
	}
	cfg = loaded
	logger = logging.New(lc)

	logger.Debug("configuration loaded",
		"strategy", cfg.Strategy,
		"strategySource", cfg.Source("strategy"),
		"maxIterations", cfg.MaxIterations,
	)
	return nil
}
