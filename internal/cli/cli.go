package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/specialistvlad/burstbuild/internal/app"
)

// Environment variables that override built-in flag defaults.
const (
	EnvBuildDir  = "BURSTBUILD_BUILD_DIR"
	EnvWorkers   = "BURSTBUILD_WORKERS"
	EnvLogLevel  = "BURSTBUILD_LOG_LEVEL"
	EnvLogFormat = "BURSTBUILD_LOG_FORMAT"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type options struct {
	file            string
	buildDir        string
	workers         int
	logLevel        string
	logFormat       string
	healthcheckPort int
	noColor         bool
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	// A missing .env file is normal.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("reading .env: %v", err)}
	}

	defaults, err := envDefaults()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	var config *app.Config
	opts := defaults
	cmd := &cobra.Command{
		Use:   "burstbuild [flags] [BUILD_PATH]",
		Short: "BurstBuild - an incremental, concurrent build orchestrator.",
		Long: `BurstBuild - an incremental, concurrent build orchestrator.

BUILD_PATH is a single .hcl, .yaml or .yml build file, or a directory
containing .hcl files. Every build step runs as soon as all of its inputs
exist, with at most --workers steps in flight.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			path := opts.file
			if path == "" && len(positional) > 0 {
				path = positional[0]
			}
			slog.Debug("Build path determined.", "path", path)

			if path == "" {
				slog.Debug("No build path provided, printing usage and exiting.")
				return cmd.Help()
			}

			cfg, err := app.NewConfig(app.Config{
				BuildPath:       path,
				BuildDir:        opts.buildDir,
				WorkerCount:     opts.workers,
				LogLevel:        strings.ToLower(opts.logLevel),
				LogFormat:       strings.ToLower(opts.logFormat),
				HealthcheckPort: opts.healthcheckPort,
				NoColor:         opts.noColor,
			})
			if err != nil {
				return err
			}
			config = cfg
			return nil
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "Path to the build file or directory.")
	flags.StringVar(&opts.buildDir, "build-dir", defaults.buildDir, "Directory all outputs are written under. Env: "+EnvBuildDir)
	flags.IntVarP(&opts.workers, "workers", "j", defaults.workers, "Maximum number of build steps running at once. Env: "+EnvWorkers)
	flags.StringVar(&opts.logLevel, "log-level", defaults.logLevel, "Logging level: 'debug', 'info', 'warn' or 'error'. Env: "+EnvLogLevel)
	flags.StringVar(&opts.logFormat, "log-format", defaults.logFormat, "Log output format: 'text' or 'json'. Env: "+EnvLogFormat)
	flags.IntVar(&opts.healthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored progress output.")

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if config == nil {
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func envDefaults() (options, error) {
	opts := options{
		buildDir:  app.DefaultBuildDir,
		workers:   runtime.NumCPU(),
		logLevel:  "info",
		logFormat: "text",
	}
	if v := os.Getenv(EnvBuildDir); v != "" {
		opts.buildDir = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}
		opts.workers = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		opts.logLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		opts.logFormat = v
	}
	return opts, nil
}
