package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"squitterlog/internal/app"
	"squitterlog/internal/logging"
)

func main() {
	rootCmd := newRootCmd(os.Stdout)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command; the report goes to stdout, logs to the command's stderr
func newRootCmd(stdout io.Writer) *cobra.Command {
	flags := app.DefaultConfig()
	var configPath, envFile string

	rootCmd := &cobra.Command{
		Use:   "squitterlog [capture files...]",
		Short: "ADS-B capture log analyzer",
		Long: `Offline analyzer for timestamped Mode S / ADS-B capture logs.

Reads "<timestamp> [DF <n>] <hex>" lines, builds per-aircraft state
(positions from CPR pairs, altitudes, speeds, autopilot modes), keeps the
aircraft that sent extended squitters and prints a summary table per file.
Without file arguments every *.t4433 file of the data directory is processed,
including .gz and .zst compressed captures.

Example usage:
  squitterlog --data-dir ./data --timing
  squitterlog --aircraft 40621D --pdf-dir ./reports capture.t4433`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.ShowVersion {
				app.ShowVersion(stdout)
				return nil
			}

			config, err := resolveConfig(cmd, flags, configPath, envFile, args)
			if err != nil {
				return err
			}

			opts := config.LoggingOptions()
			opts.Console = cmd.ErrOrStderr()
			logger, err := logging.New(opts)
			if err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			defer logger.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application := app.NewApplication(config, logger.Logger, stdout)
			return application.Run(ctx)
		},
	}

	fs := rootCmd.Flags()
	fs.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	fs.StringVar(&envFile, "env-file", app.DefaultEnvFile, "Environment file with "+app.EnvPrefix+"* overrides")
	fs.StringVarP(&flags.DataDir, "data-dir", "d", app.DefaultDataDir, "Directory scanned for capture files")
	fs.StringVarP(&flags.Extension, "ext", "e", app.DefaultExtension, "Capture file extension")
	fs.StringVarP(&flags.Aircraft, "aircraft", "a", "", "Only analyse this ICAO address")
	fs.BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose logging")
	fs.BoolVarP(&flags.Timing, "timing", "t", false, "Print the per-category timing table")
	fs.StringVar(&flags.PDFDir, "pdf-dir", "", "Write a PDF summary per file into this directory")
	fs.StringVar(&flags.SBSDir, "sbs-dir", "", "Write a BaseStation export per file into this directory")
	fs.StringVar(&flags.PlotDir, "plot-dir", "", "Write interval histograms into this directory")
	fs.StringVar(&flags.NATSURL, "nats-url", "", "Publish per-file summaries to this NATS server")
	fs.StringVar(&flags.NATSSubject, "nats-subject", flags.NATSSubject, "NATS subject for summaries")
	fs.StringVarP(&flags.Log.File, "log-file", "l", "", "Also write logs to this size-rotated file")
	fs.IntVar(&flags.Log.MaxSizeMB, "log-max-size", flags.Log.MaxSizeMB, "Log file size limit (MB)")
	fs.IntVar(&flags.Log.MaxBackups, "log-max-backups", flags.Log.MaxBackups, "Rotated log files kept")
	fs.IntVar(&flags.Log.MaxAgeDays, "log-max-age", flags.Log.MaxAgeDays, "Days rotated log files are kept")
	fs.BoolVar(&flags.Log.Compress, "log-compress", false, "Gzip rotated log files")
	fs.BoolVar(&flags.ShowVersion, "version", false, "Show version information")

	return rootCmd
}

// resolveConfig layers defaults, the YAML file, the environment and explicitly set flags
func resolveConfig(cmd *cobra.Command, flags app.Config, configPath, envFile string, args []string) (app.Config, error) {
	config := app.DefaultConfig()

	if configPath != "" {
		if err := app.LoadFile(configPath, &config); err != nil {
			return config, err
		}
	}
	if err := app.ApplyEnv(envFile, &config); err != nil {
		return config, err
	}

	overrides := map[string]func(){
		"data-dir":        func() { config.DataDir = flags.DataDir },
		"ext":             func() { config.Extension = flags.Extension },
		"aircraft":        func() { config.Aircraft = flags.Aircraft },
		"verbose":         func() { config.Verbose = flags.Verbose },
		"timing":          func() { config.Timing = flags.Timing },
		"pdf-dir":         func() { config.PDFDir = flags.PDFDir },
		"sbs-dir":         func() { config.SBSDir = flags.SBSDir },
		"plot-dir":        func() { config.PlotDir = flags.PlotDir },
		"nats-url":        func() { config.NATSURL = flags.NATSURL },
		"nats-subject":    func() { config.NATSSubject = flags.NATSSubject },
		"log-file":        func() { config.Log.File = flags.Log.File },
		"log-max-size":    func() { config.Log.MaxSizeMB = flags.Log.MaxSizeMB },
		"log-max-backups": func() { config.Log.MaxBackups = flags.Log.MaxBackups },
		"log-max-age":     func() { config.Log.MaxAgeDays = flags.Log.MaxAgeDays },
		"log-compress":    func() { config.Log.Compress = flags.Log.Compress },
	}
	for name, apply := range overrides {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	if len(args) > 0 {
		config.Files = args
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}
