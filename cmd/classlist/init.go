package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/reglet-dev/classlist/internal/infrastructure/system"
	"github.com/spf13/cobra"
)

type initOptions struct {
	OutputPath        string
	Classpath         []string
	ReleaseConstraint string
	Workers           int
	NoFailFast        bool
	StrictVersions    bool
	NoInteractive     bool
	Force             bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a system configuration file",
		Long: `Create the system configuration read by check: default classpath, worker
count, accepted Java releases and fail-fast behavior.

Values given as flags are not prompted for.`,
		Example: `  classlist init
  classlist init --no-interactive --classpath lib/app.jar --release ">= 8"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.OutputPath, "output", "", "Config file to write (default is $HOME/.classlist/config.yaml)")
	cmd.Flags().StringSliceVar(&opts.Classpath, "classpath", nil, "Default classpath")
	cmd.Flags().StringVar(&opts.ReleaseConstraint, "release", "", "Accepted Java releases as a semver constraint")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Default number of concurrent class resolutions")
	cmd.Flags().BoolVar(&opts.NoFailFast, "no-fail-fast", false, "Report every failing entry by default")
	cmd.Flags().BoolVar(&opts.StrictVersions, "strict-versions", false, "Fail entries outside the accepted releases")
	cmd.Flags().BoolVar(&opts.NoInteractive, "no-interactive", false, "Do not prompt; use flags and defaults")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing config file")

	return cmd
}

func init() {
	rootCmd.AddCommand(newInitCmd())
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	path := opts.OutputPath
	if path == "" {
		var err error
		if path, err = system.DefaultConfigPath(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !opts.Force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	cfg := system.DefaultConfig()
	if opts.ReleaseConstraint != "" {
		cfg.ReleaseConstraint = opts.ReleaseConstraint
	}
	cfg.Classpath = splitClasspath(opts.Classpath)
	cfg.Workers = opts.Workers
	cfg.StrictVersions = opts.StrictVersions
	failFast := !opts.NoFailFast
	cfg.FailFast = &failFast

	if !opts.NoInteractive {
		if err := promptConfig(cmd, cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := system.Save(path, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Config saved to %s\n", path) //nolint:errcheck // Best-effort terminal output
	return nil
}

// promptConfig asks for the settings not already given as flags.
func promptConfig(cmd *cobra.Command, cfg *system.Config) error {
	flags := cmd.Flags()

	if !flags.Changed("classpath") {
		var classpath string
		err := huh.NewInput().
			Title("Default classpath").
			Description("Class directories and jars, comma separated").
			Value(&classpath).
			Run()
		if err != nil {
			return err
		}
		cfg.Classpath = splitClasspath(strings.Split(classpath, ","))
	}

	if !flags.Changed("workers") {
		workers := strconv.Itoa(cfg.Workers)
		err := huh.NewInput().
			Title("Concurrent class resolutions").
			Description("0 uses the number of CPUs").
			Value(&workers).
			Validate(func(s string) error {
				n, err := strconv.Atoi(strings.TrimSpace(s))
				if err != nil || n < 0 || n > system.MaxWorkers {
					return fmt.Errorf("enter a number between 0 and %d", system.MaxWorkers)
				}
				return nil
			}).
			Run()
		if err != nil {
			return err
		}
		cfg.Workers, _ = strconv.Atoi(strings.TrimSpace(workers))
	}

	if !flags.Changed("release") {
		err := huh.NewSelect[string]().
			Title("Accepted Java releases").
			Options(
				huh.NewOption("Java 6 and later", ">= 6"),
				huh.NewOption("Java 8 and later", ">= 8"),
				huh.NewOption("Java 11 and later", ">= 11"),
				huh.NewOption("Java 17 and later", ">= 17"),
				huh.NewOption("Any release", ">= 1.0"),
			).
			Value(&cfg.ReleaseConstraint).
			Run()
		if err != nil {
			return err
		}
	}

	if !flags.Changed("strict-versions") {
		err := huh.NewConfirm().
			Title("Fail entries compiled for other releases?").
			Value(&cfg.StrictVersions).
			Run()
		if err != nil {
			return err
		}
	}

	if !flags.Changed("no-fail-fast") {
		failFast := cfg.IsFailFast()
		err := huh.NewConfirm().
			Title("Stop at the first failing entry?").
			Value(&failFast).
			Run()
		if err != nil {
			return err
		}
		cfg.FailFast = &failFast
	}

	return nil
}
