package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reglet-dev/classlist/internal/application/dto"
	"github.com/reglet-dev/classlist/internal/application/ports"
	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/infrastructure/output"
	"github.com/reglet-dev/classlist/internal/infrastructure/system"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// checkOptions holds the flags of the check command.
type checkOptions struct {
	CommonOptions

	Classpath         []string
	Packages          []string
	FilterExpr        string
	ReleaseConstraint string
	Workers           int
	NoFailFast        bool
	SourceOnly        bool
	StrictVersions    bool
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{CommonOptions: DefaultCommonOptions()}
	formats := output.NewFormatterFactory().SupportedFormats()

	cmd := &cobra.Command{
		Use:   "check <classlist>",
		Short: "Validate a class list and compare it with the class files",
		Long: `Parse a class list, then load every class it names and compare the declared
super class and interfaces with the class file.

Entries with a source: are loaded from that location; the others are searched
on the classpath. Classes missing from the classpath are reported as warnings.

Filtering:
  --package com/acme           Check classes under these package prefixes
  --source-only                Check only entries with a source location
  --filter "super >= 0"        Advanced filtering expression over
                               name, package, id, super, interfaces, source, line`,
		Example: `  classlist check classes.txt --classpath build/classes:lib/app.jar
  classlist check classes.txt --format sarif -o classlist.sarif`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			// Bound at run time so that only this command's flags feed viper
			for _, key := range []string{"format", "classpath", "workers"} {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
					return err
				}
			}
			opts.Format = viper.GetString("format")
			opts.Classpath = splitClasspath(viper.GetStringSlice("classpath"))
			opts.Workers = viper.GetInt("workers")
			return opts.ValidateFlags(formats)
		},
		RunE: withContainer(func(cc *CommandContext, cmd *cobra.Command, args []string) error {
			return runCheck(cc, cmd, opts, args[0])
		}),
	}

	opts.RegisterFlags(cmd, formats)
	cmd.Flags().StringSliceVar(&opts.Classpath, "classpath", nil,
		"Class directories and jars, separated by commas or the OS path separator")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Concurrent class resolutions (0 = config or CPU count)")
	cmd.Flags().BoolVar(&opts.NoFailFast, "no-fail-fast", false, "Report every failing entry instead of stopping at the first")
	cmd.Flags().StringSliceVar(&opts.Packages, "package", nil, "Check only classes under these package prefixes")
	cmd.Flags().BoolVar(&opts.SourceOnly, "source-only", false, "Check only entries with a source location")
	cmd.Flags().StringVar(&opts.FilterExpr, "filter", "", "Advanced filter expression (e.g. \"package == 'java/lang'\")")
	cmd.Flags().StringVar(&opts.ReleaseConstraint, "release", "", "Accepted Java releases as a semver constraint (e.g. \">= 8\")")
	cmd.Flags().BoolVar(&opts.StrictVersions, "strict-versions", false, "Fail entries whose release does not satisfy --release")

	return cmd
}

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

// splitClasspath expands OS path lists inside each element.
func splitClasspath(elems []string) []string {
	var out []string
	for _, e := range elems {
		for _, p := range filepath.SplitList(e) {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// buildCheckRequest merges flags with the system configuration. Flags win.
func buildCheckRequest(opts *checkOptions, cfg *system.Config, path string) dto.CheckClassListRequest {
	req := dto.CheckClassListRequest{
		ClassListPath: path,
		FailFast:      cfg.IsFailFast() && !opts.NoFailFast,
		Filters: dto.FilterOptions{
			FilterExpression: opts.FilterExpr,
			Packages:         opts.Packages,
			SourceOnly:       opts.SourceOnly,
		},
		Resolution: dto.ResolutionOptions{
			Classpath: opts.Classpath,
			Workers:   opts.Workers,
		},
		Release: dto.ReleaseOptions{
			Constraint: cfg.ReleaseConstraint,
			Strict:     cfg.StrictVersions || opts.StrictVersions,
		},
	}
	if len(req.Resolution.Classpath) == 0 {
		req.Resolution.Classpath = cfg.Classpath
	}
	if req.Resolution.Workers == 0 {
		req.Resolution.Workers = cfg.Workers
	}
	if opts.ReleaseConstraint != "" {
		req.Release.Constraint = opts.ReleaseConstraint
	}
	return req
}

func runCheck(cc *CommandContext, cmd *cobra.Command, opts *checkOptions, path string) error {
	ctx, cancel := opts.ApplyToContext(cc.Context)
	defer cancel()

	req := buildCheckRequest(opts, cc.Container.SystemConfig(), path)
	resp, err := cc.Container.CheckClassListUseCase().Execute(ctx, req)
	if err != nil {
		return err
	}
	result := resp.CheckResult
	if redactor := cc.Container.Redactor(); redactor != nil {
		redactor.RedactResult(result)
	}

	if !opts.Quiet || result.HasFailures() {
		if err := writeCheckResult(cmd, opts, result); err != nil {
			return err
		}
	}

	return checkOutcome(result)
}

func writeCheckResult(cmd *cobra.Command, opts *checkOptions, result *checking.CheckResult) error {
	writer, closeFn, err := opts.OpenOutput(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeFn()

	formatter, err := output.NewFormatterFactory().Create(opts.Format, writer, ports.FormatterOptions{
		ClassListPath: result.ClassListPath,
		Indent:        true,
		NoColor:       opts.NoColor || opts.OutFile != "",
	})
	if err != nil {
		return err
	}
	if table, ok := formatter.(*output.TableFormatter); ok {
		table.Verbose = verbose
	}

	if err := formatter.Format(result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

// errCheckFailed is returned when the class list has problems, so that
// the process exits non-zero.
var errCheckFailed = errors.New("check failed")

func checkOutcome(result *checking.CheckResult) error {
	if !result.HasFailures() {
		return nil
	}
	s := result.Summary
	if first, ok := result.FirstError(); ok && len(result.Entries) == 0 {
		return fmt.Errorf("%w: %s %d:%d: %s", errCheckFailed, result.ClassListPath, first.Line, first.Column, first.Message)
	}
	return fmt.Errorf("%w: %d passed, %d failed, %d errors, %d skipped",
		errCheckFailed, s.PassedEntries, s.FailedEntries, s.ErrorEntries, s.SkippedEntries)
}
