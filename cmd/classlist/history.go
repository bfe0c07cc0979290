package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/reglet-dev/classlist/internal/application/ports"
	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/domain/repositories"
	"github.com/reglet-dev/classlist/internal/infrastructure/output"
	"github.com/spf13/cobra"
)

type historyOptions struct {
	CommonOptions

	Since time.Duration
	Limit int
}

var errHistoryDisabled = errors.New("check history is disabled (set history.enabled in the system config)")

func newHistoryCmd() *cobra.Command {
	opts := &historyOptions{CommonOptions: DefaultCommonOptions(), Limit: 10}
	formats := output.HistoryFormats()

	cmd := &cobra.Command{
		Use:   "history <classlist>",
		Short: "List recorded check runs of a class list",
		Long: `List the check runs recorded for a class list, newest first.

Runs are recorded when history.enabled is set in the system config.`,
		Example: `  classlist history classes.txt --since 24h
  classlist history show 0b6f1c1e-6a43-4d0c-9d6e-2f3f0c1b8a9e --format sarif`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if opts.Limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			return opts.ValidateFlags(formats)
		},
		RunE: withContainer(func(cc *CommandContext, cmd *cobra.Command, args []string) error {
			return runHistory(cc, cmd, opts, args[0])
		}),
	}

	opts.RegisterFlags(cmd, formats)
	cmd.Flags().IntVar(&opts.Limit, "limit", opts.Limit, "Maximum number of runs to list (0 for all)")
	cmd.Flags().DurationVar(&opts.Since, "since", 0, "Only list runs started within this duration (e.g. 24h)")

	cmd.AddCommand(newHistoryShowCmd())
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	opts := DefaultCommonOptions()
	formats := output.NewFormatterFactory().SupportedFormats()

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the report of a recorded check run",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.ValidateFlags(formats)
		},
		RunE: withContainer(func(cc *CommandContext, cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid run ID %q: %w", args[0], err)
			}
			if !cc.Container.SystemConfig().History.Enabled {
				return errHistoryDisabled
			}

			ctx, cancel := opts.ApplyToContext(cc.Context)
			defer cancel()

			result, err := cc.Container.Results().FindByID(ctx, id)
			if err != nil {
				return err
			}

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
			return formatter.Format(result)
		}),
	}

	opts.RegisterFlags(cmd, formats)
	return cmd
}

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}

func runHistory(cc *CommandContext, cmd *cobra.Command, opts *historyOptions, path string) error {
	if !cc.Container.SystemConfig().History.Enabled {
		return errHistoryDisabled
	}

	ctx, cancel := opts.ApplyToContext(cc.Context)
	defer cancel()

	runs, err := findRuns(ctx, cc.Container.Results(), historyKeys(path), opts.Since, opts.Limit)
	if err != nil {
		return err
	}

	writer, closeFn, err := opts.OpenOutput(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeFn()

	return output.FormatHistory(writer, opts.Format, path, runs)
}

// historyKeys returns the paths a class list may have been checked under.
func historyKeys(path string) []string {
	keys := []string{path}
	if abs, err := filepath.Abs(path); err == nil && abs != path {
		keys = append(keys, abs)
	}
	return keys
}

// findRuns collects runs recorded under any of paths, newest first.
func findRuns(
	ctx context.Context,
	repo repositories.CheckResultRepository,
	paths []string,
	since time.Duration,
	limit int,
) ([]*checking.CheckResult, error) {
	seen := make(map[uuid.UUID]bool)
	var runs []*checking.CheckResult

	for _, p := range paths {
		var found []*checking.CheckResult
		var err error
		if since > 0 {
			now := time.Now()
			found, err = repo.FindBetween(ctx, p, now.Add(-since), now)
		} else {
			found, err = repo.FindByClassList(ctx, p, limit)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read check history: %w", err)
		}
		for _, r := range found {
			if id := r.RunID.UUID(); !seen[id] {
				seen[id] = true
				runs = append(runs, r)
			}
		}
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartTime.After(runs[j].StartTime)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
