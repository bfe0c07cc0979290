package main

import (
	"errors"
	"fmt"

	"github.com/reglet-dev/classlist/internal/application/dto"
	"github.com/reglet-dev/classlist/internal/domain/entities"
	"github.com/reglet-dev/classlist/internal/infrastructure/output"
	"github.com/spf13/cobra"
)

type parseOptions struct {
	CommonOptions

	Packages   []string
	FilterExpr string
	SourceOnly bool
}

func newParseCmd() *cobra.Command {
	opts := &parseOptions{CommonOptions: DefaultCommonOptions()}
	formats := output.EntryListFormats()

	cmd := &cobra.Command{
		Use:   "parse <classlist>",
		Short: "Validate the format of a class list and print its entries",
		Long: `Parse a class list without loading any class. The first format error stops
parsing and is reported with its line and column.

The classlist output format prints every entry back in canonical syntax.`,
		Example: `  classlist parse classes.txt
  classlist parse classes.txt --format classlist --package java/lang`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.ValidateFlags(formats)
		},
		RunE: withContainer(func(cc *CommandContext, cmd *cobra.Command, args []string) error {
			return runParse(cc, cmd, opts, args[0])
		}),
	}

	opts.RegisterFlags(cmd, formats)
	cmd.Flags().StringSliceVar(&opts.Packages, "package", nil, "Print only classes under these package prefixes")
	cmd.Flags().BoolVar(&opts.SourceOnly, "source-only", false, "Print only entries with a source location")
	cmd.Flags().StringVar(&opts.FilterExpr, "filter", "", "Advanced filter expression")

	return cmd
}

func init() {
	rootCmd.AddCommand(newParseCmd())
}

func runParse(cc *CommandContext, cmd *cobra.Command, opts *parseOptions, path string) error {
	ctx, cancel := opts.ApplyToContext(cc.Context)
	defer cancel()

	resp, err := cc.Container.ParseClassListUseCase().Execute(ctx, dto.ParseClassListRequest{
		ClassListPath: path,
		Filters: dto.FilterOptions{
			FilterExpression: opts.FilterExpr,
			Packages:         opts.Packages,
			SourceOnly:       opts.SourceOnly,
		},
	})
	if err != nil {
		var fe *entities.FormatError
		if errors.As(err, &fe) {
			// The two-line report names the file and position
			fmt.Fprintln(cmd.ErrOrStderr(), fe.Error()) //nolint:errcheck // Best-effort terminal output
			return errCheckFailed
		}
		return err
	}

	if opts.Quiet {
		return nil
	}

	writer, closeFn, err := opts.OpenOutput(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeFn()

	return output.FormatEntries(writer, opts.Format, output.EntryList{
		ClassListPath: resp.ClassListPath,
		Entries:       resp.Entries,
		Directives:    resp.Directives,
		Total:         resp.Total,
	})
}
