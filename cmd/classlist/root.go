package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile          string
	systemConfigPath string
	verbose          bool
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "classlist",
	Short: "Parse and check class list files",
	Long: `classlist reads class list files, the line-oriented manifests that name the
classes to pre-load into a shared class archive. It validates the file format,
the id/super/interfaces cross references, and, with a classpath, compares every
declared hierarchy with the class files actually found.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Exit codes. A class list with problems is distinguished from a run that
// could not check anything.
const (
	exitOK          = 0
	exitCheckFailed = 1
	exitError       = 2
)

// Execute runs the root command and exits with the matching status.
func Execute() {
	os.Exit(exitCode(rootCmd.Execute(), os.Stderr))
}

// exitCode reports err on w and maps it to a process exit status.
// Check failures carry their own summary and are printed as is.
func exitCode(err error, w io.Writer) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errCheckFailed):
		fmt.Fprintln(w, err)
		return exitCheckFailed
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.classlist.yaml)")
	rootCmd.PersistentFlags().StringVar(&systemConfigPath, "system-config", "",
		"system config file (default is $HOME/.classlist/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// initConfig loads configuration from the config file and environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".classlist")
	} else {
		// Flags and CLASSLIST_* variables still apply.
		slog.Warn("no home directory, skipping ~/.classlist.yaml", "error", err)
	}

	// Dashed keys read from CLASSLIST_ variables with underscores.
	viper.SetEnvPrefix("CLASSLIST")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		slog.Debug("using class list config", "file", viper.ConfigFileUsed())
	case errors.As(err, &notFound):
	default:
		slog.Warn("ignoring unreadable class list config", "error", err)
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// Using TextHandler for CLI friendliness
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
