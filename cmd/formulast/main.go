package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	check_sheets "github.com/walteh/formulast/cmd/formulast/check-sheets"
	list_tokens "github.com/walteh/formulast/cmd/formulast/list-tokens"
	parse_formula "github.com/walteh/formulast/cmd/formulast/parse-formula"
	logging "github.com/walteh/formulast/pkg/debug"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	rootCmd := newRootCommand()
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}

func newRootCommand() *cobra.Command {
	var (
		logLevel string
		noColor  bool
	)

	rootCmd := &cobra.Command{
		Use:           "formulast",
		Short:         "Parse spreadsheet formulas into syntax trees",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "the minimum level of log messages (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger := logging.NewLogger(cmd.ErrOrStderr(), level, !noColor)
		cmd.SetContext(logger.WithContext(cmd.Context()))
		return nil
	}

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}

	rootCmd.AddCommand(cmdVersion)
	rootCmd.AddCommand(parse_formula.NewParseCommand())
	rootCmd.AddCommand(list_tokens.NewTokensCommand())
	rootCmd.AddCommand(check_sheets.NewCheckCommand())

	return rootCmd
}
