// Package main provides the entry point for the review CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/typst-community/review/internal/output"
)

// Build info set via ldflags at build time.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the review CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review community package submissions",
		Long: `Review - a helper for vetting community package submissions.

Review automates the per-PR workflow against the packages repository:
  - Fetches the pull request's head into a session-scoped branch
  - Installs the submitted packages into the local typst package cache,
    honoring each manifest's exclude globs
  - Instantiates and compiles declared templates to check they build

Package arguments take the form name:version; the final argument is the
pull request number prefixed with '#'. For example:

  review review foo:1.0.0, and bar:2.0.0 '#42'`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Persistent --color flag (available to all subcommands)
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")

	cmd.AddCommand(newReviewCmd())
	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newInstallCmd())
	cmd.AddCommand(newCleanCmd())

	return cmd
}

// useColor resolves the effective color setting from the --color flag and
// TTY detection on stdout.
func useColor(cmd *cobra.Command) bool {
	mode := "auto"
	if flag := cmd.Flag("color"); flag != nil {
		mode = flag.Value.String()
	}
	return output.ResolveColorMode(mode, output.IsTTY(cmd.OutOrStdout()))
}

// newPrinter builds the printer every command writes through.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), useColor(cmd)).WithStderr(cmd.ErrOrStderr())
}
