package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/typst-community/review/internal/config"
	"github.com/typst-community/review/internal/gitrepo"
	"github.com/typst-community/review/internal/harness"
	"github.com/typst-community/review/internal/output"
	"github.com/typst-community/review/internal/pkg"
	"github.com/typst-community/review/internal/session"
)

// sessionFlags holds the directory overrides shared by the session commands.
type sessionFlags struct {
	repo    string
	testDir string
	dataDir string
}

func addSessionFlags(cmd *cobra.Command, flags *sessionFlags) {
	cmd.Flags().StringVar(&flags.repo, "repo", config.DefaultRepoDir, "Path to the packages repository checkout")
	cmd.Flags().StringVar(&flags.testDir, "test-dir", config.DefaultTestDir, "Directory for template test instances")
	cmd.Flags().StringVar(&flags.dataDir, "data-dir", "", "Override the platform data directory")
}

// phases selects which parts of the review cycle a command runs.
type phases struct {
	fetch   bool
	install bool
}

// newReviewCmd creates the review command: the full fetch + install + test cycle.
func newReviewCmd() *cobra.Command {
	flags := &sessionFlags{}

	cmd := &cobra.Command{
		Use:   "review <package>:<version>... #<pr>",
		Short: "Fetch, install and test the submitted packages",
		Long: `Fetch the pull request, install the submitted packages into the local
package cache, and test every declared template.

Examples:
  review review foo:1.0.0 '#42'
  review review foo:1.0.0, and bar:2.0.0 '#42'`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, args, flags, phases{fetch: true, install: true})
		},
	}

	addSessionFlags(cmd, flags)
	return cmd
}

// newFetchCmd creates the fetch command: git synchronization only.
func newFetchCmd() *cobra.Command {
	flags := &sessionFlags{}

	cmd := &cobra.Command{
		Use:   "fetch <package>:<version>... #<pr>",
		Short: "Check out the pull request without installing",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, args, flags, phases{fetch: true})
		},
	}

	addSessionFlags(cmd, flags)
	return cmd
}

// newInstallCmd creates the install command: install + test against the
// already checked-out working tree.
func newInstallCmd() *cobra.Command {
	flags := &sessionFlags{}

	cmd := &cobra.Command{
		Use:   "install <package>:<version>... #<pr>",
		Short: "Install and test without touching the checkout",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, args, flags, phases{install: true})
		},
	}

	addSessionFlags(cmd, flags)
	return cmd
}

// runSession parses the package/PR arguments and drives the requested phases.
// Parsing happens before any side effect; the first synchronization or
// installation failure aborts the run, while template test failures latch
// but do not stop the remaining packages.
func runSession(cmd *cobra.Command, args []string, flags *sessionFlags, ph phases) error {
	printer := newPrinter(cmd)

	s, err := session.Parse(args)
	if err != nil {
		printer.Error(err)
		return err
	}

	printer.Print("PR %s\n", printer.Ref(fmt.Sprintf("#%d", s.PR)))
	for _, p := range s.Packages {
		printer.Print("  %s v%s\n", printer.Name(p.Name), p.Version)
	}
	printer.Println()

	if ph.fetch {
		printer.Banner("Fetch")
		if err := gitrepo.Sync(s, flags.repo, printer); err != nil {
			printer.Error(err)
			return err
		}
		printer.Println()
	}

	if !ph.install {
		return nil
	}

	printer.Banner("Install")
	manifests := make([]*pkg.Manifest, 0, len(s.Packages))
	dataDir, err := resolveDataDir(flags)
	if err != nil {
		printer.Error(err)
		return err
	}
	for _, p := range s.Packages {
		m, err := pkg.Install(p, flags.repo, dataDir, printer)
		if err != nil {
			printer.Error(err)
			return err
		}
		manifests = append(manifests, m)
	}
	printer.Println()

	printer.Banner("Test")
	if err := os.MkdirAll(flags.testDir, 0o755); err != nil {
		sysErr := output.NewSystemErrorWithCause(
			fmt.Sprintf("failed to create %s directory", flags.testDir), err)
		printer.Error(sysErr)
		return sysErr
	}

	driver := harness.NewDriver(flags.testDir, printer)
	// TestAll reports each package's failure as it happens and returns the
	// first one as the run's result.
	return driver.TestAll(s.Packages, manifests)
}

// resolveDataDir returns the explicit --data-dir value or the platform default.
func resolveDataDir(flags *sessionFlags) (string, error) {
	if flags.dataDir != "" {
		return flags.dataDir, nil
	}
	dir := config.DataDir()
	if dir == "" {
		return "", output.NewSystemError("could not determine the platform data directory")
	}
	return dir, nil
}
