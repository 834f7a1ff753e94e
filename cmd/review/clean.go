package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/typst-community/review/internal/config"
	"github.com/typst-community/review/internal/gitrepo"
	"github.com/typst-community/review/internal/output"
)

// newCleanCmd creates the clean command.
func newCleanCmd() *cobra.Command {
	flags := &sessionFlags{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove installed packages, test instances and review branches",
		Long: `Remove everything a review run leaves behind:
  - All packages installed into the local preview cache
  - All template test instances
  - Every local branch of the packages checkout except main`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClean(cmd, flags)
		},
	}

	addSessionFlags(cmd, flags)
	return cmd
}

// runClean clears the preview cache, the scratch test directory and all
// non-primary branches.
func runClean(cmd *cobra.Command, flags *sessionFlags) error {
	printer := newPrinter(cmd)

	dataDir, err := resolveDataDir(flags)
	if err != nil {
		printer.Error(err)
		return err
	}

	if err := clearDir(config.PreviewCacheDir(dataDir), printer); err != nil {
		printer.Error(err)
		return err
	}
	if err := clearDir(flags.testDir, printer); err != nil {
		printer.Error(err)
		return err
	}
	if err := gitrepo.RemoveOtherBranches(flags.repo, printer); err != nil {
		printer.Error(err)
		return err
	}
	return nil
}

// clearDir removes every entry inside dir, printing each removal. A missing
// directory is not an error; there is just nothing to clean.
func clearDir(dir string, printer *output.Printer) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			printer.Print("no directory at %s\n", dir)
			return nil
		}
		return output.NewSystemErrorWithCause(fmt.Sprintf("failed to read %s", dir), err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		printer.Print("remove %s\n", printer.Removal(path))
		if err := os.RemoveAll(path); err != nil {
			return output.NewSystemErrorWithCause(fmt.Sprintf("failed to remove %s", path), err)
		}
	}
	return nil
}
