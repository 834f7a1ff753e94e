// Package gitrepo reconciles the local packages checkout with pull-request
// refs on the origin remote.
package gitrepo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/typst-community/review/internal/output"
	"github.com/typst-community/review/internal/session"
)

const (
	// PrimaryBranch is the canonical branch of the packages repository.
	PrimaryBranch = "main"

	remoteName = "origin"
)

// Sync brings the repository at repoPath to exactly the commit of the
// session's pull request, on a branch named after the session.
//
// The operation is idempotent: a leftover branch from a previous run of the
// same session is deleted before the fresh fetch, and a leftover checkout
// never blocks progress because the primary branch is checked out first.
// A branch deleted here is not restored if the subsequent fetch fails.
func Sync(s *session.Session, repoPath string, printer *output.Printer) error {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return output.NewUserError(fmt.Sprintf("no git repository found at %q: %v", repoPath, err))
	}

	if err := ensurePrimaryCheckedOut(repo); err != nil {
		return err
	}

	branchName := s.BranchName()
	if err := removeBranch(repo, branchName, printer); err != nil {
		return err
	}

	pullRef := plumbing.ReferenceName(fmt.Sprintf("refs/pull/%d/head", s.PR))
	printer.Print("fetching %s\n", printer.Ref(fmt.Sprintf("pull/%d/head", s.PR)))
	err = repo.Fetch(&git.FetchOptions{
		RemoteName: remoteName,
		RefSpecs:   []gitconfig.RefSpec{gitconfig.RefSpec(fmt.Sprintf("+%s:%s", pullRef, pullRef))},
		Tags:       git.NoTags,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return output.NewSystemErrorWithCause(
			fmt.Sprintf("failed to fetch pull/%d/head from %s", s.PR, remoteName), err)
	}

	// The ref must resolve right after a successful fetch; anything else
	// means the repository state is inconsistent.
	ref, err := repo.Reference(pullRef, true)
	if err != nil {
		return output.NewSystemErrorWithCause(
			fmt.Sprintf("%s did not resolve after fetch, repository state is inconsistent", pullRef), err)
	}

	printer.Print("checkout %s\n", printer.Ref(branchName))
	branchRef := plumbing.NewBranchReferenceName(branchName)
	if err := repo.Storer.SetReference(plumbing.NewHashReference(branchRef, ref.Hash())); err != nil {
		return output.NewSystemErrorWithCause(
			fmt.Sprintf("failed to create branch %s", branchName), err)
	}

	return checkoutBranch(repo, branchRef)
}

// RemoveOtherBranches deletes every local branch except the primary one.
// The primary branch is checked out first so the current branch is never
// among the deleted ones.
func RemoveOtherBranches(repoPath string, printer *output.Printer) error {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return output.NewUserError(fmt.Sprintf("no git repository found at %q: %v", repoPath, err))
	}

	if err := ensurePrimaryCheckedOut(repo); err != nil {
		return err
	}

	branches, err := repo.Branches()
	if err != nil {
		return output.NewSystemErrorWithCause("failed to list branches", err)
	}

	var names []plumbing.ReferenceName
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().Short() != PrimaryBranch {
			names = append(names, ref.Name())
		}
		return nil
	})
	if err != nil {
		return output.NewSystemErrorWithCause("failed to list branches", err)
	}

	for _, name := range names {
		printer.Print("remove branch %s\n", printer.Removal(name.Short()))
		if err := repo.Storer.RemoveReference(name); err != nil {
			return output.NewSystemErrorWithCause(
				fmt.Sprintf("failed to delete branch %s", name.Short()), err)
		}
	}
	return nil
}

// ensurePrimaryCheckedOut checks out the primary branch unless it is already
// the current head. This gives branch deletion a known-good starting point.
func ensurePrimaryCheckedOut(repo *git.Repository) error {
	primary := plumbing.NewBranchReferenceName(PrimaryBranch)

	head, err := repo.Head()
	if err != nil {
		return output.NewSystemErrorWithCause("failed to resolve repository head", err)
	}
	if head.Name() == primary {
		return nil
	}
	return checkoutBranch(repo, primary)
}

// removeBranch deletes the named local branch if it exists.
func removeBranch(repo *git.Repository, branchName string, printer *output.Printer) error {
	branches, err := repo.Branches()
	if err != nil {
		return output.NewSystemErrorWithCause("failed to list branches", err)
	}

	var found *plumbing.Reference
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().Short() == branchName {
			found = ref
		}
		return nil
	})
	if err != nil {
		return output.NewSystemErrorWithCause("failed to list branches", err)
	}
	if found == nil {
		return nil
	}

	printer.Print("remove existing branch %s\n", printer.Removal(branchName))
	if err := repo.Storer.RemoveReference(found.Name()); err != nil {
		return output.NewSystemErrorWithCause(
			fmt.Sprintf("failed to delete branch %s", branchName), err)
	}
	return nil
}

// checkoutBranch force-checks-out the given branch ref, updating the working
// tree and moving head.
func checkoutBranch(repo *git.Repository, ref plumbing.ReferenceName) error {
	wt, err := repo.Worktree()
	if err != nil {
		return output.NewSystemErrorWithCause("failed to get worktree", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: ref, Force: true}); err != nil {
		return output.NewSystemErrorWithCause(
			fmt.Sprintf("failed to check out %s", ref.Short()), err)
	}
	return nil
}
