// Package session models one review invocation: the packages under review
// and the pull request that submitted them.
package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/typst-community/review/internal/output"
)

// Package identifies one package under review by name and version.
type Package struct {
	Name    string
	Version string
}

// Spec returns the fully-qualified package spec, e.g. "@preview/foo:1.0.0".
func (p Package) Spec() string {
	return fmt.Sprintf("@preview/%s:%s", p.Name, p.Version)
}

// String returns the name:version form used on the command line.
func (p Package) String() string {
	return p.Name + ":" + p.Version
}

// Session is the full input for one review: an ordered list of packages and
// the pull request number they were submitted under.
type Session struct {
	Packages []Package
	PR       int
}

// BranchName derives the git branch name for this session. Package tokens
// are joined by commas and suffixed with the PR number, so distinct
// package/PR combinations never collide:
//
//	foo_1.0.0_#12
//	foo_1.0.0,bar_2.0.0_#12
func (s *Session) BranchName() string {
	var b strings.Builder
	for i, p := range s.Packages {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Name)
		b.WriteByte('_')
		b.WriteString(p.Version)
	}
	fmt.Fprintf(&b, "_#%d", s.PR)
	return b.String()
}

// Parse builds a Session from command-line tokens. The final token must be
// the PR number prefixed with '#'; every other token must be name:version.
// A literal "and" and trailing commas are accepted as readability separators:
//
//	foo:1.0.0, and bar:2.0.0 #42
//
// All parse failures are reported before any side effect occurs.
func Parse(args []string) (*Session, error) {
	tokens := make([]string, 0, len(args))
	for _, a := range args {
		if a != "" {
			tokens = append(tokens, a)
		}
	}

	if len(tokens) < 2 {
		return nil, output.NewUserError("expected at least one package and the PR number")
	}

	tail := tokens[len(tokens)-1]
	rest := tokens[:len(tokens)-1]

	nr, ok := strings.CutPrefix(tail, "#")
	if !ok {
		return nil, output.NewUserError(fmt.Sprintf("PR number must start with '#': %q", tail))
	}
	pr, err := strconv.Atoi(nr)
	if err != nil || pr <= 0 {
		return nil, output.NewUserError(fmt.Sprintf("PR number is not valid: %q", tail))
	}

	packages := make([]Package, 0, len(rest))
	for _, arg := range rest {
		arg = strings.TrimSuffix(arg, ",")
		if arg == "and" {
			continue
		}

		name, version, ok := strings.Cut(arg, ":")
		if !ok || name == "" || version == "" {
			return nil, output.NewUserError(
				fmt.Sprintf("package name and version must be separated by ':': %q", arg))
		}
		packages = append(packages, Package{Name: name, Version: version})
	}

	if len(packages) == 0 {
		return nil, output.NewUserError("expected at least one package")
	}

	return &Session{Packages: packages, PR: pr}, nil
}
