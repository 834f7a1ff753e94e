package pkg

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/typst-community/review/internal/output"
)

// Filter decides which files of a package survive installation. It is
// compiled once from the manifest's exclude globs and applied as a pure
// predicate over package-relative paths during the walk.
//
// Excludes are monotonic: a pattern can only remove files, never re-add
// them, so negated patterns are rejected at compile time.
type Filter struct {
	rules []rule
}

type rule struct {
	// anchored patterns contain a slash and match against the full
	// package-relative path; unanchored ones match any path element.
	anchored bool
	g        glob.Glob
}

// CompileExcludes compiles manifest exclude patterns into a Filter.
// A leading "./" is stripped; a leading "!" is rejected.
func CompileExcludes(patterns []string) (*Filter, error) {
	f := &Filter{rules: make([]rule, 0, len(patterns))}
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "!") {
			return nil, output.NewUserError(
				fmt.Sprintf("exclude globs cannot start with '!': %q", pattern))
		}
		pattern = strings.TrimPrefix(pattern, "./")
		// Directory patterns like "examples/" mean the directory itself.
		pattern = strings.TrimSuffix(pattern, "/")
		if pattern == "" {
			continue
		}

		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, output.NewUserError(fmt.Sprintf("invalid exclude glob %q: %v", pattern, err))
		}
		f.rules = append(f.rules, rule{
			anchored: strings.Contains(pattern, "/"),
			g:        g,
		})
	}
	return f, nil
}

// Excluded reports whether the slash-separated package-relative path rel is
// removed by any exclude pattern. A pattern matching a directory excludes
// the whole subtree beneath it.
func (f *Filter) Excluded(rel string) bool {
	if len(f.rules) == 0 {
		return false
	}

	segments := strings.Split(rel, "/")
	for _, r := range f.rules {
		if r.anchored {
			// Match the path itself or any ancestor directory.
			for i := range segments {
				prefix := strings.Join(segments[:i+1], "/")
				if r.g.Match(prefix) {
					return true
				}
			}
		} else {
			// Match any single path element at any depth.
			for _, seg := range segments {
				if r.g.Match(seg) {
					return true
				}
			}
		}
	}
	return false
}
