// Package output provides styled terminal output and error handling for the
// review CLI.
//
// # Printer
//
// Printer writes progress lines to one writer and errors to another, with
// lipgloss styling when colors are enabled. The palette mirrors the phases of
// a review run: yellow for refs and paths being fetched or installed, red for
// removals, green for test steps, blue for package names.
//
// # Exit codes
//
// Errors carry an exit code via ExitError. User errors (bad arguments, bad
// manifests) exit 1; system errors (git, filesystem, external tools) exit 2.
package output
