// Package harness instantiates and compiles package templates through the
// external typst tooling.
package harness

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/typst-community/review/internal/output"
	"github.com/typst-community/review/internal/pkg"
	"github.com/typst-community/review/internal/session"
)

// Runner executes an external command and reports its success. The driver
// only consumes the exit status, so tests can substitute a recorder without
// spawning processes.
type Runner interface {
	Run(name string, args ...string) error
}

// ExecRunner runs commands with the parent's stdio attached.
type ExecRunner struct{}

// Run implements Runner via os/exec.
func (ExecRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%s exited with status %d", name, exitErr.ExitCode())
	}
	if err != nil {
		// Not a tool failure: the process could not even be launched.
		return output.NewSystemErrorWithCause(fmt.Sprintf("failed to execute %s", name), err)
	}
	return nil
}

// Driver runs the template test sequence for installed packages.
type Driver struct {
	runner  Runner
	printer *output.Printer

	// TestDir holds one scratch template instance per package.
	TestDir string

	// Typst and Viewer name the external tools; overridable for tests.
	Typst  string
	Viewer string
}

// NewDriver creates a Driver with the exec-backed runner and default tools.
func NewDriver(testDir string, printer *output.Printer) *Driver {
	return &Driver{
		runner:  ExecRunner{},
		printer: printer,
		TestDir: testDir,
		Typst:   "typst",
		Viewer:  "xdg-open",
	}
}

// WithRunner replaces the process runner. Returns the driver for chaining.
func (d *Driver) WithRunner(r Runner) *Driver {
	d.runner = r
	return d
}

// TestPackage instantiates and compiles the package's template, then opens
// the produced document. Packages without a template succeed immediately.
//
// The scratch directory test/<name> is recreated on every run so leftovers
// from earlier reviews never leak into the result.
func (d *Driver) TestPackage(p session.Package, m *pkg.Manifest) error {
	if m.Template == nil {
		return nil
	}

	spec := p.Spec()
	d.printer.Print("initialize template %s\n", d.printer.Step(spec))

	scratch := filepath.Join(d.TestDir, p.Name)
	if _, err := os.Stat(scratch); err == nil {
		d.printer.Print("remove existing template %s\n", d.printer.Removal(scratch))
		if err := os.RemoveAll(scratch); err != nil {
			return output.NewSystemErrorWithCause(
				fmt.Sprintf("failed to remove existing template %s", scratch), err)
		}
	}

	if err := d.runner.Run(d.Typst, "init", spec, scratch); err != nil {
		return output.NewSystemErrorWithCause(
			fmt.Sprintf("failed to initialize template %s", spec), err)
	}

	entrypoint := filepath.Join(scratch, filepath.FromSlash(m.Template.Entrypoint))
	d.printer.Print("compile template %s\n", d.printer.Step(entrypoint))
	if err := d.runner.Run(d.Typst, "compile", entrypoint); err != nil {
		return output.NewSystemErrorWithCause(
			fmt.Sprintf("failed to compile template %s", entrypoint), err)
	}

	pdf := strings.TrimSuffix(entrypoint, filepath.Ext(entrypoint)) + ".pdf"
	if err := d.runner.Run(d.Viewer, pdf); err != nil {
		return output.NewSystemErrorWithCause(
			fmt.Sprintf("failed to open %s", pdf), err)
	}
	return nil
}

// TestAll runs TestPackage for every (package, manifest) pair in input order.
// The first failure becomes the result, but every package is still tested so
// the reviewer sees the full picture in one run.
func (d *Driver) TestAll(packages []session.Package, manifests []*pkg.Manifest) error {
	var first error
	for i, p := range packages {
		if err := d.TestPackage(p, manifests[i]); err != nil {
			d.printer.Error(err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
