package output

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer handles formatted progress output for review phases.
// Progress lines go to the main writer, errors to the error writer.
type Printer struct {
	w      io.Writer
	errW   io.Writer
	color  bool
	styles *Styles
}

// Styles holds lipgloss styles for the review palette.
type Styles struct {
	Error   lipgloss.Style
	Ref     lipgloss.Style // yellow: refs and paths being fetched/installed
	Removal lipgloss.Style // red: branches, directories and files being removed
	Step    lipgloss.Style // green: test steps (init, compile)
	Name    lipgloss.Style // blue: package names
	Bold    lipgloss.Style
}

// NewPrinter creates a new Printer writing to the given writer.
// If color is true, output is styled with the review palette.
func NewPrinter(writer io.Writer, color bool) *Printer {
	styles := &Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true), // Red
		Ref:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),           // Yellow
		Removal: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),            // Red
		Step:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),           // Green
		Name:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),           // Blue
		Bold:    lipgloss.NewStyle().Bold(true),
	}

	// Disable colors when not wanted
	if !color {
		styles.Error = lipgloss.NewStyle()
		styles.Ref = lipgloss.NewStyle()
		styles.Removal = lipgloss.NewStyle()
		styles.Step = lipgloss.NewStyle()
		styles.Name = lipgloss.NewStyle()
		styles.Bold = lipgloss.NewStyle()
	}

	return &Printer{
		w:      writer,
		errW:   writer,
		color:  color,
		styles: styles,
	}
}

// WithStderr sets a separate writer for errors.
// Returns the printer for chaining.
func (p *Printer) WithStderr(w io.Writer) *Printer {
	p.errW = w
	return p
}

// HasColor returns true if the printer styles its output.
func (p *Printer) HasColor() bool {
	return p.color
}

// Ref renders a ref, branch or path being fetched or installed.
func (p *Printer) Ref(s string) string {
	return p.styles.Ref.Render(s)
}

// Removal renders something being removed.
func (p *Printer) Removal(s string) string {
	return p.styles.Removal.Render(s)
}

// Step renders a test step identifier.
func (p *Printer) Step(s string) string {
	return p.styles.Step.Render(s)
}

// Name renders a package name.
func (p *Printer) Name(s string) string {
	return p.styles.Name.Render(s)
}

// Banner writes a phase banner like "=== Install ===".
func (p *Printer) Banner(title string) {
	mustWrite(fmt.Fprintf(p.w, "%s\n", p.styles.Bold.Render("=== "+title+" ===")))
}

// Print formats and writes to the output without a newline.
func (p *Printer) Print(format string, args ...any) {
	mustWrite(fmt.Fprintf(p.w, format, args...))
}

// Println writes a line to the output.
func (p *Printer) Println(args ...any) {
	mustWrite(fmt.Fprintln(p.w, args...))
}

// Error outputs a styled error message to the error writer.
func (p *Printer) Error(err error) {
	exitErr := &ExitError{}
	ok := errors.As(err, &exitErr)
	if !ok {
		exitErr = &ExitError{
			Code:    ExitUserError,
			Message: err.Error(),
		}
	}

	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.styles.Error.Render("Error"), exitErr.Message))
}

// mustWrite panics if a write operation fails.
// Use this to wrap write operations that should never fail
// (e.g., writing to stdout/stderr or buffers).
func mustWrite(_ int, err error) {
	if err != nil {
		panic(fmt.Sprintf("write failed: %v", err))
	}
}
