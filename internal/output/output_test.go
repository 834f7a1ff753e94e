package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPrinter_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.Banner("Install")
	p.Print("install %s\n", p.Ref("packages/preview/foo/1.0.0"))

	got := buf.String()
	if !strings.Contains(got, "=== Install ===") {
		t.Errorf("output missing banner: %q", got)
	}
	if !strings.Contains(got, "install packages/preview/foo/1.0.0") {
		t.Errorf("output missing install line: %q", got)
	}
	if strings.Contains(got, "\x1b[") {
		t.Errorf("plain output contains ANSI escapes: %q", got)
	}
}

func TestPrinter_ErrorGoesToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, false).WithStderr(&errOut)

	p.Error(NewSystemError("fetching pull/42/head failed"))

	if out.Len() != 0 {
		t.Errorf("error was written to stdout: %q", out.String())
	}
	if got := errOut.String(); !strings.Contains(got, "fetching pull/42/head failed") {
		t.Errorf("stderr = %q, want error message", got)
	}
}

func TestPrinter_ErrorWrapsUntypedErrors(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.Error(errors.New("plain failure"))

	if got := buf.String(); !strings.Contains(got, "plain failure") {
		t.Errorf("output = %q, want untyped error message", got)
	}
}

func TestResolveColorMode(t *testing.T) {
	tests := []struct {
		name      string
		colorMode string
		isTTY     bool
		want      bool
	}{
		{name: "never disables on TTY", colorMode: "never", isTTY: true, want: false},
		{name: "never disables on non-TTY", colorMode: "never", isTTY: false, want: false},
		{name: "always enables on TTY", colorMode: "always", isTTY: true, want: true},
		{name: "always enables on non-TTY", colorMode: "always", isTTY: false, want: true},
		{name: "auto uses TTY true", colorMode: "auto", isTTY: true, want: true},
		{name: "auto uses TTY false", colorMode: "auto", isTTY: false, want: false},
		{name: "empty string defaults to auto", colorMode: "", isTTY: true, want: true},
		{name: "unknown value defaults to auto", colorMode: "bogus", isTTY: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveColorMode(tt.colorMode, tt.isTTY)
			if got != tt.want {
				t.Errorf("ResolveColorMode(%q, %v) = %v, want %v", tt.colorMode, tt.isTTY, got, tt.want)
			}
		})
	}
}

func TestIsTTY_Buffer(t *testing.T) {
	var buf bytes.Buffer
	if IsTTY(&buf) {
		t.Error("IsTTY(buffer) should return false")
	}
}
