package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/devicelab-dev/screenpull/pkg/core"
)

func TestResolveOutputDir_Default(t *testing.T) {
	dir := resolveOutputDir("", "")

	if !strings.HasPrefix(dir, "screenshots-") {
		t.Errorf("expected timestamped default, got %s", dir)
	}
}

func TestResolveOutputDir_Arg(t *testing.T) {
	if dir := resolveOutputDir("./artifacts", "./from-config"); dir != "./artifacts" {
		t.Errorf("positional argument must win, got %s", dir)
	}
}

func TestResolveOutputDir_Config(t *testing.T) {
	if dir := resolveOutputDir("", "./from-config"); dir != "./from-config" {
		t.Errorf("config output must be used, got %s", dir)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{core.ErrToolUnavailable, 2},
		{core.ErrNoDeviceReachable, 3},
		{core.ErrNoDeviceReachable.WithMessage("2 devices attached"), 3},
		{fmt.Errorf("wrapped: %w", core.ErrToolUnavailable), 2},
		{errors.New("anything else"), 1},
	}

	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestEchoExec_BeforeLoggerInit(t *testing.T) {
	var buf bytes.Buffer
	orig := echoWriter
	echoWriter = &buf
	defer func() { echoWriter = orig }()

	// The file logger is not initialized here; the command line must
	// still reach the echo writer.
	echoExec("adb devices -l")

	if !strings.Contains(buf.String(), "adb devices -l") {
		t.Errorf("echo output missing command line: %q", buf.String())
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, "./out", core.Summary{
		Extracted: 3,
		Organize: &core.OrganizeResult{
			Runs:        1,
			Tests:       2,
			Screenshots: 2,
			Errors:      []string{"bad.png: filename does not match the screenshot grammar"},
		},
		Cleaned: true,
	})

	out := buf.String()
	for _, want := range []string{"Extracted", "3", "Runs", "Tests", "Organized", "Remote cleaned", "./out", "bad.png"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "1 file(s) failed") {
		t.Errorf("summary should enumerate failures:\n%s", out)
	}
}

func TestPrintSummary_NoErrors(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, "./out", core.Summary{Extracted: 1})

	if strings.Contains(buf.String(), "failed") {
		t.Errorf("clean run should not print a failure section:\n%s", buf.String())
	}
}
