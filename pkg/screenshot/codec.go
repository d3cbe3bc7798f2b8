// Package screenshot implements the structured screenshot filename
// grammar shared by the capture side and the extraction pipeline:
//
//	Run_<session>__Test_<testName>__Step_<NN>__<timestamp>__<description>.png
//
// Fields are delimited by the two-character "__" separator and may not
// contain "__" themselves. Single underscores inside a field are legal,
// so session tokens like 20240115_143022 parse unambiguously.
package screenshot

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/devicelab-dev/screenpull/pkg/core"
)

// Extension is the only file extension the pipeline handles.
const Extension = ".png"

// Record is the decoded identity of one screenshot. It is immutable
// once constructed.
type Record struct {
	Session     string // opaque per-run token, groups screenshots under one Run directory
	TestName    string // unique within a session
	Step        int    // display order within (session, testName)
	Timestamp   string // capture-time token, only for filename uniqueness
	Description string // free-text label, sanitized by the capture side
}

// fieldPattern accepts characters safe in filenames: no path
// separators, no whitespace. The codec validates, it does not re-sanitize.
var fieldPattern = regexp.MustCompile(`^[^\s/\\]+$`)

// Decode parses a screenshot filename into a Record. Any leading path
// component is stripped before matching. The whole name must match the
// grammar; partial matches are rejected with a malformed_name error.
func Decode(filename string) (Record, error) {
	name := filepath.Base(filename)

	stem, ok := strings.CutSuffix(name, Extension)
	if !ok {
		return Record{}, core.ErrMalformedName.WithMessage(
			fmt.Sprintf("%s: missing %s suffix", name, Extension))
	}

	parts := strings.Split(stem, "__")
	if len(parts) != 5 {
		return Record{}, core.ErrMalformedName.WithMessage(
			fmt.Sprintf("%s: expected 5 __-delimited segments, got %d", name, len(parts)))
	}

	session, ok := strings.CutPrefix(parts[0], "Run_")
	if !ok {
		return Record{}, core.ErrMalformedName.WithMessage(name + ": first segment must start with Run_")
	}
	testName, ok := strings.CutPrefix(parts[1], "Test_")
	if !ok {
		return Record{}, core.ErrMalformedName.WithMessage(name + ": second segment must start with Test_")
	}
	stepDigits, ok := strings.CutPrefix(parts[2], "Step_")
	if !ok {
		return Record{}, core.ErrMalformedName.WithMessage(name + ": third segment must start with Step_")
	}

	if stepDigits == "" || strings.Trim(stepDigits, "0123456789") != "" {
		return Record{}, core.ErrMalformedName.WithMessage(
			fmt.Sprintf("%s: step %q is not a non-negative integer", name, stepDigits))
	}
	step, err := strconv.Atoi(stepDigits)
	if err != nil {
		return Record{}, core.ErrMalformedName.WithMessage(
			fmt.Sprintf("%s: step %q is not a non-negative integer", name, stepDigits))
	}

	r := Record{
		Session:     session,
		TestName:    testName,
		Step:        step,
		Timestamp:   parts[3],
		Description: parts[4],
	}

	for _, field := range []string{r.Session, r.TestName, r.Timestamp, r.Description} {
		if !fieldPattern.MatchString(field) {
			return Record{}, core.ErrMalformedName.WithMessage(name + ": field contains unsafe characters")
		}
	}

	return r, nil
}

// Encode renders the Record as a filename. The step is zero-padded to
// at least two digits; steps >= 100 keep their full width.
func Encode(r Record) string {
	return fmt.Sprintf("Run_%s__Test_%s__Step_%02d__%s__%s%s",
		r.Session, r.TestName, r.Step, r.Timestamp, r.Description, Extension)
}

// DerivePaths returns the organized location for a record, relative to
// the output root. The codec never touches the filesystem; the
// organizer joins these into a path.
func DerivePaths(r Record) (runDir, testDir, stepFilename string) {
	runDir = "Run_" + r.Session
	testDir = "Test_" + r.TestName
	stepFilename = fmt.Sprintf("Step_%02d_%s%s", r.Step, r.Description, Extension)
	return runDir, testDir, stepFilename
}
