// Package organizer turns a flat staging directory of pulled
// screenshots into the Run/Test/Step hierarchy and generates the
// browsable index.
package organizer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/devicelab-dev/screenpull/pkg/core"
	"github.com/devicelab-dev/screenpull/pkg/logger"
	"github.com/devicelab-dev/screenpull/pkg/screenshot"
)

// QuarantineDir receives files that fail the naming grammar. They are
// preserved there, never discarded.
const QuarantineDir = "unorganized"

// Organizer materializes the run/test/step hierarchy under one output
// root. It owns that tree for the duration of one invocation;
// re-running over the same input is idempotent.
type Organizer struct {
	outputRoot string
}

// New creates an Organizer writing under outputRoot.
func New(outputRoot string) *Organizer {
	return &Organizer{outputRoot: outputRoot}
}

// Organize classifies every .png in stagingDir, copies it into place,
// and regenerates the index. Files that fail to decode are copied
// unchanged into the quarantine directory and recorded. Individual
// copy failures are recorded and the batch continues; only being
// unable to read the staging directory or write the index aborts.
func (o *Organizer) Organize(stagingDir string) (core.OrganizeResult, error) {
	var result core.OrganizeResult

	files, err := listScreenshots(stagingDir)
	if err != nil {
		return result, fmt.Errorf("read staging dir: %w", err)
	}

	runs := make(map[string]bool)
	tests := make(map[string]bool)
	var organized []organizedFile

	for _, path := range files {
		name := filepath.Base(path)

		rec, err := screenshot.Decode(name)
		if err != nil {
			logger.Warn("Quarantining %s: %v", name, err)
			if qerr := o.quarantine(path); qerr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, qerr))
				continue
			}
			// Decode errors already name the file.
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		runDir, testDir, stepFile := screenshot.DerivePaths(rec)
		relPath := filepath.Join(runDir, testDir, stepFile)
		dest := filepath.Join(o.outputRoot, relPath)

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v",
				name, core.ErrCopyFailure.WithCause(err)))
			continue
		}
		if err := copyFile(path, dest); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v",
				name, core.ErrCopyFailure.WithCause(err)))
			continue
		}

		logger.Debug("Organized %s -> %s", name, relPath)
		runs[runDir] = true
		tests[filepath.Join(runDir, testDir)] = true
		result.Screenshots++
		organized = append(organized, organizedFile{record: rec, relPath: relPath})
	}

	result.Runs = len(runs)
	result.Tests = len(tests)

	index := buildIndex(organized)
	if err := writeIndex(o.outputRoot, index); err != nil {
		return result, fmt.Errorf("write index: %w", err)
	}

	logger.Info("Organized %d screenshots into %d runs, %d tests (%d errors)",
		result.Screenshots, result.Runs, result.Tests, len(result.Errors))
	return result, nil
}

// quarantine copies a file unchanged into the quarantine directory.
func (o *Organizer) quarantine(path string) error {
	dir := filepath.Join(o.outputRoot, QuarantineDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return core.ErrCopyFailure.WithCause(err)
	}
	if err := copyFile(path, filepath.Join(dir, filepath.Base(path))); err != nil {
		return core.ErrCopyFailure.WithCause(err)
	}
	return nil
}

// listScreenshots returns the .png files directly under dir, sorted.
func listScreenshots(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), screenshot.Extension) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// copyFile copies src over dst, truncating any existing file so
// re-runs produce identical results.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}
	return dstFile.Close()
}
