// Package extractor discovers screenshot files on a device and
// retrieves them into a local staging directory.
package extractor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/devicelab-dev/screenpull/pkg/adb"
	"github.com/devicelab-dev/screenpull/pkg/core"
	"github.com/devicelab-dev/screenpull/pkg/logger"
	"github.com/devicelab-dev/screenpull/pkg/screenshot"
)

// DefaultRemotePath is where the instrumented app writes screenshots.
const DefaultRemotePath = "/sdcard/Pictures/screenshots"

// Extractor retrieves screenshots from one device into a staging
// directory. It owns the staging directory for the duration of one
// run; concurrent extractors against the same directory are a caller
// error.
type Extractor struct {
	transport  adb.Transport
	remotePath string
}

// New creates an Extractor reading from remotePath (DefaultRemotePath
// when empty).
func New(t adb.Transport, remotePath string) *Extractor {
	if remotePath == "" {
		remotePath = DefaultRemotePath
	}
	return &Extractor{transport: t, remotePath: remotePath}
}

// RemotePath returns the device directory being extracted.
func (e *Extractor) RemotePath() string {
	return e.remotePath
}

// Extract lists the remote screenshots and pulls them into
// stagingDir. A bulk pull is attempted first; if it fails, each
// listed file is pulled individually and per-file failures are
// recorded without aborting the batch. The returned file set is the
// listed names actually present in stagingDir after the pull, so a
// partially successful bulk pull is counted correctly and leftovers
// from earlier runs into the same directory are not.
//
// Preflight failures (tool missing, no reachable device) are returned
// as errors before any filesystem change. A fatal failure surfacing
// mid-fallback, such as adb disappearing, aborts instead of being
// recorded once per remaining file.
func (e *Extractor) Extract(stagingDir string) (core.ExtractResult, error) {
	var result core.ExtractResult

	if !e.transport.IsAvailable() {
		return result, core.ErrToolUnavailable
	}
	if !e.transport.IsDeviceReachable() {
		return result, core.ErrNoDeviceReachable
	}

	names, err := e.transport.ListFiles(e.remotePath)
	if err != nil {
		return result, fmt.Errorf("list %s: %w", e.remotePath, err)
	}

	var pngs []string
	for _, name := range names {
		if strings.HasSuffix(name, screenshot.Extension) {
			pngs = append(pngs, name)
		}
	}
	result.Listed = len(pngs)
	if len(pngs) == 0 {
		logger.Info("No screenshots found under %s", e.remotePath)
		return result, nil
	}

	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return result, fmt.Errorf("create staging dir: %w", err)
	}

	logger.Info("Pulling %d screenshots from %s", len(pngs), e.remotePath)
	if err := e.transport.PullAll(e.remotePath, stagingDir); err != nil {
		logger.Warn("Bulk pull failed (%v), falling back to per-file pull", err)
		result.UsedFallback = true
		for _, name := range pngs {
			remote := e.remotePath + "/" + name
			if err := e.transport.PullOne(remote, filepath.Join(stagingDir, name)); err != nil {
				var perr *core.PipelineError
				if errors.As(err, &perr) && perr.IsFatal() {
					return result, err
				}
				logger.Error("Pull failed: %s: %v", name, err)
				result.Errors = append(result.Errors, fmt.Sprintf("pull %s: %v", name, err))
			}
		}
	}

	staged := make([]string, 0, len(pngs))
	for _, name := range pngs {
		path := filepath.Join(stagingDir, name)
		if _, err := os.Stat(path); err == nil {
			staged = append(staged, path)
		}
	}
	sort.Strings(staged)
	result.Files = staged
	logger.Info("Staged %d screenshots in %s", len(staged), stagingDir)

	return result, nil
}

// Cleanup removes the remote screenshots. Callers invoke it only
// after staging has completed, so a failed extraction never loses
// data.
func (e *Extractor) Cleanup() error {
	logger.Info("Removing remote screenshots under %s", e.remotePath)
	return e.transport.RemoveAll(e.remotePath)
}
