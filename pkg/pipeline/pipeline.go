// Package pipeline sequences extraction, organization and remote
// cleanup into one invocation and merges their results.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/devicelab-dev/screenpull/pkg/adb"
	"github.com/devicelab-dev/screenpull/pkg/core"
	"github.com/devicelab-dev/screenpull/pkg/extractor"
	"github.com/devicelab-dev/screenpull/pkg/logger"
	"github.com/devicelab-dev/screenpull/pkg/organizer"
)

// Options configure one pipeline invocation. The pipeline owns
// OutputDir for the duration of the run; running two invocations
// against the same output directory or device concurrently is a
// caller error and is not locked against.
type Options struct {
	// OutputDir receives the organized tree, or the flat files when
	// Organize is off.
	OutputDir string

	// RemotePath overrides the device screenshot directory.
	RemotePath string

	// Organize materializes the Run/Test/Step hierarchy and index.
	// When off, pulled files are left flat in OutputDir.
	Organize bool

	// Clean removes the remote screenshots after staging completed.
	Clean bool
}

// Run executes extract -> organize -> cleanup. Preflight failures
// (tool missing, no reachable device) are returned as errors;
// per-file failures are merged into the summary instead.
func Run(t adb.Transport, opts Options) (core.Summary, error) {
	var summary core.Summary

	ext := extractor.New(t, opts.RemotePath)

	// With organizing on, pulled files land in a transient staging
	// directory; only the organized tree reaches OutputDir.
	staging := opts.OutputDir
	if opts.Organize {
		staging = filepath.Join(os.TempDir(), "screenpull-staging-"+uuid.NewString())
	}

	res, err := ext.Extract(staging)
	if err != nil {
		return summary, err
	}
	summary.Extracted = len(res.Files)
	summary.Errors = append(summary.Errors, res.Errors...)

	if opts.Organize && !res.Empty() {
		orgResult, err := organizer.New(opts.OutputDir).Organize(staging)
		if err != nil {
			return summary, fmt.Errorf("organize: %w", err)
		}
		summary.Organize = &orgResult

		// Staging is transient local state, removed whether or not
		// remote cleanup was requested.
		if err := os.RemoveAll(staging); err != nil {
			logger.Warn("Failed to remove staging dir %s: %v", staging, err)
		}
	}

	if opts.Clean && !res.Empty() {
		if err := ext.Cleanup(); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("remote cleanup: %v", err))
		} else {
			summary.Cleaned = true
		}
	}

	return summary, nil
}
