// Package adb drives an Android device over the adb command-line
// tool: file listing, bulk and per-file pull, remote removal, and
// device property reads. Every invocation runs under a timeout and a
// timed-out subprocess is killed, never waited on indefinitely.
package adb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/devicelab-dev/screenpull/pkg/core"
)

// DefaultTimeout bounds every remote operation unless overridden.
const DefaultTimeout = 60 * time.Second

// commandContext is a seam for tests.
var commandContext = exec.CommandContext

// Option configures the Client.
type Option func(*Client)

// WithTimeout overrides the per-operation timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithBinary overrides the adb binary name or path.
func WithBinary(binary string) Option {
	return func(c *Client) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithEcho installs a callback invoked with every adb command line
// before it runs. Used for --verbose output.
func WithEcho(echo func(string)) Option {
	return func(c *Client) {
		c.echo = echo
	}
}

// Client implements Transport on top of the adb binary.
type Client struct {
	binary  string
	serial  string
	timeout time.Duration
	echo    func(string)
}

// NewClient creates a Client addressing the device with the given
// serial. An empty serial defers to adb's own single-device rule.
func NewClient(serial string, opts ...Option) *Client {
	c := &Client{
		binary:  "adb",
		serial:  serial,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Serial returns the addressed device serial (may be empty).
func (c *Client) Serial() string {
	return c.serial
}

// IsAvailable reports whether the adb binary can be found.
func (c *Client) IsAvailable() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}

// ListFiles lists the file names directly under remotePath. A path
// that does not exist on the device yields an empty listing.
func (c *Client) ListFiles(remotePath string) ([]string, error) {
	out, err := c.run("shell", "ls", "-1", remotePath)
	if err != nil {
		if isMissingPath(err.Error()) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	return names, nil
}

// PullAll copies the contents of remotePath into localDir in one adb
// invocation. The trailing "/." makes adb copy the directory contents
// rather than creating a subdirectory.
func (c *Client) PullAll(remotePath, localDir string) error {
	_, err := c.run("pull", remotePath+"/.", localDir)
	return err
}

// PullOne copies a single remote file to localFile.
func (c *Client) PullOne(remoteFile, localFile string) error {
	_, err := c.run("pull", remoteFile, localFile)
	return err
}

// RemoveAll deletes the screenshot files under remotePath. The glob
// is expanded by the device shell.
func (c *Client) RemoveAll(remotePath string) error {
	_, err := c.run("shell", "rm", "-f", remotePath+"/*.png")
	return err
}

// Info reads basic device properties via getprop. Properties that
// fail to read are left empty; an offline device still gets a row in
// the device listing.
func (c *Client) Info() DeviceInfo {
	info := DeviceInfo{Serial: c.serial}
	if model, err := c.run("shell", "getprop", "ro.product.model"); err == nil {
		info.Model = strings.TrimSpace(model)
	}
	if sdk, err := c.run("shell", "getprop", "ro.build.version.sdk"); err == nil {
		info.SDK = strings.TrimSpace(sdk)
	}
	return info
}

// run executes one adb command against the addressed device, bounded
// by the client timeout. On timeout the subprocess is killed and the
// error classifies as transport_timeout.
func (c *Client) run(args ...string) (string, error) {
	cmdArgs := make([]string, 0, len(args)+2)
	if c.serial != "" {
		cmdArgs = append(cmdArgs, "-s", c.serial)
	}
	cmdArgs = append(cmdArgs, args...)
	return c.exec(cmdArgs...)
}

// exec executes one adb command without device addressing.
func (c *Client) exec(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if c.echo != nil {
		c.echo(c.binary + " " + strings.Join(args, " "))
	}

	cmd := commandContext(ctx, c.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", core.ErrTransportTimeout.WithMessage(
			fmt.Sprintf("adb %s timed out after %s", strings.Join(args, " "), c.timeout))
	}
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", core.ErrToolUnavailable.WithCause(err)
		}
		msg := "adb " + strings.Join(args, " ") + " failed"
		if out := firstNonEmpty(stderr.String(), stdout.String()); out != "" {
			msg += ": " + out
		}
		return "", core.NewPipelineError(core.ErrCategoryTransport, "command_failed", msg).WithCause(err)
	}

	return stdout.String(), nil
}

// isMissingPath recognizes the "nonexistent directory" answer from
// the device shell. adb collapses remote exit codes, so the message
// text is the only signal.
func isMissingPath(msg string) bool {
	return strings.Contains(msg, "No such file or directory")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
