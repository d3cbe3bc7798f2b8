// Package cli provides the command-line interface for screenpull.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/screenpull/pkg/core"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "serial",
		Aliases: []string{"s"},
		Usage:   "Device serial to target (default: the single attached device)",
		EnvVars: []string{"SCREENPULL_SERIAL"},
	},
	&cli.StringFlag{
		Name:    "config",
		Usage:   "Path to screenpull.yaml",
		EnvVars: []string{"SCREENPULL_CONFIG"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Echo each adb invocation and per-file action",
		EnvVars: []string{"SCREENPULL_VERBOSE"},
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "screenpull",
		Usage:   "Pull and organize test screenshots from an Android device",
		Version: Version,
		Description: `screenpull extracts screenshots written by instrumented UI tests,
reorganizes them into a Run/Test/Step hierarchy, and generates a
browsable index.

Examples:
  screenpull pull
  screenpull pull ./artifacts --clean
  screenpull -s emulator-5554 pull -p /sdcard/Pictures/screenshots
  screenpull devices`,
		Flags: GlobalFlags,
		Before: func(c *cli.Context) error {
			noANSI = c.Bool("no-ansi")
			return nil
		},
		Commands: []*cli.Command{
			pullCommand,
			devicesCommand,
			cleanCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit codes. Fatal preflight
// conditions get dedicated codes so CI scripts can tell them apart.
func exitCode(err error) int {
	switch {
	case errors.Is(err, core.ErrToolUnavailable):
		return 2
	case errors.Is(err, core.ErrNoDeviceReachable):
		return 3
	default:
		return 1
	}
}
