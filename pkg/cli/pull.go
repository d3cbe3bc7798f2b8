package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/screenpull/pkg/adb"
	"github.com/devicelab-dev/screenpull/pkg/config"
	"github.com/devicelab-dev/screenpull/pkg/core"
	"github.com/devicelab-dev/screenpull/pkg/extractor"
	"github.com/devicelab-dev/screenpull/pkg/logger"
	"github.com/devicelab-dev/screenpull/pkg/pipeline"
)

var pullCommand = &cli.Command{
	Name:      "pull",
	Usage:     "Extract screenshots from the device and organize them",
	ArgsUsage: "[OUTPUT_DIR]",
	Description: `Pull test screenshots off the device into OUTPUT_DIR (default: a
timestamped directory) and reorganize them into a Run/Test/Step
hierarchy with an index. Files that do not match the screenshot
naming scheme are preserved under unorganized/.

Individual file failures are reported but do not fail the command;
only a missing adb or an unreachable device does.

Examples:
  screenpull pull
  screenpull pull ./artifacts
  screenpull pull --clean
  screenpull pull -o=false ./flat-dump`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "device-path",
			Aliases: []string{"p"},
			Usage:   "Remote screenshot directory",
			Value:   extractor.DefaultRemotePath,
		},
		&cli.BoolFlag{
			Name:    "organize",
			Aliases: []string{"o"},
			Usage:   "Reorganize into Run/Test/Step hierarchy",
			Value:   true,
		},
		&cli.BoolFlag{
			Name:    "clean",
			Aliases: []string{"c"},
			Usage:   "Remove remote screenshots after successful extraction",
		},
	},
	Action: runPull,
}

func runPull(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	serial := stringSetting(c, "serial", cfg.Serial)
	devicePath := stringSetting(c, "device-path", cfg.DevicePath)
	verbose := c.Bool("verbose") || cfg.Verbose

	client := newTransport(serial, verbose)

	// Preflight before touching the local filesystem.
	if err := preflight(client); err != nil {
		return err
	}

	outputDir := resolveOutputDir(c.Args().First(), cfg.Output)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := logger.Init(filepath.Join(outputDir, "screenpull.log")); err != nil {
		return err
	}
	defer logger.Close()
	logger.SetVerbose(verbose)

	opts := pipeline.Options{
		OutputDir:  outputDir,
		RemotePath: devicePath,
		Organize:   organizeSetting(c, cfg),
		Clean:      c.Bool("clean") || cfg.Clean,
	}

	printSetupStep(fmt.Sprintf("Extracting screenshots from %s...", opts.RemotePath))
	summary, err := pipeline.Run(client, opts)
	if err != nil {
		return err
	}

	printSummary(os.Stdout, outputDir, summary)
	return nil
}

// preflight verifies adb and device reachability, matching the fatal
// error taxonomy: everything else is reported per file instead.
func preflight(client *adb.Client) error {
	printSetupStep("Checking adb...")
	if !client.IsAvailable() {
		return core.ErrToolUnavailable
	}

	if client.Serial() != "" {
		printSetupStep(fmt.Sprintf("Checking device %s...", client.Serial()))
	} else {
		printSetupStep("Checking for a connected device...")
	}
	if !client.IsDeviceReachable() {
		return describeUnreachable(client)
	}
	printSetupSuccess("Device ready")
	return nil
}

// describeUnreachable turns the reachability failure into an
// actionable message: no device at all, or several without a serial.
func describeUnreachable(client *adb.Client) error {
	devices, err := client.ListDevices()
	if err != nil {
		return core.ErrNoDeviceReachable.WithCause(err)
	}
	ready := 0
	for _, d := range devices {
		if d.State == "device" {
			ready++
		}
	}
	if client.Serial() == "" && ready > 1 {
		return core.ErrNoDeviceReachable.WithMessage(
			strconv.Itoa(ready) + " devices attached; pick one with --serial")
	}
	if client.Serial() != "" {
		return core.ErrNoDeviceReachable.WithMessage(
			"device " + client.Serial() + " is not attached")
	}
	return core.ErrNoDeviceReachable
}

// echoWriter receives --verbose command echo. Writing to stderr
// directly (not through the file logger) keeps preflight invocations
// visible before the output directory and its log file exist.
var echoWriter io.Writer = os.Stderr

func echoExec(line string) {
	fmt.Fprintf(echoWriter, "  $ %s\n", line)
	logger.Debug("exec: %s", line)
}

func newTransport(serial string, verbose bool) *adb.Client {
	opts := []adb.Option{}
	if verbose {
		opts = append(opts, adb.WithEcho(echoExec))
	}
	return adb.NewClient(serial, opts...)
}

// resolveOutputDir picks the output directory: positional argument,
// then config file, then a timestamped default.
func resolveOutputDir(arg, cfgOutput string) string {
	if arg != "" {
		return arg
	}
	if cfgOutput != "" {
		return cfgOutput
	}
	return "screenshots-" + time.Now().Format("20060102-150405")
}

// loadConfig loads --config, or searches the working directory.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadFromDir(".")
}

// stringSetting returns the flag value when set, the config value
// otherwise, and the flag's default as a last resort.
func stringSetting(c *cli.Context, name, cfgValue string) string {
	if c.IsSet(name) || cfgValue == "" {
		return c.String(name)
	}
	return cfgValue
}

// organizeSetting defaults to on; an explicit --organize flag wins
// over the config file.
func organizeSetting(c *cli.Context, cfg *config.Config) bool {
	if c.IsSet("organize") {
		return c.Bool("organize")
	}
	return cfg.Organize
}
