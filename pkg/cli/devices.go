package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/screenpull/pkg/core"
	"github.com/devicelab-dev/screenpull/pkg/extractor"
)

var devicesCommand = &cli.Command{
	Name:  "devices",
	Usage: "List attached devices",
	Description: `List every device adb reports, with its state and model.

Examples:
  screenpull devices`,
	Action: runDevices,
}

var cleanCommand = &cli.Command{
	Name:  "clean",
	Usage: "Remove remote screenshots without pulling them",
	Description: `Delete the screenshot files on the device. Unlike pull --clean this
does not extract anything first, so the files are gone for good.

Examples:
  screenpull clean
  screenpull -s emulator-5554 clean -p /sdcard/Pictures/screenshots`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "device-path",
			Aliases: []string{"p"},
			Usage:   "Remote screenshot directory",
			Value:   extractor.DefaultRemotePath,
		},
	},
	Action: runClean,
}

func runDevices(c *cli.Context) error {
	client := newTransport(c.String("serial"), c.Bool("verbose"))
	if !client.IsAvailable() {
		return core.ErrToolUnavailable
	}

	devices, err := client.ListDevices()
	if err != nil {
		return fmt.Errorf("list devices: %w", err)
	}
	if len(devices) == 0 {
		fmt.Println("No devices attached")
		return nil
	}

	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		// getprop answers only on ready devices; offline or
		// unauthorized ones keep whatever `adb devices -l` reported.
		if d.State == "device" {
			info := newTransport(d.Serial, c.Bool("verbose")).Info()
			if info.Model != "" {
				d.Model = info.Model
			}
			d.SDK = info.SDK
		}
		rows = append(rows, []string{d.Serial, d.State, d.Model, d.SDK})
	}
	fmt.Println(renderTable([]string{"Serial", "State", "Model", "SDK"}, rows))
	return nil
}

func runClean(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	client := newTransport(stringSetting(c, "serial", cfg.Serial), c.Bool("verbose") || cfg.Verbose)
	if err := preflight(client); err != nil {
		return err
	}

	devicePath := stringSetting(c, "device-path", cfg.DevicePath)
	printSetupStep(fmt.Sprintf("Removing screenshots under %s...", devicePath))
	if err := extractor.New(client, devicePath).Cleanup(); err != nil {
		return fmt.Errorf("remove remote screenshots: %w", err)
	}
	printSetupSuccess("Remote screenshots removed")
	return nil
}
