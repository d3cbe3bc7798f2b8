package adb

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/devicelab-dev/screenpull/pkg/core"
)

func TestParseDevices(t *testing.T) {
	out := `List of devices attached
emulator-5554          device product:sdk_gphone64_x86_64 model:sdk_gphone64_x86_64 device:emu64x transport_id:1
0A3B1FDD4003EM         unauthorized transport_id:2
192.168.1.20:5555      offline

`
	devices := parseDevices(out)

	if len(devices) != 3 {
		t.Fatalf("parsed %d devices, want 3", len(devices))
	}
	if devices[0].Serial != "emulator-5554" || devices[0].State != "device" {
		t.Errorf("device[0] = %+v", devices[0])
	}
	if devices[0].Model != "sdk_gphone64_x86_64" {
		t.Errorf("device[0].Model = %q", devices[0].Model)
	}
	if devices[1].State != "unauthorized" {
		t.Errorf("device[1].State = %q", devices[1].State)
	}
	if devices[2].Serial != "192.168.1.20:5555" || devices[2].State != "offline" {
		t.Errorf("device[2] = %+v", devices[2])
	}
}

func TestParseDevices_Empty(t *testing.T) {
	devices := parseDevices("List of devices attached\n\n")
	if len(devices) != 0 {
		t.Errorf("parsed %d devices, want 0", len(devices))
	}
}

func TestParseDevices_DaemonNoise(t *testing.T) {
	out := `* daemon not running; starting now at tcp:5037
* daemon started successfully
List of devices attached
emulator-5554	device
`
	devices := parseDevices(out)
	if len(devices) != 1 || devices[0].Serial != "emulator-5554" {
		t.Errorf("devices = %+v, want single emulator-5554", devices)
	}
}

func TestIsReachable(t *testing.T) {
	one := []DeviceInfo{{Serial: "a", State: "device"}}
	two := []DeviceInfo{{Serial: "a", State: "device"}, {Serial: "b", State: "device"}}
	unauthorized := []DeviceInfo{{Serial: "a", State: "unauthorized"}}

	cases := []struct {
		name    string
		devices []DeviceInfo
		serial  string
		want    bool
	}{
		{"single device, no serial", one, "", true},
		{"no devices", nil, "", false},
		{"two devices, no serial: never guess", two, "", false},
		{"two devices, explicit serial", two, "b", true},
		{"serial not attached", one, "z", false},
		{"unauthorized is not ready", unauthorized, "", false},
		{"unauthorized with serial", unauthorized, "a", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isReachable(tc.devices, tc.serial); got != tc.want {
				t.Errorf("isReachable = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsMissingPath(t *testing.T) {
	msg := "adb shell ls -1 /sdcard/nope failed: ls: /sdcard/nope: No such file or directory: exit status 1"
	if !isMissingPath(msg) {
		t.Error("expected missing-path detection")
	}
	if isMissingPath("adb shell ls failed: Permission denied: exit status 1") {
		t.Error("permission error is not a missing path")
	}
}

func TestClientOptions(t *testing.T) {
	c := NewClient("serial-1", WithTimeout(5*time.Second), WithBinary("adb-custom"))

	if c.Serial() != "serial-1" {
		t.Errorf("Serial() = %q", c.Serial())
	}
	if c.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", c.timeout)
	}
	if c.binary != "adb-custom" {
		t.Errorf("binary = %q, want adb-custom", c.binary)
	}
}

func TestClientOptions_IgnoreZeroTimeout(t *testing.T) {
	c := NewClient("", WithTimeout(0))
	if c.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want default %v", c.timeout, DefaultTimeout)
	}
}

func TestExec_Timeout(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	// Abuse the binary override to run a command that outlives the
	// timeout; the subprocess must be killed and the error classified.
	c := NewClient("", WithBinary("sleep"), WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := c.exec("5")
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, core.ErrTransportTimeout) {
		t.Errorf("error = %v, want transport_timeout", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("operation blocked %v, the process was not killed", elapsed)
	}
}

func TestExec_ToolMissing(t *testing.T) {
	c := NewClient("", WithBinary("definitely-not-a-binary-xyz"))

	if c.IsAvailable() {
		t.Fatal("IsAvailable() = true for a nonexistent binary")
	}

	_, err := c.exec("devices")
	if err == nil {
		t.Fatal("expected error for nonexistent binary")
	}
	if !errors.Is(err, core.ErrToolUnavailable) {
		t.Errorf("error = %v, want tool_unavailable", err)
	}
}

func TestExec_CommandFailure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}

	c := NewClient("", WithBinary("false"))

	_, err := c.exec("devices")
	var perr *core.PipelineError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want a structured transport error", err)
	}
	if perr.Category != core.ErrCategoryTransport {
		t.Errorf("Category = %q, want transport", perr.Category)
	}
	if perr.IsFatal() {
		t.Error("a failed command is not fatal for the whole pipeline")
	}
}

func TestInfo(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	// Route each getprop invocation through echo; the property name is
	// always the last argument regardless of device addressing.
	props := map[string]string{
		"ro.product.model":     "Pixel 6",
		"ro.build.version.sdk": "34",
	}
	orig := commandContext
	commandContext = func(ctx context.Context, _ string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "echo", props[args[len(args)-1]])
	}
	defer func() { commandContext = orig }()

	info := NewClient("emulator-5554").Info()

	if info.Serial != "emulator-5554" {
		t.Errorf("Serial = %q, want emulator-5554", info.Serial)
	}
	if info.Model != "Pixel 6" {
		t.Errorf("Model = %q, want Pixel 6 (trailing newline must be trimmed)", info.Model)
	}
	if info.SDK != "34" {
		t.Errorf("SDK = %q, want 34", info.SDK)
	}
}

func TestExec_Echo(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}

	var lines []string
	c := NewClient("", WithBinary("true"), WithEcho(func(line string) {
		lines = append(lines, line)
	}))

	if _, err := c.exec("arg1"); err != nil {
		t.Fatalf("exec failed: %v", err)
	}
	if len(lines) != 1 || lines[0] != "true arg1" {
		t.Errorf("echo lines = %v, want [true arg1]", lines)
	}
}
