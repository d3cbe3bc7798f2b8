package adb

import (
	"strings"
)

// DeviceInfo contains basic device information.
type DeviceInfo struct {
	Serial string
	State  string
	Model  string
	SDK    string
}

// ListDevices returns every device adb currently reports.
func (c *Client) ListDevices() ([]DeviceInfo, error) {
	out, err := c.exec("devices", "-l")
	if err != nil {
		return nil, err
	}
	return parseDevices(out), nil
}

// IsDeviceReachable reports whether the addressed device is attached
// and ready. With an explicit serial the device must be present in
// state "device". With no serial, exactly one ready device must be
// attached; more than one means adb's default-device rule would have
// to guess, so the answer is false.
func (c *Client) IsDeviceReachable() bool {
	devices, err := c.ListDevices()
	if err != nil {
		return false
	}
	return isReachable(devices, c.serial)
}

func isReachable(devices []DeviceInfo, serial string) bool {
	if serial != "" {
		for _, d := range devices {
			if d.Serial == serial && d.State == "device" {
				return true
			}
		}
		return false
	}

	ready := 0
	for _, d := range devices {
		if d.State == "device" {
			ready++
		}
	}
	return ready == 1
}

// parseDevices parses `adb devices -l` output:
//
//	List of devices attached
//	emulator-5554          device product:sdk_gphone64 model:Pixel_6 ...
//	0A3B1FDD4003EM         unauthorized ...
func parseDevices(out string) []DeviceInfo {
	var devices []DeviceInfo
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of") || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		d := DeviceInfo{Serial: fields[0], State: fields[1]}
		for _, f := range fields[2:] {
			if model, ok := strings.CutPrefix(f, "model:"); ok {
				d.Model = model
			}
		}
		devices = append(devices, d)
	}
	return devices
}

var _ Transport = (*Client)(nil)
