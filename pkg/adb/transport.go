package adb

// Transport is the device-control boundary the extraction pipeline
// depends on. Implementations execute against one addressed device;
// every operation is timeout-bounded and never blocks indefinitely.
// Operations are not retried here: fallback strategy belongs to the
// extractor.
type Transport interface {
	// IsAvailable reports whether the external tool is on the
	// execution path.
	IsAvailable() bool

	// IsDeviceReachable reports whether the addressed device (or,
	// with no serial, the tool's single implicit device) is attached
	// and ready. With multiple devices and no serial it returns
	// false rather than guessing.
	IsDeviceReachable() bool

	// ListFiles lists file names directly under remotePath. A
	// nonexistent remote path yields an empty result, not an error.
	ListFiles(remotePath string) ([]string, error)

	// PullAll copies every file under remotePath into localDir.
	PullAll(remotePath, localDir string) error

	// PullOne copies a single remote file to a local path.
	PullOne(remoteFile, localFile string) error

	// RemoveAll deletes the screenshot files under remotePath on the
	// device.
	RemoveAll(remotePath string) error
}
