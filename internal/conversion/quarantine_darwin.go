//go:build darwin

package conversion

import (
	"errors"

	"golang.org/x/sys/unix"
)

const quarantineAttr = "com.apple.quarantine"

// stripQuarantine removes the Gatekeeper quarantine flag so the file opens
// without a prompt. A missing attribute is not an error.
func stripQuarantine(path string) error {
	err := unix.Removexattr(path, quarantineAttr)
	if err == nil || errors.Is(err, unix.ENOATTR) {
		return nil
	}
	return err
}
