//go:build !linux && !darwin && !windows

package platform

import "errors"

// Notify reports that there is no notification mechanism on this platform.
func Notify(title, body string, opts Options) error {
	return errors.ErrUnsupported
}
