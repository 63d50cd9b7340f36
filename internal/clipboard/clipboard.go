// Package clipboard moves encoded images between the process and the system
// clipboard.
package clipboard

import "errors"

// ErrEmpty is returned by ReadImage when the clipboard holds no image.
var ErrEmpty = errors.New("clipboard does not contain image data")

// System is the process-wide clipboard. It exists so callers can depend on
// an interface and substitute a fake in tests.
type System struct{}

func (System) ReadImage() ([]byte, error) { return ReadImage() }

func (System) WriteImage(data []byte) (<-chan struct{}, error) { return WriteImage(data) }
