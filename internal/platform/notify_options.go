// Package platform delivers desktop notifications through the native
// mechanism of each operating system.
package platform

// AppName identifies the application to notification daemons.
const AppName = "clipmark"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file shown alongside the
	// notification where supported.
	IconPath string
	// Timeout is the display time in milliseconds. Zero uses the platform
	// default.
	Timeout int32
}
