// Package notify turns session events into desktop notifications.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"strings"

	"github.com/example/clipmark/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventCopy fires when the annotated image is written to the clipboard.
	EventCopy Event = "copy"
	// EventNoImage fires when a session starts without an image to annotate.
	EventNoImage Event = "noimage"
)

// EventPreference describes formatting for a notification event. A %s verb
// in Template is replaced with the event detail.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "clipmark",
		Events: map[Event]EventPreference{
			EventCopy:    {Template: "Copied %s to clipboard"},
			EventNoImage: {Template: "No image found in clipboard"},
		},
	}
}

// LoadPreferences applies CLIPMARK_NOTIFY_* overrides from the environment
// to the defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("CLIPMARK_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	apply("CLIPMARK_NOTIFY_COPY_TEXT", EventCopy)
	apply("CLIPMARK_NOTIFY_NOIMAGE_TEXT", EventNoImage)
	return prefs
}

// SendFunc delivers a formatted notification.
type SendFunc func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications for the events it has been enabled
// for. A nil Notifier sends nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    SendFunc
	log     *slog.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithSender replaces the platform delivery function.
func WithSender(fn SendFunc) Option { return func(n *Notifier) { n.send = fn } }

// WithLogger sets the logger used to report delivery failures.
func WithLogger(l *slog.Logger) Option { return func(n *Notifier) { n.log = l } }

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences, opts ...Option) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	n := &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: platform.Notify, log: slog.Default()}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Copy announces a clipboard write. img, when non-nil, is attached as the
// notification icon.
func (n *Notifier) Copy(img image.Image) {
	if !n.enabledFor(EventCopy) {
		return
	}
	detail := "image"
	opts := platform.Options{}
	if img != nil {
		b := img.Bounds()
		detail = fmt.Sprintf("%dx%d image", b.Dx(), b.Dy())
		if path, cleanup, err := createPreview(img); err != nil {
			n.log.Warn("notification preview", "error", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

// NoImage announces that there was nothing to annotate.
func (n *Notifier) NoImage() {
	n.dispatch(EventNoImage, "", platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	body := render(n.prefs.Events[event].Template, detail)
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.log.Warn("notification failed", "event", event, "error", err)
	}
}

func render(template, detail string) string {
	template = strings.TrimSpace(template)
	if strings.Contains(template, "%s") {
		return strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	}
	return template
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "clipmark-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("remove preview", "error", err)
		}
	}
	return path, cleanup, nil
}
