package bridge

import (
	"image"
	"sync"

	"github.com/example/clipmark/internal/canvas"
)

// Commit is one image handed to a Recorder.
type Commit struct {
	Data   []byte
	Format canvas.Format
}

// Recorder is a Bridge that keeps everything it is sent. Headless commands
// use it to capture the result instead of touching the clipboard.
type Recorder struct {
	mu      sync.Mutex
	resizes []image.Point
	commits []Commit
}

var _ Bridge = (*Recorder)(nil)

func (r *Recorder) RequestResize(w, h int) {
	r.mu.Lock()
	r.resizes = append(r.resizes, DisplaySize(w, h))
	r.mu.Unlock()
}

func (r *Recorder) CommitToClipboard(data []byte, f canvas.Format) error {
	r.mu.Lock()
	r.commits = append(r.commits, Commit{Data: append([]byte(nil), data...), Format: f})
	r.mu.Unlock()
	return nil
}

// Resizes returns the display areas requested so far.
func (r *Recorder) Resizes() []image.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]image.Point(nil), r.resizes...)
}

// Commits returns the images committed so far.
func (r *Recorder) Commits() []Commit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Commit(nil), r.commits...)
}

// Last returns the most recent commit.
func (r *Recorder) Last() (Commit, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.commits) == 0 {
		return Commit{}, false
	}
	return r.commits[len(r.commits)-1], true
}
