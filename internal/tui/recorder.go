package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Recorder captures panel state changes and rendered frames for debugging.
// A zero or disabled Recorder does nothing.
type Recorder struct {
	logFile  *os.File
	frameDir string
	frameNum int
	mu       sync.Mutex
	enabled  bool
}

// NewRecorder creates a recorder writing under dir, or a fresh temp
// directory when dir is empty.
func NewRecorder(enabled bool, dir string) (*Recorder, error) {
	if !enabled {
		return &Recorder{}, nil
	}

	if dir == "" {
		dir = filepath.Join(os.TempDir(), fmt.Sprintf("botdetector-record-%d", time.Now().Unix()))
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create recording directory: %w", err)
	}

	logPath := filepath.Join(dir, "panel.log")
	logFile, err := os.Create(filepath.Clean(logPath)) // #nosec G304 -- constructed path
	if err != nil {
		return nil, fmt.Errorf("failed to create recording log: %w", err)
	}

	r := &Recorder{
		enabled:  true,
		logFile:  logFile,
		frameDir: dir,
	}
	r.Log("Recorder started at %s", dir)
	return r, nil
}

// Dir returns the recording directory.
func (r *Recorder) Dir() string {
	return r.frameDir
}

// Frames returns the number of frames captured.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameNum
}

// RecordState captures the panel after handling msg.
func (r *Recorder) RecordState(m Model, msg tea.Msg) {
	if r == nil || !r.enabled {
		return
	}

	r.mu.Lock()
	r.frameNum++
	frame := r.frameNum
	r.mu.Unlock()

	snap := m.panel.Snapshot()
	r.Log("\n=== Frame %d ===", frame)
	r.Log("Time: %s", time.Now().Format("15:04:05.000"))
	r.Log("Message Type: %T", msg)
	r.Log("State: %s", snap.State)
	r.Log("Request: %q token=%d pending=%v", snap.Request.Name, snap.Request.Token, snap.Pending)

	view := m.View()
	framePath := filepath.Join(r.frameDir, fmt.Sprintf("frame-%04d.txt", frame))
	if err := os.WriteFile(framePath, []byte(view), 0600); err != nil {
		r.Log("Error saving frame: %v", err)
	}
}

// Log writes a line to the recording log.
func (r *Recorder) Log(format string, args ...any) {
	if r == nil || !r.enabled || r.logFile == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := fmt.Fprintf(r.logFile, format+"\n", args...); err != nil {
		return
	}
	_ = r.logFile.Sync()
}

// Close closes the recorder.
func (r *Recorder) Close() {
	if r == nil || r.logFile == nil {
		return
	}
	r.Log("Recording complete. %d frames captured.", r.Frames())
	_ = r.logFile.Close()
}
