package server

import (
	"sync"

	"github.com/ByLCY/blueprint/editor"
)

// Session 持有唯一的编辑会话；所有请求通过同一把锁串行访问编辑器。
type Session struct {
	mu sync.Mutex
	ed *editor.Editor
}

// NewSession wraps ed.
func NewSession(ed *editor.Editor) *Session {
	return &Session{ed: ed}
}

// Do runs fn with exclusive access to the editor.
func (s *Session) Do(fn func(ed *editor.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ed)
}

// State is a consistent snapshot of the session, read under the lock.
type State struct {
	Revision  uint64                `json:"revision"`
	Mode      string                `json:"mode"`
	Selection editor.Selection      `json:"selection"`
	Canvas    editor.CanvasSettings `json:"canvas"`
	Elements  int                   `json:"elements"`
}

// Snapshot returns the current State.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Revision:  s.ed.Revision(),
		Mode:      s.ed.Mode().String(),
		Selection: s.ed.Selection(),
		Canvas:    s.ed.Canvas(),
		Elements:  s.ed.Document().Len(),
	}
}
