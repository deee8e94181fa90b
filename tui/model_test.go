package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/blueprint/editor"
	"github.com/ByLCY/blueprint/narration"
)

func newModel(t *testing.T, opts Options) Model {
	t.Helper()
	n := 0
	ed := editor.New(
		editor.WithIDGenerator(func() string { n++; return fmt.Sprintf("el-%d", n) }),
		editor.WithClock(func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }),
	)
	if opts.OutDir == "" {
		opts.OutDir = t.TempDir()
	}
	return New(ed, opts)
}

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestAddMoveAndResize(t *testing.T) {
	m := newModel(t, Options{})
	// palette 默认第一个类型为 header，切到 text
	for m.PaletteType() != editor.TypeText {
		m = press(m, runes("]"))
	}
	m = press(m, runes("a"))
	el, ok := m.Editor().SelectedElement()
	require.True(t, ok)
	assert.Equal(t, editor.TypeText, el.Type)
	assert.Equal(t, 100.0, el.Y, "clear of the protected zone")

	m = press(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyShiftDown}, runes("+"))
	el, _ = m.Editor().SelectedElement()
	assert.Equal(t, 110.0, el.X)
	assert.Equal(t, 101.0, el.Y)
	assert.Equal(t, "110px", el.Style.Width)
}

func TestTabCyclesSelection(t *testing.T) {
	m := newModel(t, Options{})
	els := m.Editor().Elements()
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, els[0].ID, m.Editor().Selection().ElementID)
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, els[1].ID, m.Editor().Selection().ElementID)
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, els[0].ID, m.Editor().Selection().ElementID)
	m = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, els[1].ID, m.Editor().Selection().ElementID)
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.Editor().Selection().IsEmpty())
}

func TestEditingGuardsDelete(t *testing.T) {
	m := newModel(t, Options{})
	m = press(m, tea.KeyMsg{Type: tea.KeyTab}, runes("e"))
	require.True(t, m.Editing())
	before := m.Editor().Document().Len()

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Equal(t, before, m.Editor().Document().Len(), "focus in the text field never deletes the element")

	m = press(m, runes("!"), tea.KeyMsg{Type: tea.KeySpace}, runes("ok"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Editing())
	el, _ := m.Editor().SelectedElement()
	assert.Equal(t, "Mon Super Si! ok", el.Content)

	m = press(m, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Equal(t, before-1, m.Editor().Document().Len())
}

func TestEditCancelKeepsContent(t *testing.T) {
	m := newModel(t, Options{})
	m = press(m, tea.KeyMsg{Type: tea.KeyTab}, runes("e"), runes("xyz"), tea.KeyMsg{Type: tea.KeyEsc})
	el, _ := m.Editor().SelectedElement()
	assert.Equal(t, "Mon Super Site", el.Content)
	assert.Equal(t, "Modification annulée", m.Status())
}

func TestPreviewBlocksEditing(t *testing.T) {
	m := newModel(t, Options{})
	m = press(m, tea.KeyMsg{Type: tea.KeyTab}, runes("p"))
	assert.True(t, m.Editor().IsPreview())
	assert.True(t, m.Editor().Selection().IsEmpty(), "toggling preview clears the selection")

	before := m.Editor().Document().Len()
	m = press(m, tea.KeyMsg{Type: tea.KeyTab}, runes("e"), runes("a"), tea.KeyMsg{Type: tea.KeyDelete})
	assert.False(t, m.Editing())
	assert.Equal(t, before, m.Editor().Document().Len())
}

func TestSaveWritesJSONAndNarrates(t *testing.T) {
	dir := t.TempDir()
	transcript := NewTranscript(2)
	ann := narration.NewAnnouncer(transcript)
	m := newModel(t, Options{OutDir: dir, Announcer: ann, Transcript: transcript})

	m = press(m, runes("s"))
	path := filepath.Join(dir, "blueprint-2025-03-14.json")
	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.Contains(t, m.Status(), path)
	assert.Equal(t, []string{"Export JSON terminé"}, transcript.Lines())

	m = press(m, runes("n"))
	assert.False(t, ann.Enabled())
	assert.Equal(t, []string{"Export JSON terminé", "Audio description désactivée"}, transcript.Lines())
	assert.Contains(t, m.View(), "♪ Audio description désactivée")
}

func TestViewShowsElementsAndMode(t *testing.T) {
	m := newModel(t, Options{})
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	v := m.View()
	assert.Contains(t, v, "ÉDITION")
	assert.Contains(t, v, "› en-tête")
	assert.Contains(t, v, "H", "selected header drawn in upper case")
	assert.Contains(t, v, "░")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	assert.Empty(t, next.View())
}
