// Package tui is a terminal front-end for one editing session.
package tui

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ByLCY/blueprint/editor"
	"github.com/ByLCY/blueprint/export"
	"github.com/ByLCY/blueprint/narration"
)

// 方向键每次移动的像素数；带 shift 时为 1px 微调。
const (
	moveStep   = 10.0
	nudgeStep  = 1.0
	resizeStep = 10.0
)

// Transcript keeps the last spoken narration lines so the view can show them.
type Transcript struct {
	mu    sync.Mutex
	lines []string
	max   int
}

// NewTranscript keeps at most limit lines.
func NewTranscript(limit int) *Transcript {
	if limit <= 0 {
		limit = 3
	}
	return &Transcript{max: limit}
}

// Speak implements narration.Speaker.
func (t *Transcript) Speak(u narration.Utterance) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, u.Text)
	if len(t.lines) > t.max {
		t.lines = t.lines[len(t.lines)-t.max:]
	}
}

// Lines returns a copy of the retained lines, oldest first.
func (t *Transcript) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.lines...)
}

// Options wires the optional collaborators of the terminal editor.
type Options struct {
	Exporter   *export.Exporter
	Announcer  *narration.Announcer
	Transcript *Transcript
	// OutDir 为未配置 Exporter 时 JSON 的保存目录。
	OutDir string
}

// Model is the bubbletea model.
type Model struct {
	ed   *editor.Editor
	opts Options

	palette  int
	editing  bool
	draft    string
	status   string
	width    int
	height   int
	quitting bool
}

// New creates a model over ed.
func New(ed *editor.Editor, opts Options) Model {
	return Model{ed: ed, opts: opts, status: "Prêt"}
}

// Editor returns the session edited by the model.
func (m Model) Editor() *editor.Editor { return m.ed }

// Status returns the last status message.
func (m Model) Status() string { return m.status }

// Editing reports whether the content editor is open.
func (m Model) Editing() bool { return m.editing }

// PaletteType is the element type added by the "a" key.
func (m Model) PaletteType() editor.ElementType {
	return editor.ElementTypes[m.palette]
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg), nil
		}
		return m.updateCanvas(msg)
	}
	return m, nil
}

// updateEditing 处理内容编辑框中的按键：焦点在输入框内，Delete/Backspace 只编辑文字。
func (m Model) updateEditing(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter":
		m.commitDraft()
		m.editing = false
	case "esc":
		m.editing = false
		m.status = "Modification annulée"
	case "backspace", "delete":
		// 焦点在输入框内，只删除草稿中的字符，不会删除元素
		if r := []rune(m.draft); len(r) > 0 {
			m.draft = string(r[:len(r)-1])
		}
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.draft += string(msg.Runes)
		case tea.KeySpace:
			m.draft += " "
		}
	}
	return m
}

func (m *Model) commitDraft() {
	sel := m.ed.Selection()
	content := editor.String(m.draft)
	if sel.ChildID != "" {
		m.ed.UpdateFormChild(sel.ElementID, sel.ChildID, editor.Update{Content: content})
	} else {
		m.ed.UpdateElement(sel.ElementID, editor.Update{Content: content})
	}
	m.status = "Contenu mis à jour"
}

func (m Model) updateCanvas(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel := m.ed.Selection().ElementID
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.cycle(1)
	case "shift+tab":
		m.cycle(-1)
	case "esc":
		m.ed.Select("")
	case "up":
		m.ed.MoveElementBy(sel, 0, -moveStep)
	case "down":
		m.ed.MoveElementBy(sel, 0, moveStep)
	case "left":
		m.ed.MoveElementBy(sel, -moveStep, 0)
	case "right":
		m.ed.MoveElementBy(sel, moveStep, 0)
	case "shift+up":
		m.ed.MoveElementBy(sel, 0, -nudgeStep)
	case "shift+down":
		m.ed.MoveElementBy(sel, 0, nudgeStep)
	case "shift+left":
		m.ed.MoveElementBy(sel, -nudgeStep, 0)
	case "shift+right":
		m.ed.MoveElementBy(sel, nudgeStep, 0)
	case "+", "=":
		m.ed.ResizeElement(sel, editor.HandleSE, resizeStep, resizeStep)
	case "-":
		m.ed.ResizeElement(sel, editor.HandleSE, -resizeStep, -resizeStep)
	case "c":
		m.ed.CenterElement(sel)
	case "[":
		m.palette = (m.palette + len(editor.ElementTypes) - 1) % len(editor.ElementTypes)
		m.status = "Palette : " + narration.ElementName(m.PaletteType())
	case "]":
		m.palette = (m.palette + 1) % len(editor.ElementTypes)
		m.status = "Palette : " + narration.ElementName(m.PaletteType())
	case "a":
		if m.ed.IsPreview() {
			m.status = "Ajout impossible en mode aperçu"
			break
		}
		m.ed.DropNewElement(m.PaletteType(), editor.DropPoint{ClientX: 100, ClientY: 100})
		m.status = narration.ElementName(m.PaletteType()) + " ajouté"
	case "delete", "backspace":
		if m.ed.HandleKey(editor.KeyEvent{Key: keyName(msg)}) {
			m.status = "Élément supprimé"
		}
	case "e":
		m.startEditing()
	case "p":
		m.ed.TogglePreview()
	case "s":
		m.save()
	case "y":
		if err := export.CopyJSON(m.ed); err != nil {
			m.fail(err)
		} else {
			m.status = "JSON copié dans le presse-papiers"
		}
	case "n":
		if m.opts.Announcer != nil {
			m.opts.Announcer.Toggle()
		}
	}
	return m, nil
}

// cycle 按文档顺序选择下一个/上一个元素。
func (m *Model) cycle(delta int) {
	els := m.ed.Elements()
	if len(els) == 0 {
		return
	}
	cur := m.ed.Selection().ElementID
	next := 0
	if delta < 0 {
		next = len(els) - 1
	}
	for i, el := range els {
		if el.ID == cur {
			next = (i + delta + len(els)) % len(els)
			break
		}
	}
	m.ed.Select(els[next].ID)
}

func (m *Model) startEditing() {
	if m.ed.IsPreview() {
		return
	}
	if child, ok := m.ed.SelectedChild(); ok {
		m.draft = child.Content
	} else if el, ok := m.ed.SelectedElement(); ok {
		m.draft = el.Content
	} else {
		m.status = "Aucun élément sélectionné"
		return
	}
	m.editing = true
}

func (m *Model) save() {
	name := export.DefaultName(m.ed.Now())
	var (
		path string
		err  error
	)
	if m.opts.Exporter != nil {
		path, err = m.opts.Exporter.Save(m.ed, "json", name)
	} else {
		path, err = export.WriteJSON(m.opts.OutDir, name, m.ed)
	}
	if err != nil {
		m.fail(err)
		return
	}
	m.status = "Exporté : " + path
	if m.opts.Announcer != nil {
		m.opts.Announcer.Announce("Export JSON terminé")
	}
}

func (m *Model) fail(err error) {
	m.status = fmt.Sprintf("Erreur : %v", err)
	if m.opts.Announcer != nil {
		m.opts.Announcer.AnnounceError(err.Error())
	}
}

// keyName 将终端按键映射为浏览器的 key 名称。
func keyName(msg tea.KeyMsg) string {
	if strings.EqualFold(msg.String(), "delete") {
		return "Delete"
	}
	return "Backspace"
}
