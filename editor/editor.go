package editor

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Mode 是画布的两种状态：编辑与预览。
type Mode int

const (
	ModeEdit Mode = iota
	ModePreview
)

func (m Mode) String() string {
	if m == ModePreview {
		return "preview"
	}
	return "edit"
}

// Editor owns one editing session: the document, the selection, the mode and the
// collaborators injected at construction. It is not safe for concurrent use; callers
// that share it across goroutines must serialize access.
type Editor struct {
	doc      *Document
	sel      Selection
	mode     Mode
	notifier Notifier
	now      func() time.Time
	newID    func() string
	revision uint64
	empty    bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithIDGenerator replaces the uuid generator, mainly for deterministic tests.
func WithIDGenerator(gen func() string) Option {
	return func(e *Editor) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// WithClock sets the clock used for calendar defaults and export timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithNotifier sets the receiver of mutation events.
func WithNotifier(n Notifier) Option {
	return func(e *Editor) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithEmptyDocument starts without the default header and footer.
func WithEmptyDocument() Option {
	return func(e *Editor) { e.empty = true }
}

// New 创建编辑器。默认文档包含一个页眉与一个页脚。
func New(opts ...Option) *Editor {
	e := &Editor{
		doc:      NewDocument(),
		notifier: nopNotifier{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.empty {
		e.seedDefaultDocument()
	}
	return e
}

func (e *Editor) seedDefaultDocument() {
	ctx := e.defaultsContext()

	header := newElement(TypeHeader, 0, 0, ctx)
	header.Content = "Mon Super Site"
	header.Attributes = Attributes{HTMLID: "main-header", ClassName: "header-fixed"}
	e.doc.insert(header)

	footer := newElement(TypeFooter, 0, CanvasHeight-60, ctx)
	footer.Content = "© 2025 - Tous droits réservés"
	footer.Attributes = Attributes{HTMLID: "main-footer"}
	e.doc.insert(footer)
}

func (e *Editor) defaultsContext() defaultsContext {
	return defaultsContext{newID: e.newID, today: e.now().UTC().Format("2006-01-02")}
}

func (e *Editor) commit(ev Event) {
	e.revision++
	ev.Preview = e.mode == ModePreview
	e.notifier.Notify(ev)
}

// Document exposes read access to the document model.
func (e *Editor) Document() *Document { return e.doc }

// Elements returns deep copies of the top-level elements.
func (e *Editor) Elements() []Element { return e.doc.Elements() }

// Element looks up a top-level element.
func (e *Editor) Element(id string) (Element, bool) { return e.doc.Element(id) }

// Canvas returns the canvas settings.
func (e *Editor) Canvas() CanvasSettings { return e.doc.Canvas() }

// Selection returns the current selection.
func (e *Editor) Selection() Selection { return e.sel }

// Mode returns the current mode.
func (e *Editor) Mode() Mode { return e.mode }

// IsPreview reports whether the canvas is in preview mode.
func (e *Editor) IsPreview() bool { return e.mode == ModePreview }

// Revision increases by one for every committed mutation.
func (e *Editor) Revision() uint64 { return e.revision }

// Now returns the editor clock's current time.
func (e *Editor) Now() time.Time { return e.now() }

// AddElement 创建带默认值的新元素并选中它，返回新 id。
func (e *Editor) AddElement(t ElementType, x, y float64) string {
	el := newElement(t, x, y, e.defaultsContext())
	e.doc.insert(el)
	e.commit(Event{Kind: EventElementAdded, ElementID: el.ID, Type: t, X: x, Y: y})
	if e.mode == ModeEdit {
		e.sel = Selection{ElementID: el.ID}
	}
	return el.ID
}

// UpdateElement merges u into the element; unknown ids are ignored.
func (e *Editor) UpdateElement(id string, u Update) {
	el, changes, ok := e.doc.update(id, u)
	if !ok {
		return
	}
	e.commit(Event{Kind: EventElementUpdated, ElementID: id, Type: el.Type, X: el.X, Y: el.Y, Changes: changes})
}

// RemoveElement 删除元素及其子项；若删除的是当前选中项则清空选择。
func (e *Editor) RemoveElement(id string) {
	removed, ok := e.doc.remove(id)
	if !ok {
		return
	}
	if e.sel.ElementID == id {
		e.sel = Selection{}
	}
	e.commit(Event{Kind: EventElementRemoved, ElementID: id, Type: removed.Type, X: removed.X, Y: removed.Y})
}

// UpdatePosition moves an element without passing through the protected-zone check.
func (e *Editor) UpdatePosition(id string, x, y float64) {
	el, ok := e.doc.setPosition(id, x, y)
	if !ok {
		return
	}
	e.commit(Event{Kind: EventElementMoved, ElementID: id, Type: el.Type, X: x, Y: y})
}

// NewFormChild builds a detached form field with a fresh id and type defaults.
func (e *Editor) NewFormChild(t ElementType) Node {
	ctx := e.defaultsContext()
	switch t {
	case TypeInputNumber:
		return newFormField(t, "0", ctx)
	case TypeCalendar:
		return newFormField(t, ctx.today, ctx)
	default:
		return newFormField(t, "", ctx)
	}
}

// AddChildToForm appends child to the element named formID, whatever its type.
func (e *Editor) AddChildToForm(formID string, child Node) {
	// 文档内（含子项）id 必须唯一，重复的 id 换成新的
	if child.ID == "" || e.doc.Contains(child.ID) {
		child.ID = e.newID()
	}
	if _, ok := e.doc.addChild(formID, child); !ok {
		return
	}
	e.commit(Event{Kind: EventFormChildAdded, ElementID: formID, ChildID: child.ID, Type: child.Type})
}

// RemoveChildFromForm removes one child from one form.
func (e *Editor) RemoveChildFromForm(formID, childID string) {
	removed, ok := e.doc.removeChild(formID, childID)
	if !ok {
		return
	}
	if e.sel.ChildID == childID {
		e.sel.ChildID = ""
	}
	e.commit(Event{Kind: EventFormChildRemoved, ElementID: formID, ChildID: childID, Type: removed.Type})
}

// UpdateFormChild merges u into one child of one form.
func (e *Editor) UpdateFormChild(formID, childID string, u Update) {
	child, changes, ok := e.doc.updateChild(formID, childID, u)
	if !ok {
		return
	}
	e.commit(Event{Kind: EventFormChildUpdated, ElementID: formID, ChildID: childID, Type: child.Type, Changes: changes})
}

// SetCanvasBackgroundColor replaces the canvas background colour.
func (e *Editor) SetCanvasBackgroundColor(color string) {
	e.doc.setBackground(color)
	e.commit(Event{Kind: EventCanvasChanged, Changes: []Change{{Property: "backgroundColor", Value: color}}})
}

// AddOption 在下拉菜单末尾追加 "Option N"。
func (e *Editor) AddOption(id string) {
	el, ok := e.doc.Element(id)
	if !ok {
		return
	}
	opts := append(cloneSlice(el.Options), "Option "+strconv.Itoa(len(el.Options)+1))
	if _, _, ok := e.doc.update(id, Update{Options: opts}); !ok {
		return
	}
	e.commit(Event{Kind: EventOptionAdded, ElementID: id, Type: el.Type, Changes: []Change{{Property: "options", Value: opts[len(opts)-1]}}})
}

// RemoveOption removes the option at index; out-of-range indexes are ignored.
func (e *Editor) RemoveOption(id string, index int) {
	el, ok := e.doc.Element(id)
	if !ok || index < 0 || index >= len(el.Options) {
		return
	}
	opts := make([]string, 0, len(el.Options)-1)
	opts = append(opts, el.Options[:index]...)
	opts = append(opts, el.Options[index+1:]...)
	e.doc.update(id, Update{Options: opts})
	e.commit(Event{Kind: EventOptionRemoved, ElementID: id, Type: el.Type, Changes: []Change{{Property: "options", Value: el.Options[index]}}})
}

// AddSlide appends a placeholder slide to a carousel.
func (e *Editor) AddSlide(id string) {
	el, ok := e.doc.Element(id)
	if !ok {
		return
	}
	n := len(el.Slides) + 1
	slides := append(cloneSlice(el.Slides), Slide{
		Title:       fmt.Sprintf("Slide %d", n),
		Description: fmt.Sprintf("Description %d", n),
		ImageURL:    "https://via.placeholder.com/600x300",
	})
	e.UpdateElement(id, Update{Slides: slides})
}

// RemoveSlide 删除一页并把当前页重置为第一页。
func (e *Editor) RemoveSlide(id string, index int) {
	el, ok := e.doc.Element(id)
	if !ok || index < 0 || index >= len(el.Slides) {
		return
	}
	slides := make([]Slide, 0, len(el.Slides)-1)
	slides = append(slides, el.Slides[:index]...)
	slides = append(slides, el.Slides[index+1:]...)
	e.UpdateElement(id, Update{Slides: slides, Content: String("0")})
}

// TogglePreview flips between edit and preview; both directions clear the selection.
func (e *Editor) TogglePreview() {
	if e.mode == ModePreview {
		e.mode = ModeEdit
	} else {
		e.mode = ModePreview
	}
	e.sel = Selection{}
	e.commit(Event{Kind: EventModeChanged})
}

// SetMode switches to m when it differs from the current mode.
func (e *Editor) SetMode(m Mode) {
	if e.mode != m {
		e.TogglePreview()
	}
}

// KeyEvent is a keystroke delivered to the canvas.
type KeyEvent struct {
	Key string
	// EditableFocus 为真表示焦点位于文本输入框或 textarea 中。
	EditableFocus bool
}

// HandleKey 处理删除快捷键，返回是否消费了该按键。
func (e *Editor) HandleKey(k KeyEvent) bool {
	if k.Key != "Delete" && k.Key != "Backspace" {
		return false
	}
	if e.mode != ModeEdit || k.EditableFocus || e.sel.ElementID == "" {
		return false
	}
	e.RemoveElement(e.sel.ElementID)
	return true
}
