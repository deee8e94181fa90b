package editor

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type recorder struct {
	events []Event
}

func (r *recorder) Notify(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestEditor(t *testing.T, opts ...Option) (*Editor, *recorder) {
	t.Helper()
	rec := &recorder{}
	base := []Option{
		WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return fixedNow }),
		WithNotifier(rec),
	}
	return New(append(base, opts...)...), rec
}

func collectIDs(els []Element) []string {
	var ids []string
	for _, e := range els {
		ids = append(ids, e.ID)
		for _, c := range e.Children {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func TestDefaultDocument(t *testing.T) {
	ed, _ := newTestEditor(t)
	els := ed.Elements()
	require.Len(t, els, 2)

	header := els[0]
	assert.Equal(t, TypeHeader, header.Type)
	assert.Equal(t, "Mon Super Site", header.Content)
	assert.Equal(t, 0.0, header.X)
	assert.Equal(t, 0.0, header.Y)
	assert.Equal(t, "800px", header.Style.Width)
	assert.Equal(t, "80px", header.Style.Height)
	assert.Equal(t, "main-header", header.Attributes.HTMLID)

	footer := els[1]
	assert.Equal(t, TypeFooter, footer.Type)
	assert.Equal(t, 940.0, footer.Y)
	assert.Equal(t, "60px", footer.Style.Height)

	assert.Equal(t, CanvasSettings{BackgroundColor: "#ffffff", Width: 800, Height: 1000}, ed.Canvas())
	assert.True(t, ed.Selection().IsEmpty())
	assert.Equal(t, ModeEdit, ed.Mode())
}

func TestEmptyDocument(t *testing.T) {
	ed, _ := newTestEditor(t, WithEmptyDocument())
	assert.Empty(t, ed.Elements())
	_, ok := ed.Document().Header()
	assert.False(t, ok)
}

func TestAddElementSelectsAndUsesDefaults(t *testing.T) {
	ed, rec := newTestEditor(t, WithEmptyDocument())

	id := ed.AddElement(TypeButton, 200, 300)
	el, ok := ed.Element(id)
	require.True(t, ok)
	assert.Equal(t, "Bouton", el.Content)
	assert.Equal(t, "#3498db", el.Style.BackgroundColor)
	assert.Equal(t, "Arial", el.Style.FontFamily)
	assert.Equal(t, Selection{ElementID: id}, ed.Selection())
	assert.Equal(t, []EventKind{EventElementAdded}, rec.kinds())

	cal, _ := ed.Element(ed.AddElement(TypeCalendar, 0, 200))
	assert.Equal(t, "2025-03-14", cal.Content)

	m, _ := ed.Element(ed.AddElement(TypeMap, 0, 400))
	require.NotNil(t, m.Coordinates)
	assert.Equal(t, LatLng{Lat: 48.8566, Lng: 2.3522}, *m.Coordinates)
	require.Len(t, m.Markers, 1)
	assert.NotEmpty(t, m.Markers[0].ID)
}

func TestAddFormHasChildrenWithFreshIDs(t *testing.T) {
	ed, _ := newTestEditor(t, WithEmptyDocument())
	form, _ := ed.Element(ed.AddElement(TypeInputForm, 100, 200))

	require.Len(t, form.Children, 3)
	assert.Equal(t, TypeInputEmail, form.Children[0].Type)
	assert.Equal(t, TypeInputNumber, form.Children[1].Type)
	assert.Equal(t, "0", form.Children[1].Content)
	assert.Equal(t, TypeCalendar, form.Children[2].Type)
	assert.Equal(t, "2025-03-14", form.Children[2].Content)
}

func TestIDsAreUnique(t *testing.T) {
	ed := New(WithClock(func() time.Time { return fixedNow }))
	var formID string
	for i, typ := range ElementTypes {
		id := ed.AddElement(typ, float64(i*10), 200)
		if typ == TypeInputForm {
			formID = id
		}
	}
	for i := 0; i < 5; i++ {
		ed.AddChildToForm(formID, ed.NewFormChild(TypeInputText))
	}
	ed.AddChildToForm(formID, Node{Type: TypeInputEmail})

	ids := collectIDs(ed.Elements())
	seen := map[string]bool{}
	for _, id := range ids {
		require.NotEmpty(t, id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestUpdateElementMergesStyle(t *testing.T) {
	ed, rec := newTestEditor(t, WithEmptyDocument())
	id := ed.AddElement(TypeButton, 200, 300)

	ed.UpdateElement(id, Update{Style: StylePatch(Style{Color: "#fff"})})

	el, _ := ed.Element(id)
	assert.Equal(t, "#fff", el.Style.Color)
	assert.Equal(t, "#3498db", el.Style.BackgroundColor)
	assert.Equal(t, "4px", el.Style.BorderRadius)
	assert.Equal(t, "10px 20px", el.Style.Padding)
	assert.Equal(t, "Arial", el.Style.FontFamily)

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, EventElementUpdated, last.Kind)
	assert.Equal(t, []Change{{Property: "color", Value: "#fff"}}, last.Changes)
}

func TestUpdateElementExtraStyleKeys(t *testing.T) {
	ed, _ := newTestEditor(t, WithEmptyDocument())
	id := ed.AddElement(TypeText, 200, 300)

	ed.UpdateElement(id, Update{Style: StylePatch(Style{}.Set("letterSpacing", "2px"))})
	ed.UpdateElement(id, Update{Style: StylePatch(Style{}.Set("opacity", "0.5"))})

	el, _ := ed.Element(id)
	assert.Equal(t, "2px", el.Style.Get("letterSpacing"))
	assert.Equal(t, "0.5", el.Style.Get("opacity"))
	assert.Equal(t, "#000000", el.Style.Color)
}

func TestUpdateSelectOptions(t *testing.T) {
	ed, _ := newTestEditor(t, WithEmptyDocument())
	id := ed.AddElement(TypeSelect, 200, 300)
	before, _ := ed.Element(id)

	ed.UpdateElement(id, Update{Options: append(before.Options, "Option 4")})

	after, _ := ed.Element(id)
	assert.Equal(t, []string{"Option 1", "Option 2", "Option 3", "Option 4"}, after.Options)
	assert.Equal(t, before.Content, after.Content)
	assert.Equal(t, before.Style, after.Style)
	assert.Equal(t, before.X, after.X)
}

func TestUpdateDoesNotAliasDefaults(t *testing.T) {
	ed, _ := newTestEditor(t, WithEmptyDocument())
	a := ed.AddElement(TypeSelect, 200, 300)
	b := ed.AddElement(TypeSelect, 400, 300)

	ed.UpdateElement(a, Update{Options: []string{"Seul"}})
	ed.AddOption(a)

	other, _ := ed.Element(b)
	assert.Equal(t, []string{"Option 1", "Option 2", "Option 3"}, other.Options)
	fresh, _ := ed.Element(ed.AddElement(TypeSelect, 0, 500))
	assert.Equal(t, []string{"Option 1", "Option 2", "Option 3"}, fresh.Options)

	got, _ := ed.Element(a)
	got.Options[0] = "mutated"
	again, _ := ed.Element(a)
	assert.Equal(t, []string{"Seul", "Option 2"}, again.Options)
}

func TestUnknownIDsAreSilentNoOps(t *testing.T) {
	ed, rec := newTestEditor(t)
	before := ed.Elements()
	rev := ed.Revision()

	assert.NotPanics(t, func() {
		ed.UpdateElement("missing", Update{Content: String("x")})
		ed.RemoveElement("missing")
		ed.UpdatePosition("missing", 10, 10)
		ed.AddChildToForm("missing", Node{ID: "c", Type: TypeInputText})
		ed.RemoveChildFromForm("missing", "c")
		ed.UpdateFormChild("missing", "c", Update{Content: String("x")})
		ed.MoveElementBy("missing", 5, 5)
		ed.ResizeElement("missing", HandleSE, 5, 5)
		ed.CenterElement("missing")
		ed.AddOption("missing")
		ed.RemoveOption("missing", 0)
		ed.AddSlide("missing")
		ed.RemoveSlide("missing", 0)
	})

	assert.Equal(t, before, ed.Elements())
	assert.Equal(t, rev, ed.Revision())
	assert.Empty(t, rec.events)
}

func TestAddChildToFormIsPermissive(t *testing.T) {
	ed, _ := newTestEditor(t, WithEmptyDocument())
	textID := ed.AddElement(TypeText, 200, 300)

	ed.AddChildToForm(textID, Node{ID: "stray", Type: TypeInputText})

	el, _ := ed.Element(textID)
	require.Len(t, el.Children, 1)
	assert.Equal(t, "stray", el.Children[0].ID)
}

func TestFormChildLifecycle(t *testing.T) {
	ed, rec := newTestEditor(t, WithEmptyDocument())
	formID := ed.AddElement(TypeInputForm, 100, 200)
	child := ed.NewFormChild(TypeInputText)

	ed.AddChildToForm(formID, child)
	ed.UpdateFormChild(formID, child.ID, Update{Description: String("Votre nom"), Style: StylePatch(Style{Color: "red"})})

	got, ok := ed.Document().FormChild(formID, child.ID)
	require.True(t, ok)
	assert.Equal(t, "Votre nom", got.Description)
	assert.Equal(t, "red", got.Style.Color)
	assert.Equal(t, "Arial", got.Style.FontFamily)

	ed.RemoveChildFromForm(formID, child.ID)
	_, ok = ed.Document().FormChild(formID, child.ID)
	assert.False(t, ok)

	assert.Equal(t, []EventKind{EventElementAdded, EventFormChildAdded, EventFormChildUpdated, EventFormChildRemoved}, rec.kinds())
}

func TestRemoveFormCascades(t *testing.T) {
	ed, _ := newTestEditor(t)
	formID := ed.AddElement(TypeInputForm, 100, 200)
	childA := Node{ID: "child-a", Type: TypeInputText}
	ed.AddChildToForm(formID, childA)
	ed.SelectFormChild(formID, childA.ID)

	ed.RemoveElement(formID)

	_, ok := ed.Element(formID)
	assert.False(t, ok)
	assert.False(t, ed.Document().Contains(childA.ID))
	_, ok = ed.Document().ParentOf(childA.ID)
	assert.False(t, ok)
	assert.NotContains(t, collectIDs(ed.Elements()), childA.ID)
	assert.True(t, ed.Selection().IsEmpty())
}

func TestRemoveOtherElementKeepsSelection(t *testing.T) {
	ed, _ := newTestEditor(t, WithEmptyDocument())
	a := ed.AddElement(TypeText, 200, 300)
	b := ed.AddElement(TypeText, 200, 500)

	ed.RemoveElement(a)

	assert.Equal(t, Selection{ElementID: b}, ed.Selection())
}

func TestUpdatePositionEmitsMoved(t *testing.T) {
	ed, rec := newTestEditor(t, WithEmptyDocument())
	id := ed.AddElement(TypeImage, 200, 300)

	ed.UpdatePosition(id, 10, 20)

	el, _ := ed.Element(id)
	assert.Equal(t, 10.0, el.X)
	assert.Equal(t, 20.0, el.Y)
	last := rec.events[len(rec.events)-1]
	assert.Equal(t, EventElementMoved, last.Kind)
	assert.Equal(t, TypeImage, last.Type)
}

func TestCanvasBackground(t *testing.T) {
	ed, rec := newTestEditor(t)
	ed.SetCanvasBackgroundColor("#ecf0f1")

	assert.Equal(t, "#ecf0f1", ed.Canvas().BackgroundColor)
	assert.Equal(t, 800.0, ed.Canvas().Width)
	assert.Equal(t, []EventKind{EventCanvasChanged}, rec.kinds())
}

func TestOptionsAndSlidesHelpers(t *testing.T) {
	ed, _ := newTestEditor(t, WithEmptyDocument())
	sel := ed.AddElement(TypeSelect, 200, 300)
	ed.AddOption(sel)
	ed.RemoveOption(sel, 0)
	ed.RemoveOption(sel, 10)

	el, _ := ed.Element(sel)
	assert.Equal(t, []string{"Option 2", "Option 3", "Option 4"}, el.Options)

	car := ed.AddElement(TypeCarousel, 100, 400)
	ed.UpdateElement(car, Update{Content: String("2")})
	ed.AddSlide(car)
	ed.RemoveSlide(car, 0)

	c, _ := ed.Element(car)
	require.Len(t, c.Slides, 3)
	assert.Equal(t, "Slide 2", c.Slides[0].Title)
	assert.Equal(t, "Slide 4", c.Slides[2].Title)
	assert.Equal(t, "0", c.Content)
}

func TestTogglePreviewClearsSelection(t *testing.T) {
	ed, rec := newTestEditor(t)
	id := ed.AddElement(TypeText, 200, 300)
	require.Equal(t, id, ed.Selection().ElementID)

	ed.TogglePreview()
	assert.True(t, ed.IsPreview())
	assert.True(t, ed.Selection().IsEmpty())

	ed.Select(id)
	assert.True(t, ed.Selection().IsEmpty(), "selection is ignored in preview")

	ed.TogglePreview()
	assert.False(t, ed.IsPreview())
	last := rec.events[len(rec.events)-1]
	assert.Equal(t, EventModeChanged, last.Kind)
	assert.False(t, last.Preview)

	ed.SetMode(ModeEdit)
	assert.Equal(t, EventModeChanged, rec.events[len(rec.events)-1].Kind)
	assert.Equal(t, ModeEdit, ed.Mode())
}

func TestHandleKeyDelete(t *testing.T) {
	ed, _ := newTestEditor(t, WithEmptyDocument())
	id := ed.AddElement(TypeText, 200, 300)

	assert.False(t, ed.HandleKey(KeyEvent{Key: "Delete", EditableFocus: true}))
	assert.False(t, ed.HandleKey(KeyEvent{Key: "a"}))
	_, ok := ed.Element(id)
	assert.True(t, ok)

	assert.True(t, ed.HandleKey(KeyEvent{Key: "Backspace"}))
	_, ok = ed.Element(id)
	assert.False(t, ok)
	assert.True(t, ed.Selection().IsEmpty())
	assert.False(t, ed.HandleKey(KeyEvent{Key: "Delete"}), "nothing selected")
}

func TestHandleKeyIgnoredInPreview(t *testing.T) {
	ed, _ := newTestEditor(t, WithEmptyDocument())
	id := ed.AddElement(TypeText, 200, 300)
	ed.TogglePreview()
	ed.TogglePreview()
	ed.Select(id)
	ed.TogglePreview()

	assert.False(t, ed.HandleKey(KeyEvent{Key: "Delete"}))
	_, ok := ed.Element(id)
	assert.True(t, ok)
}

func TestRevisionCountsCommittedMutations(t *testing.T) {
	ed, _ := newTestEditor(t, WithEmptyDocument())
	assert.Equal(t, uint64(0), ed.Revision())
	id := ed.AddElement(TypeText, 200, 300)
	ed.UpdateElement(id, Update{Content: String("Bonjour")})
	ed.Select("")
	assert.Equal(t, uint64(2), ed.Revision())
}

func TestToolbarProfiles(t *testing.T) {
	sel := Toolbar(TypeSelect)
	assert.Equal(t, []string{"options"}, sel.CustomFields)
	assert.False(t, sel.ShowContent)

	txt := Toolbar(TypeText)
	assert.True(t, txt.ShowContent)
	assert.True(t, txt.ShowAlignment)

	assert.False(t, Toolbar(TypeInputEmail).ShowShadow)
	assert.Equal(t, txt, Toolbar(ElementType("inconnu")))

	// 返回值可以被调用方修改而不影响默认表
	sel.CustomFields[0] = "x"
	assert.Equal(t, []string{"options"}, Toolbar(TypeSelect).CustomFields)
}

func TestAddChildWithTakenIDGetsFreshOne(t *testing.T) {
	ed, _ := newTestEditor(t)
	header, _ := ed.Document().Header()
	formID := ed.AddElement(TypeInputForm, 100, 300)
	form, _ := ed.Element(formID)

	ed.AddChildToForm(formID, Node{ID: header.ID, Type: TypeInputText})
	ed.AddChildToForm(formID, Node{ID: form.Children[0].ID, Type: TypeInputText})

	seen := map[string]bool{}
	for _, id := range collectIDs(ed.Elements()) {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	form, _ = ed.Element(formID)
	assert.Len(t, form.Children, 5)
	_, isChild := ed.Document().ParentOf(header.ID)
	assert.False(t, isChild)
}

func TestAddElementInPreviewLeavesSelectionEmpty(t *testing.T) {
	ed, _ := newTestEditor(t)
	ed.TogglePreview()

	id := ed.AddElement(TypeText, 200, 300)

	_, ok := ed.Element(id)
	assert.True(t, ok)
	assert.True(t, ed.Selection().IsEmpty())
}
