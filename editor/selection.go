package editor

// Selection 记录当前选中的顶层元素，以及（可选）其中一个表单子项。
// ChildID 非空时 ElementID 必定是该子项所属的表单。
type Selection struct {
	ElementID string `json:"selectedId,omitempty"`
	ChildID   string `json:"selectedChildId,omitempty"`
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool { return s.ElementID == "" }

// Select selects a top-level element and clears any child selection.
// An empty id deselects everything. Ignored in preview mode.
func (e *Editor) Select(id string) {
	if e.mode == ModePreview {
		return
	}
	e.sel = Selection{ElementID: id}
	ev := Event{Kind: EventSelected, ElementID: id}
	if el, ok := e.doc.Element(id); ok {
		ev.Type = el.Type
	}
	e.notifier.Notify(ev)
}

// SelectFormChild selects a field inside a form together with the form itself.
// A child that does not belong to parentID is dropped, keeping only the parent.
func (e *Editor) SelectFormChild(parentID, childID string) {
	if e.mode == ModePreview {
		return
	}
	if parentID == "" {
		e.Select("")
		return
	}
	sel := Selection{ElementID: parentID}
	ev := Event{Kind: EventSelected, ElementID: parentID}
	if child, ok := e.doc.FormChild(parentID, childID); ok {
		sel.ChildID = childID
		ev.ChildID = childID
		ev.Type = child.Type
	} else if el, ok := e.doc.Element(parentID); ok {
		ev.Type = el.Type
	}
	e.sel = sel
	e.notifier.Notify(ev)
}

// SelectedElement returns the selected top-level element, if it still exists.
func (e *Editor) SelectedElement() (Element, bool) {
	return e.doc.Element(e.sel.ElementID)
}

// SelectedChild returns the selected form child, if any.
func (e *Editor) SelectedChild() (Node, bool) {
	if e.sel.ChildID == "" {
		return Node{}, false
	}
	return e.doc.FormChild(e.sel.ElementID, e.sel.ChildID)
}
