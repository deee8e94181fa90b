package editor

import (
	"fmt"
	"strings"
)

// Update 是对元素（或表单子项）的部分更新。nil 字段保持不变；
// Style 与 Attributes 逐键合并，其余字段整体替换。
// 切片字段以 nil 表示"不修改"，非 nil 的空切片表示清空。
type Update struct {
	Content       *string        `json:"content,omitempty"`
	X             *float64       `json:"x,omitempty"`
	Y             *float64       `json:"y,omitempty"`
	Description   *string        `json:"description,omitempty"`
	Options       []string       `json:"options,omitempty"`
	Coordinates   *LatLng        `json:"coordinates,omitempty"`
	Markers       []MapMarker    `json:"markers,omitempty"`
	Slides        []Slide        `json:"slides,omitempty"`
	CarouselItems []CarouselItem `json:"carouselItems,omitempty"`
	Style         *Style         `json:"style,omitempty"`
	Attributes    *Attributes    `json:"attributes,omitempty"`
}

// Change records one property touched by an update.
type Change struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// String / Float are helpers for building Update literals.
func String(s string) *string   { return &s }
func Float(f float64) *float64  { return &f }
func StylePatch(s Style) *Style { return &s }

// apply 将 u 合并进 n，返回被修改的属性列表。
func (u Update) apply(n *Node) []Change {
	var changes []Change
	if u.Content != nil {
		n.Content = *u.Content
		changes = append(changes, Change{"content", *u.Content})
	}
	if u.X != nil {
		n.X = *u.X
		changes = append(changes, Change{"x", formatNumber(*u.X)})
	}
	if u.Y != nil {
		n.Y = *u.Y
		changes = append(changes, Change{"y", formatNumber(*u.Y)})
	}
	if u.Description != nil {
		n.Description = *u.Description
		changes = append(changes, Change{"description", *u.Description})
	}
	if u.Options != nil {
		n.Options = cloneSlice(u.Options)
		changes = append(changes, Change{"options", strings.Join(u.Options, ", ")})
	}
	if u.Coordinates != nil {
		c := *u.Coordinates
		n.Coordinates = &c
		changes = append(changes, Change{"coordinates", fmt.Sprintf("%g, %g", c.Lat, c.Lng)})
	}
	if u.Markers != nil {
		n.Markers = cloneSlice(u.Markers)
		changes = append(changes, Change{"markers", fmt.Sprint(len(u.Markers))})
	}
	if u.Slides != nil {
		n.Slides = cloneSlice(u.Slides)
		changes = append(changes, Change{"slides", fmt.Sprint(len(u.Slides))})
	}
	if u.CarouselItems != nil {
		n.CarouselItems = cloneSlice(u.CarouselItems)
		changes = append(changes, Change{"carouselItems", fmt.Sprint(len(u.CarouselItems))})
	}
	if u.Style != nil {
		n.Style = n.Style.Merge(*u.Style)
		for _, kv := range u.Style.Entries() {
			changes = append(changes, Change{kv[0], kv[1]})
		}
	}
	if u.Attributes != nil {
		n.Attributes = n.Attributes.Merge(*u.Attributes)
		if u.Attributes.HTMLID != "" {
			changes = append(changes, Change{"htmlId", u.Attributes.HTMLID})
		}
		if u.Attributes.ClassName != "" {
			changes = append(changes, Change{"className", u.Attributes.ClassName})
		}
	}
	return changes
}

// Document 持有顶层元素的有序列表与画布设置。
// 所有变更都是同步的；找不到目标 id 时静默忽略。
type Document struct {
	elements []Element
	canvas   CanvasSettings
}

// NewDocument returns an empty document on the fixed-size canvas.
func NewDocument() *Document {
	return &Document{
		canvas: CanvasSettings{
			BackgroundColor: DefaultBackgroundColor,
			Width:           CanvasWidth,
			Height:          CanvasHeight,
		},
	}
}

// Elements returns deep copies of the top-level elements in order.
func (d *Document) Elements() []Element {
	out := make([]Element, len(d.elements))
	for i, e := range d.elements {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of top-level elements.
func (d *Document) Len() int { return len(d.elements) }

// Element looks up a top-level element by id.
func (d *Document) Element(id string) (Element, bool) {
	if i := d.index(id); i >= 0 {
		return d.elements[i].clone(), true
	}
	return Element{}, false
}

// FormChild looks up one child of one form.
func (d *Document) FormChild(formID, childID string) (Node, bool) {
	i := d.index(formID)
	if i < 0 {
		return Node{}, false
	}
	if j := childIndex(d.elements[i].Children, childID); j >= 0 {
		return d.elements[i].Children[j].clone(), true
	}
	return Node{}, false
}

// ParentOf returns the id of the form containing childID.
func (d *Document) ParentOf(childID string) (string, bool) {
	for _, e := range d.elements {
		if childIndex(e.Children, childID) >= 0 {
			return e.ID, true
		}
	}
	return "", false
}

// Contains reports whether id names an element or any form child.
func (d *Document) Contains(id string) bool {
	if d.index(id) >= 0 {
		return true
	}
	_, ok := d.ParentOf(id)
	return ok
}

// Header returns the first header element, which defines the dynamic protected zone.
func (d *Document) Header() (Element, bool) {
	for _, e := range d.elements {
		if e.Type == TypeHeader {
			return e.clone(), true
		}
	}
	return Element{}, false
}

// Canvas returns the canvas settings.
func (d *Document) Canvas() CanvasSettings { return d.canvas }

func (d *Document) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range d.elements {
		if d.elements[i].ID == id {
			return i
		}
	}
	return -1
}

func childIndex(children []Node, id string) int {
	if id == "" {
		return -1
	}
	for i := range children {
		if children[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Document) insert(e Element) {
	d.elements = append(d.elements, e.clone())
}

func (d *Document) update(id string, u Update) (Element, []Change, bool) {
	i := d.index(id)
	if i < 0 {
		return Element{}, nil, false
	}
	changes := u.apply(&d.elements[i].Node)
	return d.elements[i].clone(), changes, true
}

func (d *Document) setPosition(id string, x, y float64) (Element, bool) {
	i := d.index(id)
	if i < 0 {
		return Element{}, false
	}
	d.elements[i].X = x
	d.elements[i].Y = y
	return d.elements[i].clone(), true
}

// remove 删除元素；表单的子项随之一起消失。
func (d *Document) remove(id string) (Element, bool) {
	i := d.index(id)
	if i < 0 {
		return Element{}, false
	}
	removed := d.elements[i]
	d.elements = append(d.elements[:i:i], d.elements[i+1:]...)
	return removed, true
}

func (d *Document) addChild(formID string, child Node) (Element, bool) {
	i := d.index(formID)
	if i < 0 {
		return Element{}, false
	}
	d.elements[i].Children = append(cloneSlice(d.elements[i].Children), child.clone())
	return d.elements[i].clone(), true
}

func (d *Document) removeChild(formID, childID string) (Node, bool) {
	i := d.index(formID)
	if i < 0 {
		return Node{}, false
	}
	children := d.elements[i].Children
	j := childIndex(children, childID)
	if j < 0 {
		return Node{}, false
	}
	removed := children[j]
	d.elements[i].Children = append(children[:j:j], children[j+1:]...)
	return removed, true
}

func (d *Document) updateChild(formID, childID string, u Update) (Node, []Change, bool) {
	i := d.index(formID)
	if i < 0 {
		return Node{}, nil, false
	}
	j := childIndex(d.elements[i].Children, childID)
	if j < 0 {
		return Node{}, nil, false
	}
	changes := u.apply(&d.elements[i].Children[j])
	return d.elements[i].Children[j].clone(), changes, true
}

func (d *Document) setBackground(color string) {
	d.canvas.BackgroundColor = color
}
