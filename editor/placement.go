package editor

import "strings"

// 放置与碰撞：把指针几何换算为元素坐标，并避开受保护区域（logo 与页眉）。

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Overlaps reports strict AABB overlap; touching edges do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && r.Right() > o.X && r.Y < o.Bottom() && r.Bottom() > o.Y
}

// Contains reports whether the point lies inside r (edges included).
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

const (
	// ProtectedMargin separates a pushed element from the zone above it.
	ProtectedMargin     = 10.0
	// DefaultElementSize is used when an element's width or height is unknown.
	DefaultElementSize  = 100.0
	defaultHeaderWidth  = 800.0
	defaultHeaderHeight = 80.0
)

// LogoZone is the static rectangle reserved for the non-editable logo.
var LogoZone = Rect{X: 0, Y: 0, Width: 120, Height: 100}

// HeaderZone returns the rectangle of the current header element, if any.
func (d *Document) HeaderZone() (Rect, bool) {
	h, ok := d.Header()
	if !ok {
		return Rect{}, false
	}
	return Rect{
		X:      h.X,
		Y:      h.Y,
		Width:  ParsePixels(h.Style.Width, defaultHeaderWidth),
		Height: ParsePixels(h.Style.Height, defaultHeaderHeight),
	}, true
}

// AdjustPositionIfInProtectedZone 若候选矩形与 logo 或页眉重叠，则把 y 推到页眉
// （没有页眉时为 logo）下方 10px，x 保持不变。宽高 <= 0 时按 100 处理。
func (d *Document) AdjustPositionIfInProtectedZone(x, y, width, height float64) (float64, float64) {
	if width <= 0 {
		width = DefaultElementSize
	}
	if height <= 0 {
		height = DefaultElementSize
	}
	candidate := Rect{X: x, Y: y, Width: width, Height: height}
	header, hasHeader := d.HeaderZone()

	collides := candidate.Overlaps(LogoZone) || (hasHeader && candidate.Overlaps(header))
	if !collides {
		return x, y
	}
	if hasHeader {
		return x, header.Bottom() + ProtectedMargin
	}
	return x, LogoZone.Bottom() + ProtectedMargin
}

// AdjustPositionIfInProtectedZone runs the protected-zone check against the current document.
func (e *Editor) AdjustPositionIfInProtectedZone(x, y, width, height float64) (float64, float64) {
	return e.doc.AdjustPositionIfInProtectedZone(x, y, width, height)
}

// elementSize 从样式中解析宽高，无法解析时使用 100px。
func elementSize(n Node) (float64, float64) {
	return ParsePixels(n.Style.Width, DefaultElementSize), ParsePixels(n.Style.Height, DefaultElementSize)
}

// Bounds returns the element's rectangle as the placement engine sees it.
func (n Node) Bounds() Rect {
	w, h := elementSize(n)
	return Rect{X: n.X, Y: n.Y, Width: w, Height: h}
}

// DropPoint is a pointer position in viewport coordinates together with the canvas
// surface's bounding rectangle in the same coordinates.
type DropPoint struct {
	ClientX float64 `json:"clientX"`
	ClientY float64 `json:"clientY"`
	Surface Rect    `json:"surface"`
}

// Local translates the pointer into canvas-local pixels.
func (p DropPoint) Local() (float64, float64) {
	return p.ClientX - p.Surface.X, p.ClientY - p.Surface.Y
}

// DropNewElement 将调色板中的新元素放到画布上，先经过保护区调整再创建。
func (e *Editor) DropNewElement(t ElementType, p DropPoint) string {
	x, y := p.Local()
	x, y = e.doc.AdjustPositionIfInProtectedZone(x, y, DefaultElementSize, DefaultElementSize)
	return e.AddElement(t, x, y)
}

// MoveElementBy applies a pointer delta to an element's pre-drag position.
func (e *Editor) MoveElementBy(id string, dx, dy float64) {
	el, ok := e.doc.Element(id)
	if !ok {
		return
	}
	w, h := elementSize(el.Node)
	x, y := e.doc.AdjustPositionIfInProtectedZone(el.X+dx, el.Y+dy, w, h)
	e.UpdatePosition(id, x, y)
}

// DragSource tells where a drag started.
type DragSource int

const (
	DragFromPalette DragSource = iota
	DragFromCanvas
)

// DragEnd is what the drag-sensing layer reports when a drag finishes.
type DragEnd struct {
	Source DragSource
	// Type is set for palette drags, ElementID for canvas drags.
	Type      ElementType
	ElementID string
	// OverCanvas 表示指针是否落在有效的放置目标上。
	OverCanvas bool
	Point      DropPoint
	DX, DY     float64
}

// HandleDragEnd commits a finished drag. Drops outside the canvas and drags in
// preview mode are ignored. It returns the id of the created or moved element.
func (e *Editor) HandleDragEnd(d DragEnd) string {
	if !d.OverCanvas || e.mode == ModePreview {
		return ""
	}
	switch d.Source {
	case DragFromPalette:
		if _, ok := profiles[d.Type]; !ok {
			return ""
		}
		return e.DropNewElement(d.Type, d.Point)
	case DragFromCanvas:
		if _, ok := e.doc.Element(d.ElementID); !ok {
			return ""
		}
		e.MoveElementBy(d.ElementID, d.DX, d.DY)
		return d.ElementID
	}
	return ""
}

// Handle is a resize handle direction.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// ParseHandle validates a handle name.
func ParseHandle(s string) (Handle, bool) {
	switch h := Handle(strings.ToLower(strings.TrimSpace(s))); h {
	case HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW:
		return h, true
	}
	return "", false
}

// Resize bounds in pixels, applied to width and height independently.
const (
	MinElementSize = 40.0
	MaxElementSize = 1000.0
)

// Box is the geometry a resize works on.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func clampSize(v float64) float64 {
	if v < MinElementSize {
		return MinElementSize
	}
	if v > MaxElementSize {
		return MaxElementSize
	}
	return v
}

// Resize 计算拖动手柄后的几何。宽高分别夹在 [40, 1000]；含 w/n 的方向
// 根据夹取后的尺寸移动 x/y，使对边保持不动。位置本身不做夹取。
func Resize(start Box, h Handle, dx, dy float64) Box {
	out := start
	s := string(h)
	if strings.Contains(s, "e") {
		out.Width = clampSize(start.Width + dx)
	}
	if strings.Contains(s, "w") {
		out.Width = clampSize(start.Width - dx)
		out.X = start.X + (start.Width - out.Width)
	}
	if strings.Contains(s, "s") {
		out.Height = clampSize(start.Height + dy)
	}
	if strings.Contains(s, "n") {
		out.Height = clampSize(start.Height - dy)
		out.Y = start.Y + (start.Height - out.Height)
	}
	return out
}

// BoxOf returns the resize geometry of a node (unknown sizes default to 100).
func BoxOf(n Node) Box {
	w, h := elementSize(n)
	return Box{X: n.X, Y: n.Y, Width: w, Height: h}
}

// ResizeElement resizes an element from its current geometry and commits the result.
func (e *Editor) ResizeElement(id string, h Handle, dx, dy float64) {
	el, ok := e.doc.Element(id)
	if !ok {
		return
	}
	e.commitBox(id, BoxOf(el.Node), Resize(BoxOf(el.Node), h, dx, dy))
}

func (e *Editor) commitBox(id string, start, box Box) {
	u := Update{Style: &Style{Width: FormatPixels(box.Width), Height: FormatPixels(box.Height)}}
	if box.X != start.X {
		u.X = Float(box.X)
	}
	if box.Y != start.Y {
		u.Y = Float(box.Y)
	}
	e.UpdateElement(id, u)
}

// CenterElement 将元素居中于画布；元素大于画布时坐标夹到 0。
func (e *Editor) CenterElement(id string) {
	el, ok := e.doc.Element(id)
	if !ok {
		return
	}
	w, h := elementSize(el.Node)
	canvas := e.doc.Canvas()
	x := max((canvas.Width-w)/2, 0)
	y := max((canvas.Height-h)/2, 0)
	e.UpdatePosition(id, x, y)
}
