package editor

import "sync"

// PointerEvent is one pointer sample in viewport pixels.
type PointerEvent struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ListenerRegistry is the drag-sensing layer: it installs global pointer-move and
// pointer-up listeners and returns the function that removes them.
type ListenerRegistry interface {
	Listen(onMove, onUp func(PointerEvent)) (release func())
}

type gestureKind int

const (
	gestureMove gestureKind = iota
	gestureResize
)

// Gesture 是一次拖动或缩放手势。监听器在开始时注册，
// 在 End 或 Abort 时（任何退出路径）恰好释放一次。
type Gesture struct {
	ed        *Editor
	kind      gestureKind
	elementID string
	handle    Handle
	origin    PointerEvent
	start     Box
	current   Box
	release   func()
	once      sync.Once
	done      bool
}

// BeginMove starts moving an existing element from the pointer position p.
func (e *Editor) BeginMove(id string, p PointerEvent, reg ListenerRegistry) *Gesture {
	return e.begin(gestureMove, id, "", p, reg)
}

// BeginResize starts resizing an element with the given handle.
func (e *Editor) BeginResize(id string, h Handle, p PointerEvent, reg ListenerRegistry) *Gesture {
	return e.begin(gestureResize, id, h, p, reg)
}

func (e *Editor) begin(kind gestureKind, id string, h Handle, p PointerEvent, reg ListenerRegistry) *Gesture {
	g := &Gesture{ed: e, kind: kind, elementID: id, handle: h, origin: p}
	if el, ok := e.doc.Element(id); ok {
		g.start = BoxOf(el.Node)
	} else {
		// 目标不存在时手势照常运行，结束时提交为空操作
		g.start = Box{Width: DefaultElementSize, Height: DefaultElementSize}
	}
	g.current = g.start
	if reg != nil {
		g.release = reg.Listen(g.Update, func(p PointerEvent) { g.End(p) })
	}
	return g
}

// Update recomputes the preview geometry from a pointer sample.
func (g *Gesture) Update(p PointerEvent) {
	if g.done {
		return
	}
	dx, dy := p.X-g.origin.X, p.Y-g.origin.Y
	switch g.kind {
	case gestureMove:
		g.current = g.start
		g.current.X += dx
		g.current.Y += dy
	case gestureResize:
		g.current = Resize(g.start, g.handle, dx, dy)
	}
}

// Preview returns the geometry computed from the last pointer sample.
func (g *Gesture) Preview() Box { return g.current }

// Active reports whether the gesture has not ended yet.
func (g *Gesture) Active() bool { return !g.done }

// End commits the geometry at pointer-up and releases the listeners.
func (g *Gesture) End(p PointerEvent) {
	if g.done {
		return
	}
	g.Update(p)
	g.finish()
}

// Abort ends the gesture without a final sample. There is no cancel: the last
// computed geometry is committed, exactly as on pointer-up.
func (g *Gesture) Abort() {
	if g.done {
		return
	}
	g.finish()
}

func (g *Gesture) finish() {
	defer g.releaseListeners()
	g.done = true
	switch g.kind {
	case gestureMove:
		g.ed.MoveElementBy(g.elementID, g.current.X-g.start.X, g.current.Y-g.start.Y)
	case gestureResize:
		g.ed.commitBox(g.elementID, g.start, g.current)
	}
}

func (g *Gesture) releaseListeners() {
	g.once.Do(func() {
		if g.release != nil {
			g.release()
		}
	})
}
