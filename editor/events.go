package editor

import "strconv"

// EventKind identifies the mutation an Event reports.
type EventKind int

const (
	EventElementAdded EventKind = iota
	EventElementUpdated
	EventElementMoved
	EventElementRemoved
	EventSelected
	EventFormChildAdded
	EventFormChildRemoved
	EventFormChildUpdated
	EventModeChanged
	EventCanvasChanged
	EventOptionAdded
	EventOptionRemoved
)

var eventNames = map[EventKind]string{
	EventElementAdded:     "element-added",
	EventElementUpdated:   "element-updated",
	EventElementMoved:     "element-moved",
	EventElementRemoved:   "element-removed",
	EventSelected:         "selected",
	EventFormChildAdded:   "form-child-added",
	EventFormChildRemoved: "form-child-removed",
	EventFormChildUpdated: "form-child-updated",
	EventModeChanged:      "mode-changed",
	EventCanvasChanged:    "canvas-changed",
	EventOptionAdded:      "option-added",
	EventOptionRemoved:    "option-removed",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "event-" + strconv.Itoa(int(k))
}

// Event 是每次变更提交后发出的通知（例如供无障碍语音播报使用）。
type Event struct {
	Kind      EventKind
	ElementID string
	ChildID   string
	Type      ElementType
	X, Y      float64
	Changes   []Change
	Preview   bool
}

// Notifier receives events after the new state is committed.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(ev Event) { f(ev) }

// Notifiers fans an event out to several notifiers in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(ev Event) {
	for _, n := range ns {
		if n != nil {
			n.Notify(ev)
		}
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
