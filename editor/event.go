package editor

import (
	"golang.org/x/net/html"
)

type EventType string

const (
	EventClick EventType = "click"
)

// Event is a DOM event dispatched through a frame document.
type Event struct {
	Type   EventType
	Target *html.Node

	defaultPrevented   bool
	propagationStopped bool
}

func NewEvent(typ EventType, target *html.Node) *Event {
	return &Event{Type: typ, Target: target}
}

func (ev *Event) PreventDefault() {
	ev.defaultPrevented = true
}

func (ev *Event) DefaultPrevented() bool {
	return ev.defaultPrevented
}

func (ev *Event) StopPropagation() {
	ev.propagationStopped = true
}

func (ev *Event) PropagationStopped() bool {
	return ev.propagationStopped
}

type Handler func(ev *Event)

type ListenerID int

type listener struct {
	id      ListenerID
	typ     EventType
	capture bool
	owner   string
	handler Handler
}

// ListenerInfo describes an attached listener.
type ListenerInfo struct {
	ID      ListenerID
	Type    EventType
	Capture bool
	Owner   string
}

// AddEventListener attaches a handler to the frame document. Capturing
// handlers run before the event reaches its target, bubbling ones after.
func (f *Frame) AddEventListener(typ EventType, capture bool, owner string, h Handler) ListenerID {
	f.nextListenerID++
	f.listeners = append(f.listeners, &listener{
		id:      f.nextListenerID,
		typ:     typ,
		capture: capture,
		owner:   owner,
		handler: h,
	})

	return f.nextListenerID
}

func (f *Frame) RemoveEventListener(id ListenerID) bool {
	for i, l := range f.listeners {
		if l.id == id {
			f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
			return true
		}
	}

	return false
}

func (f *Frame) HasListener(id ListenerID) bool {
	for _, l := range f.listeners {
		if l.id == id {
			return true
		}
	}

	return false
}

// Listeners lists the listeners for an event type in dispatch order.
func (f *Frame) Listeners(typ EventType) []ListenerInfo {
	var infos []ListenerInfo
	for _, l := range f.listeners {
		if l.typ == typ {
			infos = append(infos, ListenerInfo{ID: l.id, Type: l.typ, Capture: l.capture, Owner: l.owner})
		}
	}

	return infos
}

// Dispatch runs the capture phase, then, unless propagation was stopped, the
// bubble phase. It returns false if the default action was prevented.
func (f *Frame) Dispatch(ev *Event) bool {
	if f.destroyed {
		return true
	}

	// Snapshot: handlers may add or remove listeners.
	snapshot := make([]*listener, len(f.listeners))
	copy(snapshot, f.listeners)

	for _, capture := range []bool{true, false} {
		if !capture && ev.propagationStopped {
			break
		}

		for _, l := range snapshot {
			if l.typ != ev.Type || l.capture != capture {
				continue
			}
			if !f.HasListener(l.id) {
				continue
			}
			l.handler(ev)
		}
	}

	return !ev.defaultPrevented
}
