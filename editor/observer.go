package editor

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

type MutationType int

const (
	MutationChildList MutationType = iota + 1
	MutationAttributes
)

type MutationRecord struct {
	Type          MutationType
	Target        *html.Node
	Added         []*html.Node
	Removed       []*html.Node
	AttributeName string
}

type ObserverID int

type observer struct {
	id   ObserverID
	root *html.Node
	fn   func([]MutationRecord)
}

// maxDeliveryRounds bounds observer callbacks that keep mutating what they
// observe.
const maxDeliveryRounds = 64

// Observe watches the subtree rooted at root. Records are delivered after the
// mutating call returns; mutations made by a callback are delivered in a
// following round.
func (f *Frame) Observe(root *html.Node, fn func([]MutationRecord)) ObserverID {
	f.nextObserverID++
	f.observers = append(f.observers, &observer{id: f.nextObserverID, root: root, fn: fn})
	return f.nextObserverID
}

func (f *Frame) Disconnect(id ObserverID) bool {
	for i, o := range f.observers {
		if o.id == id {
			f.observers = append(f.observers[:i], f.observers[i+1:]...)
			return true
		}
	}

	return false
}

func (f *Frame) IsObserving(id ObserverID) bool {
	for _, o := range f.observers {
		if o.id == id {
			return true
		}
	}

	return false
}

func (f *Frame) ObserverCount() int {
	return len(f.observers)
}

func (f *Frame) record(rec MutationRecord) {
	if f.destroyed || len(f.observers) == 0 {
		return
	}

	f.pending = append(f.pending, rec)
	f.deliver()
}

func (f *Frame) deliver() {
	if f.delivering || f.batchDepth > 0 {
		return
	}

	f.delivering = true
	defer func() { f.delivering = false }()

	for round := 0; len(f.pending) > 0; round++ {
		if round == maxDeliveryRounds {
			f.logger.Warn("mutation delivery did not settle, dropping records",
				zap.Int("records", len(f.pending)))
			f.pending = nil
			return
		}

		batch := f.pending
		f.pending = nil

		observers := make([]*observer, len(f.observers))
		copy(observers, f.observers)

		for _, o := range observers {
			if !f.IsObserving(o.id) {
				continue
			}

			var recs []MutationRecord
			for _, rec := range batch {
				if IsAncestorOrSelf(o.root, rec.Target) {
					recs = append(recs, rec)
				}
			}

			if len(recs) > 0 {
				o.fn(recs)
			}
		}
	}
}
