package modelsync

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bgraf/baukasten/component"
)

// Change is one property change of an instance.
type Change struct {
	Prop string `json:"prop"`
	Old  string `json:"old"`
	New  string `json:"new"`
}

// Diff lists the traits whose values differ, in trait order.
func Diff(old, next component.Props) []Change {
	before := component.TraitValues(old)
	after := component.TraitValues(next)

	var changes []Change
	for _, t := range component.Traits(next.Kind()) {
		if before[t.Name] != after[t.Name] {
			changes = append(changes, Change{Prop: t.Name, Old: before[t.Name], New: after[t.Name]})
		}
	}

	return changes
}

// Apply replaces the properties of the instance. Change handlers, the
// re-render, the attribute write-back and the host notification are all done
// when Apply returns.
func (e *Engine) Apply(next component.Props) ([]Change, error) {
	if next.Kind() != e.comp.Kind {
		return nil, fmt.Errorf("apply %v properties to %v: %w", next.Kind(), e.comp.Kind, component.ErrInvalidTrait)
	}

	next = component.Normalize(next)
	if err := component.Validate(next); err != nil {
		return nil, err
	}

	changes := Diff(e.comp.Props, next)
	if len(changes) == 0 {
		return nil, nil
	}

	e.comp.Props = next
	for _, ch := range changes {
		e.logger.Debug("property changed",
			zap.String("prop", ch.Prop), zap.String("old", ch.Old), zap.String("new", ch.New))
		e.handle(ch)
	}

	e.render()
	e.host.Changed(e.comp)

	return changes, nil
}

// SetTrait applies one edit from the trait panel.
func (e *Engine) SetTrait(name, value string) ([]Change, error) {
	next, err := component.SetTrait(e.comp.Props, name, value)
	if err != nil {
		return nil, err
	}

	return e.Apply(next)
}

// Toggle opens or closes an FAQ item.
func (e *Engine) Toggle() error {
	p, ok := e.comp.Props.(component.FAQProps)
	if !ok {
		return fmt.Errorf("toggle %v: %w", e.comp.Kind, component.ErrInvalidTrait)
	}

	p.Open = !p.Open
	_, err := e.Apply(p)
	return err
}

func (e *Engine) handle(ch Change) {
	switch p := e.comp.Props.(type) {
	case component.ImageProps:
		if ch.Prop != "src" {
			return
		}
		if p.Src.IsNone() {
			e.verification++
			e.state = Empty
			e.comp.View = component.View{}
			return
		}
		e.verify(p.Src.Get())
	case component.YouTubeProps:
		if ch.Prop == "video-id" {
			e.state = stateOf(p)
		}
	case component.ButtonProps:
		if ch.Prop == "href" {
			e.state = stateOf(p)
		}
	case component.TextLinkProps:
		if ch.Prop == "href" {
			e.state = stateOf(p)
		}
	case component.FAQProps:
		// Open state and content are fully expressed by the render.
	}
}

func stateOf(p component.Props) State {
	if component.Populated(p) {
		return Populated
	}

	return Empty
}
