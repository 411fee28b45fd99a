package component

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

var (
	ErrDuplicateType = errors.New("component type already registered")
	ErrUnknownType   = errors.New("unknown component type")
)

// Definition is the static description of a component type, registered once.
type Definition struct {
	Kind     Kind
	Tag      string
	Defaults Props
	Classes  []string
	Traits   []Trait
}

// Registry holds the registered component types.
type Registry struct {
	byTag  map[string]*Definition
	byKind map[Kind]*Definition
	order  []*Definition
}

func NewRegistry() *Registry {
	return &Registry{
		byTag:  make(map[string]*Definition),
		byKind: make(map[Kind]*Definition),
	}
}

// NewDefaultRegistry returns a registry with every custom kind registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, k := range Kinds {
		if err := r.Register(DefinitionFor(k)); err != nil {
			panic(err)
		}
	}

	return r
}

// DefinitionFor builds the stock definition of a kind.
func DefinitionFor(k Kind) Definition {
	return Definition{
		Kind:     k,
		Tag:      k.Tag(),
		Defaults: Defaults(k),
		Classes:  []string{rootClass(k)},
		Traits:   Traits(k),
	}
}

func (r *Registry) Has(tag string) bool {
	_, ok := r.byTag[tag]
	return ok
}

// Register adds a definition. Tags and kinds must be unique.
func (r *Registry) Register(def Definition) error {
	if len(def.Tag) == 0 {
		return fmt.Errorf("register %v: empty tag", def.Kind)
	}

	if r.Has(def.Tag) {
		return fmt.Errorf("register %q: %w", def.Tag, ErrDuplicateType)
	}

	if _, ok := r.byKind[def.Kind]; ok {
		return fmt.Errorf("register kind %d: %w", int(def.Kind), ErrDuplicateType)
	}

	if def.Defaults == nil || def.Defaults.Kind() != def.Kind {
		return fmt.Errorf("register %q: defaults do not match kind", def.Tag)
	}

	d := def
	r.byTag[d.Tag] = &d
	r.byKind[d.Kind] = &d
	r.order = append(r.order, &d)

	return nil
}

func (r *Registry) Definition(k Kind) (*Definition, bool) {
	d, ok := r.byKind[k]
	return d, ok
}

func (r *Registry) Definitions() []*Definition {
	return r.order
}

// Recognize decides whether node itself is an instance of a registered type.
// Only the node's own marker attribute is consulted; a marker on a descendant
// never makes an ancestor match.
func (r *Registry) Recognize(node *html.Node) (Kind, bool) {
	if node == nil || node.Type != html.ElementNode {
		return 0, false
	}

	tag, ok := attr(node, AttrType)
	if !ok {
		return 0, false
	}

	d, ok := r.byTag[strings.TrimSpace(tag)]
	if !ok {
		return 0, false
	}

	return d.Kind, true
}

func attr(node *html.Node, key string) (string, bool) {
	for _, a := range node.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}

	return "", false
}
