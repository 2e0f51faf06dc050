package dsl

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ironsheep/image-nodes/internal/node"
	"github.com/ironsheep/image-nodes/internal/workflow"
)

// Builder assembles a workflow.Graph from typed node values. Errors are
// collected and reported by Build.
type Builder struct {
	reg   *node.Registry
	graph workflow.Graph
	errs  []error
}

// New returns a builder resolving node types in reg. A nil reg uses the
// built-in catalog.
func New(reg *node.Registry) *Builder {
	if reg == nil {
		reg = node.NewCatalog()
	}
	return &Builder{reg: reg}
}

// Input declares a workflow input and returns a reference to it.
func (b *Builder) Input(name, description string) workflow.Ref {
	b.graph.Inputs = append(b.graph.Inputs, workflow.Input{Name: name, Description: description})
	return workflow.InputRef(name)
}

// Input references a workflow input declared elsewhere.
func Input(name string) workflow.Ref {
	return workflow.InputRef(name)
}

// Handle refers to a step added to a Builder.
type Handle struct {
	b    *Builder
	name string
	idx  int
}

// Add appends a step running node type T. The node starts from the
// catalog's defaults; configure, when non-nil, sets literal field values.
func Add[T node.Node](b *Builder, name string, configure func(T)) *Handle {
	h := &Handle{b: b, name: name, idx: -1}

	var zero T
	typ, ok := b.reg.TypeOf(zero)
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("step %q: %T is not a registered node", name, zero))
		return h
	}
	d, _ := b.reg.Lookup(typ)
	n, ok := d.New().(T)
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("step %q: %s constructs %T, not %T", name, typ, d.New(), zero))
		return h
	}
	if configure != nil {
		configure(n)
	}

	h.idx = len(b.graph.Steps)
	b.graph.Steps = append(b.graph.Steps, workflow.Step{
		Name:  name,
		Type:  typ,
		Node:  n,
		Links: make(map[string]workflow.Link),
	})
	return h
}

// Link feeds field from ref. Linking the same field again replaces the
// previous link.
func (h *Handle) Link(field string, ref workflow.Ref) *Handle {
	return h.link(field, workflow.Link{Refs: []workflow.Ref{ref}})
}

// LinkList feeds a list field from several refs in order.
func (h *Handle) LinkList(field string, refs ...workflow.Ref) *Handle {
	return h.link(field, workflow.Link{Refs: slices.Clone(refs), List: true})
}

func (h *Handle) link(field string, l workflow.Link) *Handle {
	if h.idx < 0 {
		return h
	}
	step := &h.b.graph.Steps[h.idx]
	if !slices.Contains(node.Inputs(step.Node), field) {
		h.b.errs = append(h.b.errs, fmt.Errorf("step %q: %s has no input %q", h.name, step.Type, field))
		return h
	}
	step.Links[field] = l
	return h
}

// Output references the step's whole result.
func (h *Handle) Output() workflow.Ref {
	return workflow.NodeRef(h.name, "")
}

// Field references one field of the step's result.
func (h *Handle) Field(name string) workflow.Ref {
	return workflow.NodeRef(h.name, name)
}

// Build returns the assembled graph after checking it can be ordered.
func (b *Builder) Build() (*workflow.Graph, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("%w: %w", workflow.ErrInvalidGraph, errors.Join(b.errs...))
	}
	g := &workflow.Graph{
		Inputs: slices.Clone(b.graph.Inputs),
		Steps:  slices.Clone(b.graph.Steps),
	}
	if _, err := g.Order(); err != nil {
		return nil, err
	}
	return g, nil
}
