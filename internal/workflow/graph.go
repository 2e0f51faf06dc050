package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/image-nodes/internal/node"
)

// ErrInvalidGraph is wrapped by every structural workflow error. It is an
// input error in the sense of node.IsInputError.
var ErrInvalidGraph = fmt.Errorf("%w: invalid workflow", node.ErrInvalidInput)

// RefKind says what a Ref points at.
type RefKind int

const (
	RefInput RefKind = iota
	RefNode
)

// Ref is a reference to a workflow input or to another step's result.
type Ref struct {
	Kind RefKind
	Name string

	// Field selects one field of a step result. Empty means the whole value.
	Field string
}

// InputRef references a declared workflow input.
func InputRef(name string) Ref {
	return Ref{Kind: RefInput, Name: name}
}

// NodeRef references the result of step name, optionally one field of it.
func NodeRef(name, field string) Ref {
	return Ref{Kind: RefNode, Name: name, Field: field}
}

// ParseRef parses "input.<name>", "node.<name>" or "node.<name>.<field>".
func ParseRef(s string) (Ref, error) {
	parts := strings.Split(s, ".")
	switch {
	case len(parts) == 2 && parts[0] == "input" && parts[1] != "":
		return InputRef(parts[1]), nil
	case len(parts) == 2 && parts[0] == "node" && parts[1] != "":
		return NodeRef(parts[1], ""), nil
	case len(parts) == 3 && parts[0] == "node" && parts[1] != "" && parts[2] != "":
		return NodeRef(parts[1], parts[2]), nil
	}
	return Ref{}, fmt.Errorf("%w: bad reference %q", ErrInvalidGraph, s)
}

func (r Ref) String() string {
	if r.Kind == RefInput {
		return "input." + r.Name
	}
	if r.Field != "" {
		return "node." + r.Name + "." + r.Field
	}
	return "node." + r.Name
}

// Link feeds one node field from other values. A list link collects every
// ref into a JSON array; otherwise Refs holds exactly one ref.
type Link struct {
	Refs []Ref
	List bool
}

// Input is a declared workflow input.
type Input struct {
	Name        string
	Description string
}

// Step is one configured node in a workflow.
type Step struct {
	Name  string
	Type  string
	Node  node.Node
	Links map[string]Link
}

// Graph is a workflow: declared inputs and steps in declaration order.
type Graph struct {
	Inputs []Input
	Steps  []Step
}

// Input returns the declared input with the given name.
func (g *Graph) Input(name string) (Input, bool) {
	for _, in := range g.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

// Order returns the steps in dependency order. Independent steps keep
// their declaration order.
func (g *Graph) Order() ([]Step, error) {
	inputs := make(map[string]bool, len(g.Inputs))
	for _, in := range g.Inputs {
		if inputs[in.Name] {
			return nil, fmt.Errorf("%w: duplicate input %q", ErrInvalidGraph, in.Name)
		}
		inputs[in.Name] = true
	}

	index := make(map[string]int, len(g.Steps))
	for i, s := range g.Steps {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: step %d has no name", ErrInvalidGraph, i)
		}
		if s.Node == nil {
			return nil, fmt.Errorf("%w: step %q has no node", ErrInvalidGraph, s.Name)
		}
		if _, ok := index[s.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate step %q", ErrInvalidGraph, s.Name)
		}
		index[s.Name] = i
	}

	// indegree counts unresolved dependencies; dependents is the reverse edge list.
	indegree := make([]int, len(g.Steps))
	dependents := make([][]int, len(g.Steps))
	for i, s := range g.Steps {
		seen := make(map[int]bool)
		for field, link := range s.Links {
			if !link.List && len(link.Refs) != 1 {
				return nil, fmt.Errorf("%w: step %q field %q needs exactly one reference", ErrInvalidGraph, s.Name, field)
			}
			for _, ref := range link.Refs {
				switch ref.Kind {
				case RefInput:
					if !inputs[ref.Name] {
						return nil, fmt.Errorf("%w: step %q references undeclared %s", ErrInvalidGraph, s.Name, ref)
					}
				case RefNode:
					dep, ok := index[ref.Name]
					if !ok {
						return nil, fmt.Errorf("%w: step %q references unknown %s", ErrInvalidGraph, s.Name, ref)
					}
					if dep == i {
						return nil, fmt.Errorf("%w: step %q references itself", ErrInvalidGraph, s.Name)
					}
					if !seen[dep] {
						seen[dep] = true
						indegree[i]++
						dependents[dep] = append(dependents[dep], i)
					}
				default:
					return nil, fmt.Errorf("%w: step %q has a reference of unknown kind", ErrInvalidGraph, s.Name)
				}
			}
		}
	}

	order := make([]Step, 0, len(g.Steps))
	done := make([]bool, len(g.Steps))
	for len(order) < len(g.Steps) {
		next := -1
		for i := range g.Steps {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("%w: cycle between steps %s", ErrInvalidGraph, strings.Join(pending(g.Steps, done), ", "))
		}
		done[next] = true
		order = append(order, g.Steps[next])
		for _, d := range dependents[next] {
			indegree[d]--
		}
	}
	return order, nil
}

func pending(steps []Step, done []bool) []string {
	var names []string
	for i, s := range steps {
		if !done[i] {
			names = append(names, s.Name)
		}
	}
	return names
}

// IsGraphError reports whether err describes a malformed workflow.
func IsGraphError(err error) bool {
	return errors.Is(err, ErrInvalidGraph)
}
