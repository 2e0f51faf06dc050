package workflow

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/ironsheep/image-nodes/internal/node"
)

// fileSchema is the top-level structure of a workflow file:
//
//	input "photo" {
//	  description = "Image to tile"
//	}
//
//	node "lib.grid.SliceImageGrid" "slice" {
//	  image   = input.photo
//	  columns = 2
//	  rows    = 2
//	}
type fileSchema struct {
	Inputs []*inputBlock `hcl:"input,block"`
	Nodes  []*nodeBlock  `hcl:"node,block"`
}

type inputBlock struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`
}

type nodeBlock struct {
	Type string   `hcl:"type,label"`
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// LoadHCL reads and parses a workflow file.
func LoadHCL(path string, reg *node.Registry) (*Graph, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse %s: %s", ErrInvalidGraph, path, diags.Error())
	}
	return decodeFile(file, reg)
}

// ParseHCL parses workflow source. filename is only used in messages.
func ParseHCL(src []byte, filename string, reg *node.Registry) (*Graph, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse %s: %s", ErrInvalidGraph, filename, diags.Error())
	}
	return decodeFile(file, reg)
}

func decodeFile(file *hcl.File, reg *node.Registry) (*Graph, error) {
	var fs fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &fs); diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidGraph, diags.Error())
	}

	g := &Graph{}
	for _, in := range fs.Inputs {
		g.Inputs = append(g.Inputs, Input{Name: in.Name, Description: in.Description})
	}
	for _, nb := range fs.Nodes {
		step, err := decodeStep(nb, reg)
		if err != nil {
			return nil, err
		}
		g.Steps = append(g.Steps, step)
	}

	if _, err := g.Order(); err != nil {
		return nil, err
	}
	return g, nil
}

func decodeStep(nb *nodeBlock, reg *node.Registry) (Step, error) {
	n, err := reg.New(nb.Type)
	if err != nil {
		return Step{}, fmt.Errorf("node %q: %w", nb.Name, err)
	}

	attrs, diags := nb.Body.JustAttributes()
	if diags.HasErrors() {
		return Step{}, fmt.Errorf("%w: node %q: %s", ErrInvalidGraph, nb.Name, diags.Error())
	}
	sorted := make([]*hcl.Attribute, 0, len(attrs))
	for _, a := range attrs {
		sorted = append(sorted, a)
	}
	slices.SortFunc(sorted, func(a, b *hcl.Attribute) int { return a.Range.Start.Byte - b.Range.Start.Byte })

	known := make(map[string]bool)
	for _, name := range node.Inputs(n) {
		known[name] = true
	}

	step := Step{Name: nb.Name, Type: nb.Type, Node: n, Links: make(map[string]Link)}
	literals := make(map[string]json.RawMessage)
	for _, a := range sorted {
		if !known[a.Name] {
			return Step{}, fmt.Errorf("%w: %s: node %q (%s) has no input %q", ErrInvalidGraph, a.Range, nb.Name, nb.Type, a.Name)
		}

		link, ok, err := linkFor(a.Expr)
		if err != nil {
			return Step{}, fmt.Errorf("%s: %w", a.Range, err)
		}
		if ok {
			step.Links[a.Name] = link
			continue
		}

		val, diags := a.Expr.Value(nil)
		if diags.HasErrors() {
			return Step{}, fmt.Errorf("%w: %s", ErrInvalidGraph, diags.Error())
		}
		raw, err := ctyjson.Marshal(val, val.Type())
		if err != nil {
			return Step{}, fmt.Errorf("%w: %s: %v", ErrInvalidGraph, a.Range, err)
		}
		literals[a.Name] = raw
	}

	if err := node.Apply(n, literals); err != nil {
		return Step{}, fmt.Errorf("node %q: %w", nb.Name, err)
	}
	return step, nil
}

// linkFor reports whether expr is a reference or a list of references and
// returns the link if so.
func linkFor(expr hcl.Expression) (Link, bool, error) {
	if trav, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() {
		ref, err := refFor(trav)
		if err != nil {
			return Link{}, false, err
		}
		return Link{Refs: []Ref{ref}}, true, nil
	}

	items, diags := hcl.ExprList(expr)
	if diags.HasErrors() || len(items) == 0 {
		return Link{}, false, nil
	}

	var refs []Ref
	for _, item := range items {
		trav, diags := hcl.AbsTraversalForExpr(item)
		if diags.HasErrors() {
			if len(refs) > 0 {
				return Link{}, false, fmt.Errorf("%w: list mixes references and literals", ErrInvalidGraph)
			}
			return Link{}, false, nil
		}
		ref, err := refFor(trav)
		if err != nil {
			return Link{}, false, err
		}
		refs = append(refs, ref)
	}
	return Link{Refs: refs, List: true}, true, nil
}

func refFor(trav hcl.Traversal) (Ref, error) {
	parts := make([]string, 0, len(trav))
	for _, t := range trav {
		switch t := t.(type) {
		case hcl.TraverseRoot:
			parts = append(parts, t.Name)
		case hcl.TraverseAttr:
			parts = append(parts, t.Name)
		default:
			return Ref{}, fmt.Errorf("%w: only attribute access is supported in references", ErrInvalidGraph)
		}
	}

	return ParseRef(strings.Join(parts, "."))
}
