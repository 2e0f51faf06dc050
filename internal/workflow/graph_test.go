package workflow

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/image-nodes/internal/node"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		in      string
		want    Ref
		wantErr bool
	}{
		{in: "input.photo", want: InputRef("photo")},
		{in: "node.slice", want: NodeRef("slice", "")},
		{in: "node.meta.width", want: NodeRef("meta", "width")},
		{in: "input", wantErr: true},
		{in: "input.a.b", wantErr: true},
		{in: "var.x", wantErr: true},
		{in: "node..x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRef(tt.in)
			if tt.wantErr {
				if !IsGraphError(err) {
					t.Errorf("got %v, want graph error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRef failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func step(name string, refs ...Ref) Step {
	s := Step{Name: name, Type: "lib.image.GetMetadata", Node: &node.GetMetadata{}, Links: map[string]Link{}}
	if len(refs) > 0 {
		s.Links["image"] = Link{Refs: refs, List: len(refs) > 1}
	}
	return s
}

func names(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Name
	}
	return out
}

func TestOrder(t *testing.T) {
	g := &Graph{
		Inputs: []Input{{Name: "photo"}},
		Steps: []Step{
			step("d", NodeRef("b", ""), NodeRef("c", "")),
			step("b", NodeRef("a", "")),
			step("a", InputRef("photo")),
			step("c"),
		},
	}

	order, err := g.Order()
	if err != nil {
		t.Fatalf("Order failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, names(order)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestOrder_KeepsDeclarationOrder(t *testing.T) {
	g := &Graph{Steps: []Step{step("z"), step("y"), step("x")}}

	order, err := g.Order()
	if err != nil {
		t.Fatalf("Order failed: %v", err)
	}
	if diff := cmp.Diff([]string{"z", "y", "x"}, names(order)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestOrder_Errors(t *testing.T) {
	tests := []struct {
		name string
		g    *Graph
	}{
		{"cycle", &Graph{Steps: []Step{step("a", NodeRef("b", "")), step("b", NodeRef("a", ""))}}},
		{"self reference", &Graph{Steps: []Step{step("a", NodeRef("a", ""))}}},
		{"unknown step", &Graph{Steps: []Step{step("a", NodeRef("missing", ""))}}},
		{"undeclared input", &Graph{Steps: []Step{step("a", InputRef("photo"))}}},
		{"duplicate step", &Graph{Steps: []Step{step("a"), step("a")}}},
		{"duplicate input", &Graph{Inputs: []Input{{Name: "x"}, {Name: "x"}}}},
		{"unnamed step", &Graph{Steps: []Step{step("")}}},
		{"nil node", &Graph{Steps: []Step{{Name: "a"}}}},
		{"empty single link", &Graph{Steps: []Step{{Name: "a", Node: &node.GetMetadata{}, Links: map[string]Link{"image": {}}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.g.Order()
			if !IsGraphError(err) {
				t.Errorf("got %v, want graph error", err)
			}
			if !node.IsInputError(err) {
				t.Errorf("graph errors should count as input errors")
			}
		})
	}
}
