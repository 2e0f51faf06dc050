package dsl

import (
	"context"
	"image"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/image-nodes/internal/asset"
	"github.com/ironsheep/image-nodes/internal/node"
	"github.com/ironsheep/image-nodes/internal/workflow"
)

func TestBuilder_TileWorkflow(t *testing.T) {
	b := New(nil)
	photo := b.Input("photo", "Image to tile")
	slice := Add(b, "slice", func(n *node.SliceImageGrid) {
		n.Columns, n.Rows = 3, 1
	}).Link("image", photo)
	combine := Add(b, "combine", func(n *node.CombineImageGrid) {
		n.Columns = 1
	}).Link("tiles", slice.Output())
	Add(b, "out", func(n *node.ImageOutput) { n.Name = "column" }).Link("value", combine.Output())

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := g.Steps[0].Type; got != "lib.grid.SliceImageGrid" {
		t.Errorf("type = %q", got)
	}
	want := map[string]workflow.Link{"tiles": {Refs: []workflow.Ref{workflow.NodeRef("slice", "")}}}
	if diff := cmp.Diff(want, g.Steps[1].Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}

	ctx := context.Background()
	pc := asset.NewContext(asset.NewMemoryStore(), node.Env{})
	src := image.NewNRGBA(image.Rect(0, 0, 30, 10))
	ref, err := pc.StoreImage(ctx, src)
	if err != nil {
		t.Fatal(err)
	}

	res, err := (&workflow.Runner{}).Run(ctx, g, pc, map[string]any{"photo": ref})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	img, err := pc.LoadImage(ctx, res.Outputs["column"].(node.ImageRef))
	if err != nil {
		t.Fatal(err)
	}
	// Three 10x10 tiles restacked into one column.
	if got := img.Bounds().Size(); got != image.Pt(10, 30) {
		t.Errorf("size %v, want (10,30)", got)
	}
}

func TestBuilder_DefaultsAndFieldRefs(t *testing.T) {
	b := New(node.NewCatalog())
	bg := Add(b, "bg", func(n *node.Background) {
		n.Width, n.Height = 6, 3
		n.Color = node.Color("#0000FF")
	})
	meta := Add[*node.GetMetadata](b, "meta", nil).Link("image", bg.Output())
	Add[*node.Resize](b, "resize", nil).
		Link("image", bg.Output()).
		Link("width", meta.Field("height"))
	Add(b, "pair", func(n *node.CombineImageGrid) { n.Columns = 2 }).LinkList("tiles", bg.Output(), bg.Output())

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if n := g.Steps[2].Node.(*node.Resize); n.Width == 0 || n.Height == 0 {
		t.Errorf("catalog defaults not applied: %+v", n)
	}
	if got := g.Steps[3].Links["tiles"]; !got.List || len(got.Refs) != 2 {
		t.Errorf("list link = %+v", got)
	}

	pc := asset.NewContext(asset.NewMemoryStore(), node.Env{})
	res, err := (&workflow.Runner{}).Run(context.Background(), g, pc, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	img, err := pc.LoadImage(context.Background(), res.Values["resize"].(node.ImageRef))
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Dx(); got != 3 {
		t.Errorf("resized width = %d, want 3", got)
	}
	if _, _, bl, _ := img.At(0, 0).RGBA(); bl>>8 < 250 {
		t.Errorf("blue = %d, want about 255", bl>>8)
	}
}

type unregistered struct{}

func (*unregistered) Process(context.Context, node.Context) (any, error) { return nil, nil }

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
		want  string
	}{
		{"unknown field", func(b *Builder) {
			Add[*node.Fit](b, "fit", nil).Link("colour", Input("x"))
		}, `no input "colour"`},
		{"unregistered node", func(b *Builder) {
			Add[*unregistered](b, "u", nil)
		}, "not a registered node"},
		{"undeclared input", func(b *Builder) {
			Add[*node.Fit](b, "fit", nil).Link("image", Input("photo"))
		}, "undeclared"},
		{"cycle", func(b *Builder) {
			a := Add[*node.Fit](b, "a", nil)
			c := Add[*node.Fit](b, "c", nil).Link("image", a.Output())
			a.Link("image", c.Output())
		}, "cycle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(nil)
			tt.build(b)
			_, err := b.Build()
			if !workflow.IsGraphError(err) {
				t.Fatalf("got %v, want graph error", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
