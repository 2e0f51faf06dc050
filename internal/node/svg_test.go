package node_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ironsheep/image-nodes/internal/asset"
	"github.com/ironsheep/image-nodes/internal/node"
	"github.com/ironsheep/image-nodes/internal/svg"
)

func TestSVGShapeNodes(t *testing.T) {
	r := node.NewCatalog()

	tests := []struct {
		typ  string
		args string
		want string
	}{
		{"lib.svg.Circle", `{"cx": 10, "cy": 10, "radius": 5}`,
			`<circle cx="10" cy="10" fill="#000000" r="5" stroke="none" stroke-width="1"/>`},
		{"lib.svg.Rect", `{"width": 20, "height": 10, "fill": "#FF0000"}`,
			`<rect fill="#FF0000" height="10" stroke="none" stroke-width="1" width="20" x="0" y="0"/>`},
		{"lib.svg.Line", `{}`,
			`<line stroke="#000000" stroke-width="1" x1="0" x2="100" y1="0" y2="100"/>`},
		{"lib.svg.Path", `{"path_data": "M0 0 L10 10", "stroke_width": 0}`,
			`<path d="M0 0 L10 10" fill="#000000" stroke="none"/>`},
		{"lib.svg.Text", `{"text": "hi", "text_anchor": "middle"}`,
			`<text fill="#000000" font-family="Arial" font-size="16" text-anchor="middle" x="0" y="0">hi</text>`},
		{"lib.svg.GaussianBlur", `{"std_deviation": 2}`,
			`<filter id="blur"><feGaussianBlur in="SourceGraphic" stdDeviation="2"/></filter>`},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			n, _ := r.New(tt.typ)
			if err := node.ApplyJSON(n, []byte(tt.args)); err != nil {
				t.Fatalf("ApplyJSON failed: %v", err)
			}
			out, err := node.Invoke(context.Background(), n, newContext())
			if err != nil {
				t.Fatalf("Invoke failed: %v", err)
			}
			el, ok := out.(svg.Element)
			if !ok {
				t.Fatalf("result is %T, want svg.Element", out)
			}
			if got := el.String(); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestSVGNodes_RequiredInputs(t *testing.T) {
	pc := newContext()
	for _, n := range []node.Node{
		&node.Path{},
		&node.Polygon{},
		&node.Transform{ScaleX: 1, ScaleY: 1},
		&node.ClipPath{ID: "c", Content: svg.New("rect")},
	} {
		if _, err := node.Invoke(context.Background(), n, pc); !node.IsInputError(err) {
			t.Errorf("%T: got %v, want input error", n, err)
		}
	}
}

func TestGradientNode(t *testing.T) {
	pc := newContext()
	n, _ := node.NewCatalog().New("lib.svg.Gradient")

	out, err := node.Invoke(context.Background(), n, pc)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if el := out.(svg.Element); el.Name != "linearGradient" || el.Attributes["id"] != "gradient" {
		t.Errorf("unexpected gradient %s", el)
	}

	n.(*node.Gradient).Color1 = node.Color("nope")
	if _, err := node.Invoke(context.Background(), n, pc); !node.IsInputError(err) {
		t.Errorf("bad colour: got %v, want input error", err)
	}
}

func TestTransformNode(t *testing.T) {
	n := &node.Transform{Content: svg.New("rect"), TranslateX: 5, ScaleX: 1, ScaleY: 1}
	out, err := node.Invoke(context.Background(), n, newContext())
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if got := out.(svg.Element).Attributes["transform"]; got != "translate(5 0)" {
		t.Errorf("transform = %q", got)
	}
}

func TestDocumentNode_ChainedElements(t *testing.T) {
	ctx := context.Background()
	pc := newContext()

	circle, err := node.Invoke(ctx, &node.Circle{CX: 5, CY: 5, Radius: 2}, pc)
	if err != nil {
		t.Fatalf("circle failed: %v", err)
	}

	// Element values travel between nodes as JSON.
	encoded, _ := json.Marshal([]any{circle})
	doc, _ := node.NewCatalog().New("lib.svg.Document")
	if err := node.ApplyJSON(doc, []byte(`{"width": 10, "height": 10, "viewBox": "", "content": `+string(encoded)+`}`)); err != nil {
		t.Fatalf("ApplyJSON failed: %v", err)
	}

	out, err := node.Invoke(ctx, doc, pc)
	if err != nil {
		t.Fatalf("document failed: %v", err)
	}
	ref, ok := out.(node.SVGRef)
	if !ok {
		t.Fatalf("result is %T, want node.SVGRef", out)
	}
	if !strings.HasPrefix(ref.Data, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">`) {
		t.Errorf("unexpected document %s", ref.Data)
	}
	if !strings.Contains(ref.Data, `<circle cx="5" cy="5" r="2"/>`) {
		t.Errorf("circle missing from %s", ref.Data)
	}

	doc.(*node.Document).ViewBox = "0 0"
	if _, err := node.Invoke(ctx, doc, pc); !node.IsInputError(err) {
		t.Errorf("bad viewBox: got %v, want input error", err)
	}
}

func TestSVGToImageNode(t *testing.T) {
	if !(svg.Rasterizer{}).Available() {
		t.Skip("rsvg-convert not installed")
	}
	pc := newContext()

	n := &node.SVGToImage{
		Content: svg.Markup(`<rect width="20" height="10" fill="#00F"/>`),
		Width:   20, Height: 10, Scale: 2,
	}
	out, err := node.Invoke(context.Background(), n, pc)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if got := size(load(t, pc, out)); got != [2]int{40, 20} {
		t.Errorf("size %v, want [40 20]", got)
	}
}

func TestSVGToImageNode_MissingRasterizer(t *testing.T) {
	pc := asset.NewContext(asset.NewMemoryStore(), node.Env{RSVGConvert: "no-such-rsvg-convert"})
	n := &node.SVGToImage{Content: svg.Markup("<g/>"), Width: 10, Height: 10, Scale: 1}

	if _, err := node.Invoke(context.Background(), n, pc); err != svg.ErrRasterizerMissing {
		t.Errorf("got %v, want ErrRasterizerMissing", err)
	}
}
