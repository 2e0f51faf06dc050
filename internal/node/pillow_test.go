package node_test

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/image-nodes/internal/node"
)

func TestFilterNodes_KeepSize(t *testing.T) {
	pc := newContext()
	src := store(t, pc, solid(24, 16, color.RGBA{120, 60, 200, 255}))

	nodes := []node.Node{
		&node.Invert{Image: src},
		&node.Solarize{Image: src, Threshold: 128},
		&node.Posterize{Image: src, Bits: 4},
		&node.Blur{Image: src, Radius: 2},
		&node.Contour{Image: src},
		&node.Emboss{Image: src},
		&node.FindEdges{Image: src},
		&node.Smooth{Image: src},
		&node.Canny{Image: src, LowThreshold: 100, HighThreshold: 200},
		&node.ConvertToGrayscale{Image: src},
		&node.GetChannel{Image: src, Channel: "G"},
	}

	for _, n := range nodes {
		out, err := node.Invoke(context.Background(), n, pc)
		if err != nil {
			t.Errorf("%T failed: %v", n, err)
			continue
		}
		if got := size(load(t, pc, out)); got != [2]int{24, 16} {
			t.Errorf("%T size %v, want [24 16]", n, got)
		}
	}
}

func TestExpand(t *testing.T) {
	pc := newContext()
	src := store(t, pc, solid(10, 10, color.White))

	out, err := node.Invoke(context.Background(), &node.Expand{Image: src, Border: 3, Fill: 0}, pc)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	img := load(t, pc, out)
	if got := size(img); got != [2]int{16, 16} {
		t.Errorf("size %v, want [16 16]", got)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0 {
		t.Errorf("border pixel red = %d, want 0", r)
	}
}

func TestInvert_Pixels(t *testing.T) {
	pc := newContext()
	src := store(t, pc, solid(2, 2, color.RGBA{255, 0, 100, 255}))

	out, err := node.Invoke(context.Background(), &node.Invert{Image: src}, pc)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	got := color.NRGBAModel.Convert(load(t, pc, out).At(1, 1)).(color.NRGBA)
	if got != (color.NRGBA{0, 255, 155, 255}) {
		t.Errorf("got %v", got)
	}
}

func TestBlend(t *testing.T) {
	pc := newContext()
	black := store(t, pc, solid(4, 4, color.Black))
	white := store(t, pc, solid(4, 4, color.White))

	out, err := node.Invoke(context.Background(), &node.Blend{Image1: black, Image2: white, Alpha: 0.5}, pc)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	r, _, _, _ := load(t, pc, out).At(2, 2).RGBA()
	if v := r >> 8; v < 120 || v > 135 {
		t.Errorf("blended red = %d, want about 128", v)
	}

	small := store(t, pc, solid(2, 2, color.White))
	if _, err := node.Invoke(context.Background(), &node.Blend{Image1: black, Image2: small, Alpha: 0.5}, pc); !node.IsInputError(err) {
		t.Errorf("size mismatch: got %v, want input error", err)
	}
}

func TestComposite(t *testing.T) {
	pc := newContext()
	red := store(t, pc, solid(4, 4, color.RGBA{255, 0, 0, 255}))
	blue := store(t, pc, solid(4, 4, color.RGBA{0, 0, 255, 255}))

	m := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 2; x < 4; x++ {
			m.SetGray(x, y, color.Gray{255})
		}
	}
	mask := store(t, pc, m)

	out, err := node.Invoke(context.Background(), &node.Composite{Image1: red, Image2: blue, Mask: mask}, pc)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	img := load(t, pc, out)
	if r, _, b, _ := img.At(3, 0).RGBA(); r>>8 != 255 || b != 0 {
		t.Errorf("white mask area should come from image1, got r=%d b=%d", r>>8, b>>8)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0 || b>>8 != 255 {
		t.Errorf("black mask area should come from image2, got r=%d b=%d", r>>8, b>>8)
	}
}

func TestBackground(t *testing.T) {
	pc := newContext()

	out, err := node.Invoke(context.Background(), &node.Background{Width: 8, Height: 4, Color: node.Color("#00FF00")}, pc)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	img := load(t, pc, out)
	if got := size(img); got != [2]int{8, 4} {
		t.Errorf("size %v", got)
	}
	if _, g, _, _ := img.At(7, 3).RGBA(); g>>8 != 255 {
		t.Errorf("green = %d, want 255", g>>8)
	}

	_, err = node.Invoke(context.Background(), &node.Background{Width: 8, Height: 4, Color: node.Color("green-ish")}, pc)
	if !node.IsInputError(err) {
		t.Errorf("bad colour: got %v, want input error", err)
	}
}

func TestGaussianNoise_Seeded(t *testing.T) {
	pc := newContext()
	n := &node.GaussianNoise{Mean: 0.5, Stddev: 0.2, Width: 16, Height: 16, Seed: 7}

	a, err := node.Invoke(context.Background(), n, pc)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	b, _ := node.Invoke(context.Background(), n, pc)

	imgA, imgB := load(t, pc, a), load(t, pc, b)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if imgA.At(x, y) != imgB.At(x, y) {
				t.Fatalf("pixel (%d,%d) differs between runs with the same seed", x, y)
			}
		}
	}
}

func TestRenderText(t *testing.T) {
	pc := newContext()
	src := store(t, pc, solid(120, 40, color.White))
	n, _ := node.NewCatalog().New("lib.pillow.draw.RenderText")
	rt := n.(*node.RenderText)
	rt.Image = src
	rt.Text = "Hello"
	rt.X, rt.Y = 5, 5
	rt.Size = 20

	out, err := node.Invoke(context.Background(), rt, pc)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	img := load(t, pc, out)
	dark := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 120; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r>>8 < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("no text pixels drawn")
	}

	rt.Font = "Comic Sans"
	if _, err := node.Invoke(context.Background(), rt, pc); !node.IsInputError(err) {
		t.Errorf("unknown font: got %v, want input error", err)
	}
}
