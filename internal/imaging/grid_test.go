package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestSlice(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{0, 0, 255, 255})

	tiles, err := Slice(img, 2, 2)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}

	if len(tiles) != 4 {
		t.Fatalf("tile count: got %d, want 4", len(tiles))
	}

	for i, tile := range tiles {
		b := tile.Bounds()
		if b.Dx() != 50 || b.Dy() != 50 {
			t.Errorf("tile %d: got %dx%d, want 50x50", i, b.Dx(), b.Dy())
		}
	}
}

func TestSlice_Dimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		columns, rows int
		wantW, wantH  int
	}{
		{"even split", 100, 100, 2, 2, 50, 50},
		{"remainder dropped", 101, 99, 2, 4, 50, 24},
		{"single tile", 30, 20, 1, 1, 30, 20},
		{"one column", 30, 90, 1, 3, 30, 30},
		{"one row", 90, 30, 3, 1, 30, 30},
		{"pixel tiles", 4, 3, 4, 3, 1, 1},
		{"more cells than pixels", 3, 3, 5, 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createPatternImage(tt.width, tt.height)

			tiles, err := Slice(img, tt.columns, tt.rows)
			if err != nil {
				t.Fatalf("Slice failed: %v", err)
			}

			if len(tiles) != tt.columns*tt.rows {
				t.Fatalf("tile count: got %d, want %d", len(tiles), tt.columns*tt.rows)
			}

			for i, tile := range tiles {
				b := tile.Bounds()
				if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
					t.Errorf("tile %d: got %dx%d, want %dx%d", i, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
				}
			}
		})
	}
}

func TestSlice_InvalidGrid(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)

	tests := []struct {
		columns, rows int
	}{
		{0, 2},
		{2, 0},
		{-1, 1},
		{1, -3},
	}

	for _, tt := range tests {
		_, err := Slice(img, tt.columns, tt.rows)
		if !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("Slice(%d, %d): got %v, want ErrInvalidGrid", tt.columns, tt.rows, err)
		}
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Slice(%d, %d): error should wrap ErrInvalidArgument", tt.columns, tt.rows)
		}
	}
}

func TestSlice_EmptyImage(t *testing.T) {
	if _, err := Slice(nil, 2, 2); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("nil image: got %v, want ErrEmptyImage", err)
	}

	empty := image.NewRGBA(image.Rect(0, 0, 0, 10))
	if _, err := Slice(empty, 2, 2); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("zero width: got %v, want ErrEmptyImage", err)
	}
}

func TestSlice_RowMajorOrder(t *testing.T) {
	// Each cell of a 3x2 grid gets a distinct color.
	const cell = 10
	columns, rows := 3, 2
	img := image.NewRGBA(image.Rect(0, 0, cell*columns, cell*rows))
	for y := 0; y < cell*rows; y++ {
		for x := 0; x < cell*columns; x++ {
			idx := (y/cell)*columns + x/cell
			img.Set(x, y, color.RGBA{uint8(idx * 40), 0, 0, 255})
		}
	}

	tiles, err := Slice(img, columns, rows)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}

	for i, tile := range tiles {
		r, _, _, _ := tile.At(cell/2, cell/2).RGBA()
		if got, want := uint8(r>>8), uint8(i*40); got != want {
			t.Errorf("tile %d: red = %d, want %d (cell %d,%d)", i, got, want, i%columns, i/columns)
		}
	}
}

func TestSlice_OffsetBounds(t *testing.T) {
	// Sub-images keep their parent's coordinate space.
	parent := createPatternImage(40, 40)
	sub := parent.SubImage(image.Rect(10, 10, 30, 30))

	tiles, err := Slice(sub, 2, 2)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}

	if got := tiles[0].Bounds(); got != image.Rect(0, 0, 10, 10) {
		t.Errorf("tile bounds: got %v, want (0,0)-(10,10)", got)
	}

	want := parent.At(20, 20)
	if got := tiles[3].At(0, 0); !sameColor(got, want) {
		t.Errorf("tile 3 origin: got %v, want %v", got, want)
	}
}

func TestSlice_IndependentCopies(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for i := range img.Pix {
		img.Pix[i] = 200
	}

	tiles, err := Slice(img, 2, 2)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}

	tiles[0].(*image.NRGBA).Set(0, 0, color.NRGBA{1, 2, 3, 4})

	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{200, 200, 200, 200}) {
		t.Errorf("source modified through tile: got %v", got)
	}
	if got := tiles[1].(*image.NRGBA).NRGBAAt(0, 0); got != (color.NRGBA{200, 200, 200, 200}) {
		t.Errorf("neighbour tile modified: got %v", got)
	}
}

func TestCombine(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{0, 0, 255, 255})

	tiles, err := Slice(img, 2, 2)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}

	combined, err := Combine(tiles, 2)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}

	b := combined.Bounds()
	if b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x100", b.Dx(), b.Dy())
	}

	if got := combined.NRGBAAt(75, 75); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("pixel (75,75): got %v, want blue", got)
	}
}

func TestCombine_RoundTrip(t *testing.T) {
	tests := []struct {
		width, height int
		columns, rows int
	}{
		{100, 100, 2, 2},
		{101, 77, 3, 4},
		{64, 48, 8, 6},
		{17, 5, 1, 1},
	}

	for _, tt := range tests {
		img := createPatternImage(tt.width, tt.height)

		tiles, err := Slice(img, tt.columns, tt.rows)
		if err != nil {
			t.Fatalf("Slice failed: %v", err)
		}

		combined, err := Combine(tiles, tt.columns)
		if err != nil {
			t.Fatalf("Combine failed: %v", err)
		}

		wantW := (tt.width / tt.columns) * tt.columns
		wantH := (tt.height / tt.rows) * tt.rows
		b := combined.Bounds()
		if b.Dx() != wantW || b.Dy() != wantH {
			t.Errorf("%dx%d in %dx%d: got %dx%d, want %dx%d",
				tt.width, tt.height, tt.columns, tt.rows, b.Dx(), b.Dy(), wantW, wantH)
		}

		// Pixels inside the covered area survive unchanged.
		for _, p := range []image.Point{{0, 0}, {wantW - 1, wantH - 1}, {wantW / 2, wantH / 3}} {
			if !sameColor(combined.At(p.X, p.Y), img.At(p.X, p.Y)) {
				t.Errorf("pixel %v: got %v, want %v", p, combined.At(p.X, p.Y), img.At(p.X, p.Y))
			}
		}
	}
}

func TestCombine_NoTiles(t *testing.T) {
	_, err := Combine(nil, 2)
	if !errors.Is(err, ErrNoTiles) {
		t.Fatalf("got %v, want ErrNoTiles", err)
	}
	if err.Error() != "invalid argument: no tiles provided" {
		t.Errorf("message: got %q", err.Error())
	}

	if _, err := Combine([]image.Image{}, 2); !errors.Is(err, ErrNoTiles) {
		t.Errorf("empty slice: got %v, want ErrNoTiles", err)
	}
}

func TestCombine_InvalidColumns(t *testing.T) {
	tiles := []image.Image{createInMemoryImage(5, 5, color.White)}

	for _, columns := range []int{0, -2} {
		if _, err := Combine(tiles, columns); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("columns=%d: got %v, want ErrInvalidGrid", columns, err)
		}
	}
}

func TestCombine_TooLarge(t *testing.T) {
	tiles := []image.Image{createInMemoryImage(4, 4, color.White)}

	for _, columns := range []int{MaxDimension, 1 << 40} {
		if _, err := Combine(tiles, columns); !errors.Is(err, ErrTooLarge) {
			t.Errorf("columns=%d: got %v, want ErrTooLarge", columns, err)
		}
	}
}

func TestCombine_Placement(t *testing.T) {
	colors := []color.RGBA{
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
		{255, 255, 0, 255},
		{0, 255, 255, 255},
		{255, 0, 255, 255},
	}
	tiles := make([]image.Image, len(colors))
	for i, c := range colors {
		tiles[i] = createInMemoryImage(8, 6, c)
	}

	combined, err := Combine(tiles, 3)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}

	if b := combined.Bounds(); b.Dx() != 24 || b.Dy() != 12 {
		t.Fatalf("dimensions: got %dx%d, want 24x12", b.Dx(), b.Dy())
	}

	for i, c := range colors {
		x := (i%3)*8 + 4
		y := (i/3)*6 + 3
		if !sameColor(combined.At(x, y), c) {
			t.Errorf("tile %d at (%d,%d): got %v, want %v", i, x, y, combined.At(x, y), c)
		}
	}
}

func TestCombine_PartialLastRow(t *testing.T) {
	tiles := []image.Image{
		createInMemoryImage(10, 10, color.RGBA{255, 0, 0, 255}),
		createInMemoryImage(10, 10, color.RGBA{0, 255, 0, 255}),
		createInMemoryImage(10, 10, color.RGBA{0, 0, 255, 255}),
	}

	combined, err := Combine(tiles, 2)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}

	if b := combined.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Fatalf("dimensions: got %dx%d, want 20x20", b.Dx(), b.Dy())
	}

	// The uncovered bottom-right cell is transparent.
	if got := combined.NRGBAAt(15, 15); got != (color.NRGBA{}) {
		t.Errorf("empty cell: got %v, want transparent", got)
	}
}

func TestCombine_MismatchedTiles(t *testing.T) {
	// The first tile defines the cell size; a larger tile overwrites its neighbour.
	tiles := []image.Image{
		createInMemoryImage(10, 10, color.RGBA{255, 0, 0, 255}),
		createInMemoryImage(15, 10, color.RGBA{0, 255, 0, 255}),
		createInMemoryImage(10, 10, color.RGBA{0, 0, 255, 255}),
	}

	combined, err := Combine(tiles, 3)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}

	if b := combined.Bounds(); b.Dx() != 30 || b.Dy() != 10 {
		t.Fatalf("dimensions: got %dx%d, want 30x10", b.Dx(), b.Dy())
	}

	// Tile 2 is drawn after tile 1, so it wins at x=22.
	if !sameColor(combined.At(22, 5), color.RGBA{0, 0, 255, 255}) {
		t.Errorf("pixel (22,5): got %v, want blue", combined.At(22, 5))
	}
	if !sameColor(combined.At(15, 5), color.RGBA{0, 255, 0, 255}) {
		t.Errorf("pixel (15,5): got %v, want green", combined.At(15, 5))
	}
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar>>8 == br>>8 && ag>>8 == bg>>8 && ab>>8 == bb>>8 && aa>>8 == ba>>8
}
