package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// ErrInvalidArgument is wrapped by every input error returned from this package.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	// ErrInvalidGrid is returned when a grid has fewer than one column or row.
	ErrInvalidGrid = fmt.Errorf("%w: grid needs at least one column and one row", ErrInvalidArgument)

	// ErrNoTiles is returned when Combine is called with an empty tile list.
	ErrNoTiles = fmt.Errorf("%w: no tiles provided", ErrInvalidArgument)

	// ErrEmptyImage is returned for nil images or images with no pixels.
	ErrEmptyImage = fmt.Errorf("%w: image is empty", ErrInvalidArgument)

	// ErrTooLarge is returned when an output would exceed MaxDimension.
	ErrTooLarge = fmt.Errorf("%w: image too large", ErrInvalidArgument)
)

// MaxDimension is the largest width or height this package will allocate.
const MaxDimension = 16384

// checkSize rejects outputs wider or taller than MaxDimension. Sizes are
// passed as cell size and count so the product is never computed when it
// could overflow.
func checkSize(op string, cellW, countW, cellH, countH int) error {
	if (cellW > 0 && countW > MaxDimension/cellW) || (cellH > 0 && countH > MaxDimension/cellH) {
		return fmt.Errorf("%s: %w: limit is %dx%d", op, ErrTooLarge, MaxDimension, MaxDimension)
	}
	return nil
}

// Slice divides an image into a grid of columns x rows equally sized tiles.
//
// Tile dimensions are computed with integer division:
//
//	tileWidth  = width / columns
//	tileHeight = height / rows
//
// Any remainder pixels on the right and bottom edges are dropped, so the
// tiles never overlap and always have identical dimensions.
//
// Tiles are returned in row-major order: index i covers grid cell
// (i % columns, i / columns). Combine relies on this ordering.
//
// Every tile is an independent copy; modifying one never affects the source
// image or another tile.
//
// # Errors
//
//   - ErrInvalidGrid if columns < 1 or rows < 1
//   - ErrEmptyImage if img is nil or has zero width or height
func Slice(img image.Image, columns, rows int) ([]image.Image, error) {
	if columns < 1 || rows < 1 {
		return nil, fmt.Errorf("slice %dx%d: %w", columns, rows, ErrInvalidGrid)
	}
	if img == nil {
		return nil, ErrEmptyImage
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyImage
	}

	tileWidth := bounds.Dx() / columns
	tileHeight := bounds.Dy() / rows

	tiles := make([]image.Image, 0, columns*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < columns; c++ {
			x := bounds.Min.X + c*tileWidth
			y := bounds.Min.Y + r*tileHeight
			tiles = append(tiles, copyRect(img, image.Rect(x, y, x+tileWidth, y+tileHeight)))
		}
	}

	return tiles, nil
}

// Combine reassembles tiles into a single image laid out in a grid with the
// given number of columns.
//
// The number of rows is ceil(len(tiles) / columns). The first tile's size is
// the canonical cell size; later tiles are not checked against it. Tile i is
// drawn with its top-left corner at (i%columns * tileWidth, i/columns * tileHeight)
// and overwrites whatever is underneath, so a larger tile spills into its
// neighbours and is clipped at the canvas edge.
//
// Cells without a tile (when the count is not a multiple of columns) stay
// fully transparent.
//
// # Errors
//
//   - ErrNoTiles if tiles is empty
//   - ErrInvalidGrid if columns < 1
//   - ErrEmptyImage if the first tile is nil or has no pixels
func Combine(tiles []image.Image, columns int) (*image.NRGBA, error) {
	if len(tiles) == 0 {
		return nil, ErrNoTiles
	}
	if columns < 1 {
		return nil, fmt.Errorf("combine with %d columns: %w", columns, ErrInvalidGrid)
	}
	if tiles[0] == nil || tiles[0].Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	rows := (len(tiles) + columns - 1) / columns
	tileWidth := tiles[0].Bounds().Dx()
	tileHeight := tiles[0].Bounds().Dy()

	if err := checkSize("combine", tileWidth, columns, tileHeight, rows); err != nil {
		return nil, err
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, tileWidth*columns, tileHeight*rows))
	for i, tile := range tiles {
		if tile == nil {
			continue
		}
		origin := image.Pt((i%columns)*tileWidth, (i/columns)*tileHeight)
		tb := tile.Bounds()
		draw.Draw(canvas, image.Rectangle{Min: origin, Max: origin.Add(tb.Size())}, tile, tb.Min, draw.Src)
	}

	return canvas, nil
}

// copyRect returns an independent NRGBA copy of the given region, rebased to (0,0).
func copyRect(img image.Image, r image.Rectangle) *image.NRGBA {
	return imaging.Crop(img, r)
}
