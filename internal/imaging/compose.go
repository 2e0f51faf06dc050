package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
)

// Blend mixes two images of the same size: out = a*(1-alpha) + b*alpha.
func Blend(a, b image.Image, alpha float64) (image.Image, error) {
	if err := sameSize(a, b); err != nil {
		return nil, err
	}
	if alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("%w: blend alpha %.3f outside 0-1", ErrInvalidArgument, alpha)
	}
	return blend.Opacity(a, b, alpha), nil
}

// Composite selects between two images of the same size using a mask.
//
// Where the mask is white the result is taken from a, where it is black from
// b, and gray levels blend proportionally. The mask is converted to
// luminance and must match the image size.
func Composite(a, b, mask image.Image) (*image.NRGBA, error) {
	if err := sameSize(a, b); err != nil {
		return nil, err
	}
	if err := sameSize(a, mask); err != nil {
		return nil, fmt.Errorf("mask: %w", err)
	}

	src := imaging.Clone(a)
	dst := imaging.Clone(b)
	m := imaging.Grayscale(mask)

	for i := 0; i < len(dst.Pix); i += 4 {
		w := uint32(m.Pix[i])
		for c := 0; c < 4; c++ {
			dst.Pix[i+c] = uint8((uint32(src.Pix[i+c])*w + uint32(dst.Pix[i+c])*(255-w) + 127) / 255)
		}
	}

	return dst, nil
}

func sameSize(a, b image.Image) error {
	if a == nil || b == nil || a.Bounds().Empty() || b.Bounds().Empty() {
		return ErrEmptyImage
	}
	if a.Bounds().Size() != b.Bounds().Size() {
		return fmt.Errorf("%w: image sizes differ (%v vs %v)", ErrInvalidArgument, a.Bounds().Size(), b.Bounds().Size())
	}
	return nil
}
