package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/channel"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// 3x3 kernels with the same weights, scale and offset as the classic
// CONTOUR, FIND_EDGES and SMOOTH filters.
var (
	contourKernel   = [9]float64{-1, -1, -1, -1, 8, -1, -1, -1, -1}
	findEdgesKernel = [9]float64{-1, -1, -1, -1, 8, -1, -1, -1, -1}
	smoothKernel    = [9]float64{1, 1, 1, 1, 5, 1, 1, 1, 1}
)

// Invert returns the negative of an image. Alpha is preserved.
func Invert(img image.Image) *image.NRGBA {
	return imaging.Invert(img)
}

// Solarize inverts every color channel value at or above threshold.
func Solarize(img image.Image, threshold uint8) *image.NRGBA {
	flip := func(v uint8) uint8 {
		if v >= threshold {
			return 255 - v
		}
		return v
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: flip(c.R), G: flip(c.G), B: flip(c.B), A: c.A}
	})
}

// Posterize keeps only the top bits of each color channel.
func Posterize(img image.Image, bits int) (*image.NRGBA, error) {
	if bits < 1 || bits > 8 {
		return nil, fmt.Errorf("%w: posterize bits %d outside 1-8", ErrInvalidArgument, bits)
	}
	mask := ^uint8(1<<(8-bits) - 1)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: c.R & mask, G: c.G & mask, B: c.B & mask, A: c.A}
	}), nil
}

// Blur applies a Gaussian blur with the given radius. A radius of zero
// returns an unblurred copy.
func Blur(img image.Image, radius float64) image.Image {
	if radius <= 0 {
		return imaging.Clone(img)
	}
	return blur.Gaussian(img, radius)
}

// Contour traces the outlines of shapes: flat areas become white and
// boundaries dark.
func Contour(img image.Image) *image.NRGBA {
	return imaging.Convolve3x3(img, contourKernel, &imaging.ConvolveOptions{Bias: 255})
}

// FindEdges highlights boundaries as bright lines on black.
func FindEdges(img image.Image) *image.NRGBA {
	return imaging.Convolve3x3(img, findEdgesKernel, nil)
}

// Smooth applies a light center-weighted smoothing filter.
func Smooth(img image.Image) *image.NRGBA {
	return imaging.Convolve3x3(img, smoothKernel, &imaging.ConvolveOptions{Normalize: true})
}

// Emboss gives an image a raised, stamped appearance.
func Emboss(img image.Image) image.Image {
	return effect.Emboss(img)
}

// Grayscale converts an image to gray levels. Alpha is preserved.
func Grayscale(img image.Image) *image.NRGBA {
	return imaging.Grayscale(img)
}

// Channel extracts a single color channel ("R", "G" or "B") as a grayscale image.
func Channel(img image.Image, name string) (*image.Gray, error) {
	var c channel.Channel
	switch strings.ToUpper(name) {
	case "R":
		c = channel.Red
	case "G":
		c = channel.Green
	case "B":
		c = channel.Blue
	default:
		return nil, fmt.Errorf("%w: unknown channel %q", ErrInvalidArgument, name)
	}
	return channel.Extract(img, c), nil
}
