package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Crop extracts the box (left, top)-(right, bottom) from an image.
//
// Coordinates are relative to the image's top-left corner. Parts of the box
// that fall outside the image are filled with transparent pixels, so the
// result is always (right-left) x (bottom-top).
func Crop(img image.Image, left, top, right, bottom int) (*image.NRGBA, error) {
	if img == nil {
		return nil, ErrEmptyImage
	}
	if left >= right || top >= bottom {
		return nil, fmt.Errorf("%w: invalid crop box (%d,%d)-(%d,%d)", ErrInvalidArgument, left, top, right, bottom)
	}
	if err := checkSize("crop", 1, right-left, 1, bottom-top); err != nil {
		return nil, err
	}

	canvas := imaging.New(right-left, bottom-top, color.NRGBA{})
	return imaging.Paste(canvas, img, image.Pt(-left, -top)), nil
}

// Fit resizes and center-crops an image so it exactly fills width x height
// while keeping its aspect ratio.
func Fit(img image.Image, width, height int) (*image.NRGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: fit size %dx%d", ErrInvalidArgument, width, height)
	}
	if err := checkSize("fit", 1, width, 1, height); err != nil {
		return nil, err
	}
	return imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos), nil
}

// Resize stretches an image to exactly width x height.
func Resize(img image.Image, width, height int) (*image.NRGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: resize to %dx%d", ErrInvalidArgument, width, height)
	}
	if err := checkSize("resize", 1, width, 1, height); err != nil {
		return nil, err
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}

// Scale resizes an image by a uniform factor. Dimensions are truncated.
func Scale(img image.Image, factor float64) (*image.NRGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	fw := float64(img.Bounds().Dx()) * factor
	fh := float64(img.Bounds().Dy()) * factor
	if math.IsNaN(fw) || math.IsNaN(fh) || fw > MaxDimension || fh > MaxDimension {
		return nil, fmt.Errorf("scale %.3f: %w: limit is %dx%d", factor, ErrTooLarge, MaxDimension, MaxDimension)
	}
	width, height := int(fw), int(fh)
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: scale %.3f leaves no pixels", ErrInvalidArgument, factor)
	}
	if width == img.Bounds().Dx() && height == img.Bounds().Dy() {
		return imaging.Clone(img), nil
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}

// Paste draws overlay onto a copy of base with its top-left corner at
// (left, top). Overlay pixels replace base pixels, alpha included.
func Paste(base, overlay image.Image, left, top int) (*image.NRGBA, error) {
	if base == nil || overlay == nil {
		return nil, ErrEmptyImage
	}
	return imaging.Paste(base, overlay, base.Bounds().Min.Add(image.Pt(left, top))), nil
}

// Expand adds a border of the given width around an image, filled with a
// gray level.
func Expand(img image.Image, border int, fill uint8) (*image.NRGBA, error) {
	if img == nil {
		return nil, ErrEmptyImage
	}
	if border < 0 {
		return nil, fmt.Errorf("%w: negative border %d", ErrInvalidArgument, border)
	}

	b := img.Bounds()
	if err := checkSize("expand", 1, b.Dx()+2*border, 1, b.Dy()+2*border); err != nil {
		return nil, err
	}
	canvas := imaging.New(b.Dx()+2*border, b.Dy()+2*border, Gray(fill))
	return imaging.Paste(canvas, img, image.Pt(border, border)), nil
}
