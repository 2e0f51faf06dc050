package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/noise"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts available to RenderText.
const (
	FontRegular = "GoRegular"
	FontBold    = "GoBold"
	FontItalic  = "GoItalic"
	FontMono    = "GoMono"
)

// Text alignments for RenderText.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

var fontData = map[string][]byte{
	FontRegular: goregular.TTF,
	FontBold:    gobold.TTF,
	FontItalic:  goitalic.TTF,
	FontMono:    gomono.TTF,
}

var (
	fontsMu sync.Mutex
	fonts   = map[string]*truetype.Font{}
)

// Background creates a solid image of the given size and color.
func Background(width, height int, c color.Color) (*image.NRGBA, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: background size %dx%d", ErrInvalidArgument, width, height)
	}
	return imaging.New(width, height, c), nil
}

// GaussianNoise creates an image whose channels are independent samples from
// a normal distribution with the given mean and standard deviation.
//
// Samples are expressed on a 0-1 intensity scale, clamped to that range and
// mapped to 0-255. A nil rng uses the shared source from math/rand.
func GaussianNoise(width, height int, mean, stddev float64, rng *rand.Rand) (*image.RGBA, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: noise size %dx%d", ErrInvalidArgument, width, height)
	}
	if stddev < 0 {
		return nil, fmt.Errorf("%w: negative standard deviation", ErrInvalidArgument)
	}

	normal := rand.NormFloat64
	if rng != nil {
		normal = rng.NormFloat64
	}

	sample := func() uint8 {
		v := mean + stddev*normal()
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}

	return noise.Generate(width, height, &noise.Options{NoiseFn: sample}), nil
}

// TextOptions controls how RenderText draws a string.
type TextOptions struct {
	Font  string
	Size  float64
	Color color.Color
	Align string
}

// RenderText draws text onto a copy of img.
//
// (x, y) is the top edge of the text. The horizontal anchor depends on Align:
// left places the text's left edge at x, center its middle and right its end.
func RenderText(img image.Image, text string, x, y int, opts TextOptions) (image.Image, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if opts.Size <= 0 {
		return nil, fmt.Errorf("%w: font size must be positive", ErrInvalidArgument)
	}

	var ax float64
	switch strings.ToLower(opts.Align) {
	case "", AlignLeft:
		ax = 0
	case AlignCenter:
		ax = 0.5
	case AlignRight:
		ax = 1
	default:
		return nil, fmt.Errorf("%w: unknown alignment %q", ErrInvalidArgument, opts.Align)
	}

	f, err := loadFont(opts.Font)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContextForImage(img)
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: opts.Size}))
	if opts.Color != nil {
		dc.SetColor(opts.Color)
	} else {
		dc.SetColor(color.Black)
	}
	dc.DrawStringAnchored(text, float64(x), float64(y), ax, 1)

	return dc.Image(), nil
}

func loadFont(name string) (*truetype.Font, error) {
	if name == "" {
		name = FontRegular
	}

	fontsMu.Lock()
	defer fontsMu.Unlock()

	if f, ok := fonts[name]; ok {
		return f, nil
	}

	data, ok := fontData[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown font %q", ErrInvalidArgument, name)
	}

	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	fonts[name] = f
	return f, nil
}
