package node

import (
	"context"
	"image"
	"math/rand"

	"github.com/ironsheep/image-nodes/internal/imaging"
)

// Blend mixes two same-sized images.
type Blend struct {
	Image1 ImageRef `json:"image1" required:"true" desc:"The first image to blend."`
	Image2 ImageRef `json:"image2" required:"true" desc:"The second image to blend."`
	Alpha  float64  `json:"alpha" validate:"gte=0,lte=1" desc:"The mix ratio."`
}

func (n *Blend) Process(ctx context.Context, pc Context) (any, error) {
	a, b, err := loadPair(ctx, pc, n.Image1, n.Image2)
	if err != nil {
		return nil, err
	}
	out, err := imaging.Blend(a, b, n.Alpha)
	if err != nil {
		return nil, err
	}
	return pc.StoreImage(ctx, out)
}

// Composite picks image1 where the mask is white and image2 where it is
// black, mixing in between.
type Composite struct {
	Image1 ImageRef `json:"image1" required:"true" desc:"The first image to composite."`
	Image2 ImageRef `json:"image2" required:"true" desc:"The second image to composite."`
	Mask   ImageRef `json:"mask" required:"true" desc:"The mask to composite with."`
}

func (n *Composite) Process(ctx context.Context, pc Context) (any, error) {
	a, b, err := loadPair(ctx, pc, n.Image1, n.Image2)
	if err != nil {
		return nil, err
	}
	mask, err := pc.LoadImage(ctx, n.Mask)
	if err != nil {
		return nil, err
	}
	out, err := imaging.Composite(a, b, mask)
	if err != nil {
		return nil, err
	}
	return pc.StoreImage(ctx, out)
}

// Invert negates every colour channel.
type Invert struct {
	Image ImageRef `json:"image" required:"true" desc:"The image to adjust the brightness for."`
}

func (n *Invert) Process(ctx context.Context, pc Context) (any, error) {
	return filter(ctx, pc, n.Image, func(img image.Image) image.Image { return imaging.Invert(img) })
}

// Solarize inverts channel values above a threshold.
type Solarize struct {
	Image     ImageRef `json:"image" required:"true" desc:"The image to solarize."`
	Threshold int      `json:"threshold" validate:"gte=0,lte=255" desc:"Threshold for solarization."`
}

func (n *Solarize) Process(ctx context.Context, pc Context) (any, error) {
	return filter(ctx, pc, n.Image, func(img image.Image) image.Image {
		return imaging.Solarize(img, uint8(n.Threshold))
	})
}

// Posterize keeps only the top bits of each channel.
type Posterize struct {
	Image ImageRef `json:"image" required:"true" desc:"The image to posterize."`
	Bits  int      `json:"bits" validate:"gte=1,lte=8" desc:"Number of bits to posterize to."`
}

func (n *Posterize) Process(ctx context.Context, pc Context) (any, error) {
	return transform(ctx, pc, n.Image, func(img image.Image) (image.Image, error) {
		return imaging.Posterize(img, n.Bits)
	})
}

// Expand adds a solid grey border.
type Expand struct {
	Image  ImageRef `json:"image" required:"true" desc:"The image to expand."`
	Border int      `json:"border" validate:"gte=0,lte=512" desc:"Border size."`
	Fill   int      `json:"fill" validate:"gte=0,lte=255" desc:"Fill color."`
}

func (n *Expand) Process(ctx context.Context, pc Context) (any, error) {
	return transform(ctx, pc, n.Image, func(img image.Image) (image.Image, error) {
		return imaging.Expand(img, n.Border, uint8(n.Fill))
	})
}

// Blur applies a Gaussian blur.
type Blur struct {
	Image  ImageRef `json:"image" required:"true" desc:"The image to blur."`
	Radius float64  `json:"radius" validate:"gte=0,lte=128" desc:"Blur radius."`
}

func (n *Blur) Process(ctx context.Context, pc Context) (any, error) {
	return filter(ctx, pc, n.Image, func(img image.Image) image.Image {
		return imaging.Blur(img, n.Radius)
	})
}

// Contour traces the outlines in an image.
type Contour struct {
	Image ImageRef `json:"image" required:"true" desc:"The image to contour."`
}

func (n *Contour) Process(ctx context.Context, pc Context) (any, error) {
	return filter(ctx, pc, n.Image, func(img image.Image) image.Image { return imaging.Contour(img) })
}

// Emboss gives an image a raised relief look.
type Emboss struct {
	Image ImageRef `json:"image" required:"true" desc:"The image to emboss."`
}

func (n *Emboss) Process(ctx context.Context, pc Context) (any, error) {
	return filter(ctx, pc, n.Image, imaging.Emboss)
}

// FindEdges highlights edges with a Laplacian kernel.
type FindEdges struct {
	Image ImageRef `json:"image" required:"true" desc:"The image to find edges."`
}

func (n *FindEdges) Process(ctx context.Context, pc Context) (any, error) {
	return filter(ctx, pc, n.Image, func(img image.Image) image.Image { return imaging.FindEdges(img) })
}

// Smooth applies a light smoothing kernel.
type Smooth struct {
	Image ImageRef `json:"image" required:"true" desc:"The image to smooth."`
}

func (n *Smooth) Process(ctx context.Context, pc Context) (any, error) {
	return filter(ctx, pc, n.Image, func(img image.Image) image.Image { return imaging.Smooth(img) })
}

// Canny detects edges with hysteresis thresholds.
type Canny struct {
	Image         ImageRef `json:"image" required:"true" desc:"The image to apply Canny edge detection to."`
	LowThreshold  int      `json:"low_threshold" validate:"gte=0,lte=255" desc:"Low threshold."`
	HighThreshold int      `json:"high_threshold" validate:"gte=0,lte=255" desc:"High threshold."`
}

func (n *Canny) Process(ctx context.Context, pc Context) (any, error) {
	return transform(ctx, pc, n.Image, func(img image.Image) (image.Image, error) {
		return imaging.Canny(img, n.LowThreshold, n.HighThreshold)
	})
}

// ConvertToGrayscale drops colour information.
type ConvertToGrayscale struct {
	Image ImageRef `json:"image" required:"true" desc:"The image to convert."`
}

func (n *ConvertToGrayscale) Process(ctx context.Context, pc Context) (any, error) {
	return filter(ctx, pc, n.Image, func(img image.Image) image.Image { return imaging.Grayscale(img) })
}

// GetChannel extracts a single colour channel as a grey image.
type GetChannel struct {
	Image   ImageRef `json:"image" required:"true" desc:"The image to get the channel from."`
	Channel string   `json:"channel" validate:"oneof=R G B" desc:"Channel to extract."`
}

func (n *GetChannel) Process(ctx context.Context, pc Context) (any, error) {
	return transform(ctx, pc, n.Image, func(img image.Image) (image.Image, error) {
		return imaging.Channel(img, n.Channel)
	})
}

// Background creates a solid colour image.
type Background struct {
	Width  int      `json:"width" validate:"gte=1,lte=4096"`
	Height int      `json:"height" validate:"gte=1,lte=4096"`
	Color  ColorRef `json:"color"`
}

func (n *Background) Process(ctx context.Context, pc Context) (any, error) {
	c, err := n.Color.RGBA()
	if err != nil {
		return nil, err
	}
	img, err := imaging.Background(n.Width, n.Height, c)
	if err != nil {
		return nil, err
	}
	return pc.StoreImage(ctx, img)
}

// GaussianNoise creates an image of normally distributed noise. Intensities
// use a 0-1 scale.
type GaussianNoise struct {
	Mean   float64 `json:"mean"`
	Stddev float64 `json:"stddev" validate:"gte=0"`
	Width  int     `json:"width" validate:"gte=1,lte=4096"`
	Height int     `json:"height" validate:"gte=1,lte=4096"`

	// Seed makes the output reproducible. Zero draws from the shared source.
	Seed int64 `json:"seed" desc:"Random seed; 0 picks a random one."`
}

func (n *GaussianNoise) Process(ctx context.Context, pc Context) (any, error) {
	var rng *rand.Rand
	if n.Seed != 0 {
		rng = rand.New(rand.NewSource(n.Seed))
	}
	img, err := imaging.GaussianNoise(n.Width, n.Height, n.Mean, n.Stddev, rng)
	if err != nil {
		return nil, err
	}
	return pc.StoreImage(ctx, img)
}

// RenderText draws a string onto an image.
type RenderText struct {
	Text  string   `json:"text" desc:"The text to render."`
	Font  string   `json:"font" validate:"oneof=GoRegular GoBold GoItalic GoMono" desc:"The font to use."`
	X     int      `json:"x" desc:"The x coordinate."`
	Y     int      `json:"y" desc:"The y coordinate."`
	Size  int      `json:"size" validate:"gte=1,lte=512" desc:"The font size."`
	Color ColorRef `json:"color" desc:"The font color."`
	Align string   `json:"align" validate:"oneof=left center right"`
	Image ImageRef `json:"image" required:"true" desc:"The image to render on."`
}

func (n *RenderText) Process(ctx context.Context, pc Context) (any, error) {
	c, err := n.Color.RGBA()
	if err != nil {
		return nil, err
	}
	return transform(ctx, pc, n.Image, func(img image.Image) (image.Image, error) {
		return imaging.RenderText(img, n.Text, n.X, n.Y, imaging.TextOptions{
			Font:  n.Font,
			Size:  float64(n.Size),
			Color: c,
			Align: n.Align,
		})
	})
}

func loadPair(ctx context.Context, pc Context, a, b ImageRef) (image.Image, image.Image, error) {
	first, err := pc.LoadImage(ctx, a)
	if err != nil {
		return nil, nil, err
	}
	second, err := pc.LoadImage(ctx, b)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func filter(ctx context.Context, pc Context, ref ImageRef, fn func(image.Image) image.Image) (ImageRef, error) {
	return transform(ctx, pc, ref, func(img image.Image) (image.Image, error) {
		return fn(img), nil
	})
}
