package node

import (
	"context"
	"image"

	"github.com/ironsheep/image-nodes/internal/imaging"
)

// SaveImage writes an image into a folder.
type SaveImage struct {
	Image  ImageRef  `json:"image" required:"true" desc:"The image to save."`
	Folder FolderRef `json:"folder" desc:"The folder to save the image in. Empty keeps the image where it is."`
	Name   string    `json:"name" desc:"File name."`
}

func (n *SaveImage) Process(ctx context.Context, pc Context) (any, error) {
	return pc.SaveImage(ctx, n.Image, n.Folder, n.Name)
}

// GetMetadata reports an image's size and pixel format.
type GetMetadata struct {
	Image ImageRef `json:"image" required:"true" desc:"Image to inspect."`
}

func (n *GetMetadata) Process(ctx context.Context, pc Context) (any, error) {
	img, err := pc.LoadImage(ctx, n.Image)
	if err != nil {
		return nil, err
	}
	return imaging.Describe(img), nil
}

// BatchToList splits a batch reference into one reference per frame.
type BatchToList struct {
	Batch ImageRef `json:"batch" required:"true" desc:"Batch of images."`
}

// Process returns an empty list when the reference carries no frames.
func (n *BatchToList) Process(ctx context.Context, pc Context) (any, error) {
	refs := make([]ImageRef, 0, len(n.Batch.Batch))
	for _, frame := range n.Batch.Batch {
		ref, err := pc.StoreBytes(ctx, frame)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// Paste draws one image on top of another.
type Paste struct {
	Image ImageRef `json:"image" required:"true" desc:"Base image."`
	Paste ImageRef `json:"paste" required:"true" desc:"Image to paste."`
	Left  int      `json:"left" desc:"Left position."`
	Top   int      `json:"top" desc:"Top position."`
}

func (n *Paste) Process(ctx context.Context, pc Context) (any, error) {
	base, err := pc.LoadImage(ctx, n.Image)
	if err != nil {
		return nil, err
	}
	overlay, err := pc.LoadImage(ctx, n.Paste)
	if err != nil {
		return nil, err
	}
	out, err := imaging.Paste(base, overlay, n.Left, n.Top)
	if err != nil {
		return nil, err
	}
	return pc.StoreImage(ctx, out)
}

// Fit resizes and center-crops an image to exactly width×height.
type Fit struct {
	Image  ImageRef `json:"image" required:"true" desc:"Image to fit."`
	Width  int      `json:"width" validate:"gte=1,lte=16384" desc:"Target width."`
	Height int      `json:"height" validate:"gte=1,lte=16384" desc:"Target height."`
}

func (n *Fit) Process(ctx context.Context, pc Context) (any, error) {
	return transform(ctx, pc, n.Image, func(img image.Image) (image.Image, error) {
		return imaging.Fit(img, n.Width, n.Height)
	})
}

// Scale resizes an image by a factor.
type Scale struct {
	Image ImageRef `json:"image" required:"true" desc:"Image to scale."`
	Scale float64  `json:"scale" validate:"gte=0,lte=64" desc:"Scale factor."`
}

func (n *Scale) Process(ctx context.Context, pc Context) (any, error) {
	return transform(ctx, pc, n.Image, func(img image.Image) (image.Image, error) {
		return imaging.Scale(img, n.Scale)
	})
}

// Resize stretches an image to width×height.
type Resize struct {
	Image  ImageRef `json:"image" required:"true" desc:"Image to resize."`
	Width  int      `json:"width" validate:"gte=1,lte=16384" desc:"Width."`
	Height int      `json:"height" validate:"gte=1,lte=16384" desc:"Height."`
}

func (n *Resize) Process(ctx context.Context, pc Context) (any, error) {
	return transform(ctx, pc, n.Image, func(img image.Image) (image.Image, error) {
		return imaging.Resize(img, n.Width, n.Height)
	})
}

// Crop cuts out the box (left, top)-(right, bottom). Parts of the box
// outside the image come out transparent.
type Crop struct {
	Image  ImageRef `json:"image" required:"true" desc:"Image to crop."`
	Left   int      `json:"left" validate:"gte=0,lte=16384" desc:"Left."`
	Top    int      `json:"top" validate:"gte=0,lte=16384" desc:"Top."`
	Right  int      `json:"right" validate:"gte=1,lte=32768" desc:"Right."`
	Bottom int      `json:"bottom" validate:"gte=1,lte=32768" desc:"Bottom."`
}

func (n *Crop) Process(ctx context.Context, pc Context) (any, error) {
	return transform(ctx, pc, n.Image, func(img image.Image) (image.Image, error) {
		return imaging.Crop(img, n.Left, n.Top, n.Right, n.Bottom)
	})
}

// ImageOutput publishes an image as a named workflow output.
type ImageOutput struct {
	Value ImageRef `json:"value" required:"true" desc:"Image value."`
	Name  string   `json:"name" desc:"The parameter name for the workflow."`
}

func (n *ImageOutput) Process(ctx context.Context, pc Context) (any, error) {
	return n.Value, nil
}

// OutputName is the name the value is published under.
func (n *ImageOutput) OutputName() string {
	return n.Name
}

// Output is implemented by nodes whose result is a named workflow output.
type Output interface {
	Node
	OutputName() string
}

// transform loads ref, applies fn and stores the result.
func transform(ctx context.Context, pc Context, ref ImageRef, fn func(image.Image) (image.Image, error)) (ImageRef, error) {
	img, err := pc.LoadImage(ctx, ref)
	if err != nil {
		return ImageRef{}, err
	}
	out, err := fn(img)
	if err != nil {
		return ImageRef{}, err
	}
	return pc.StoreImage(ctx, out)
}
