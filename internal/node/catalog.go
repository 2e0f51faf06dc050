package node

import (
	"github.com/ironsheep/image-nodes/internal/imaging"
	"github.com/ironsheep/image-nodes/internal/svg"
)

// NewCatalog returns a registry holding every built-in node type.
func NewCatalog() *Registry {
	r := NewRegistry()
	for _, d := range builtins() {
		r.MustRegister(d)
	}
	return r
}

func builtins() []Descriptor {
	black, white, none := Color("#000000"), Color("#FFFFFF"), Color("none")

	return []Descriptor{
		// Grid
		{
			Type:        "lib.grid.SliceImageGrid",
			Description: "Slice an image into a grid of tiles.",
			Tags:        []string{"image", "grid", "slice", "tiles"},
			BasicFields: []string{"image", "columns", "rows"},
			New:         func() Node { return &SliceImageGrid{} },
		},
		{
			Type:        "lib.grid.CombineImageGrid",
			Description: "Combine a grid of image tiles into a single image.",
			Tags:        []string{"image", "grid", "combine", "tiles"},
			BasicFields: []string{"tiles", "columns"},
			New:         func() Node { return &CombineImageGrid{Tiles: []ImageRef{}} },
		},

		// Image
		{
			Type:        "lib.image.SaveImage",
			Description: "Save an image to a folder.",
			Tags:        []string{"image", "save", "output"},
			BasicFields: []string{"image", "folder", "name"},
			New:         func() Node { return &SaveImage{Name: "image.png"} },
		},
		{
			Type:        "lib.image.GetMetadata",
			Description: "Return basic image metadata.",
			Tags:        []string{"image", "metadata", "info"},
			BasicFields: []string{"image"},
			New:         func() Node { return &GetMetadata{} },
		},
		{
			Type:        "lib.image.BatchToList",
			Description: "Convert a batch image into a list of images.",
			Tags:        []string{"image", "batch", "list"},
			BasicFields: []string{"batch"},
			New:         func() Node { return &BatchToList{} },
		},
		{
			Type:        "lib.image.Paste",
			Description: "Paste one image onto another.",
			Tags:        []string{"image", "paste", "composite"},
			BasicFields: []string{"image", "paste"},
			New:         func() Node { return &Paste{} },
		},
		{
			Type:        "lib.image.Fit",
			Description: "Resize and crop an image to fit the given size.",
			Tags:        []string{"image", "resize", "fit", "crop"},
			BasicFields: []string{"image", "width", "height"},
			New:         func() Node { return &Fit{Width: 512, Height: 512} },
		},
		{
			Type:        "lib.image.Scale",
			Description: "Scale an image by a factor.",
			Tags:        []string{"image", "resize", "scale"},
			BasicFields: []string{"image", "scale"},
			New:         func() Node { return &Scale{Scale: 1.0} },
		},
		{
			Type:        "lib.image.Resize",
			Description: "Resize an image to specific dimensions.",
			Tags:        []string{"image", "resize"},
			BasicFields: []string{"image", "width", "height"},
			New:         func() Node { return &Resize{Width: 512, Height: 512} },
		},
		{
			Type:        "lib.image.Crop",
			Description: "Crop an image region.",
			Tags:        []string{"image", "crop"},
			BasicFields: []string{"image", "left", "top", "right", "bottom"},
			New:         func() Node { return &Crop{Right: 1, Bottom: 1} },
		},
		{
			Type:        "lib.image.ImageOutput",
			Description: "Workflow output for images.",
			Tags:        []string{"image", "output"},
			BasicFields: []string{"value", "name"},
			New:         func() Node { return &ImageOutput{} },
		},

		// Compositing
		{
			Type:        "lib.pillow.Blend",
			Description: "Blend two images with adjustable alpha mixing.",
			Tags:        []string{"blend", "mix", "fade", "transition"},
			BasicFields: []string{"image1", "image2", "alpha"},
			New:         func() Node { return &Blend{Alpha: 0.5} },
		},
		{
			Type:        "lib.pillow.Composite",
			Description: "Combine two images using a mask for advanced compositing.",
			Tags:        []string{"composite", "mask", "blend", "layering"},
			BasicFields: []string{"image1", "image2", "mask"},
			New:         func() Node { return &Composite{} },
		},

		// Filters
		filterNode("Invert", "Invert the colors of an image.", []string{"invert", "negative", "color"},
			func() Node { return &Invert{} }),
		filterNode("Solarize", "Apply a solarize effect to partially invert image tones.", []string{"solarize", "tone"},
			func() Node { return &Solarize{Threshold: 128} }, "threshold"),
		filterNode("Posterize", "Reduce the number of bits per color channel.", []string{"posterize", "quantize"},
			func() Node { return &Posterize{Bits: 4} }, "bits"),
		filterNode("Expand", "Add a border around an image.", []string{"border", "expand", "pad"},
			func() Node { return &Expand{} }, "border", "fill"),
		filterNode("Blur", "Apply a Gaussian blur effect to an image.", []string{"blur", "smooth", "soften"},
			func() Node { return &Blur{Radius: 2} }, "radius"),
		filterNode("Contour", "Apply a contour filter to highlight image edges.", []string{"contour", "edges"},
			func() Node { return &Contour{} }),
		filterNode("Emboss", "Apply an emboss filter for a 3D raised effect.", []string{"emboss", "relief"},
			func() Node { return &Emboss{} }),
		filterNode("FindEdges", "Detect and highlight edges in an image.", []string{"edges", "outline"},
			func() Node { return &FindEdges{} }),
		filterNode("Smooth", "Apply smoothing to reduce image noise and detail.", []string{"smooth", "soften"},
			func() Node { return &Smooth{} }),
		filterNode("Canny", "Apply Canny edge detection to an image.", []string{"canny", "edges", "detection"},
			func() Node { return &Canny{LowThreshold: 100, HighThreshold: 200} }, "low_threshold", "high_threshold"),
		filterNode("ConvertToGrayscale", "Convert an image to grayscale.", []string{"grayscale", "monochrome"},
			func() Node { return &ConvertToGrayscale{} }),
		filterNode("GetChannel", "Extract a specific color channel from an image.", []string{"channel", "extract"},
			func() Node { return &GetChannel{Channel: "R"} }, "channel"),

		// Drawing
		{
			Type:        "lib.pillow.draw.Background",
			Description: "Create an image with a solid background color.",
			Tags:        []string{"background", "solid", "create"},
			BasicFields: []string{"width", "height", "color"},
			New:         func() Node { return &Background{Width: 512, Height: 512, Color: white} },
		},
		{
			Type:        "lib.pillow.draw.GaussianNoise",
			Description: "Create an image of Gaussian noise.",
			Tags:        []string{"noise", "random", "create"},
			BasicFields: []string{"mean", "stddev", "width", "height"},
			New:         func() Node { return &GaussianNoise{Mean: 0, Stddev: 1, Width: 512, Height: 512} },
		},
		{
			Type:        "lib.pillow.draw.RenderText",
			Description: "Render text onto an image.",
			Tags:        []string{"text", "font", "label", "draw"},
			BasicFields: []string{"text", "x", "y", "size", "image"},
			New: func() Node {
				return &RenderText{Font: imaging.FontRegular, Size: 12, Color: black, Align: imaging.AlignLeft}
			},
		},

		// SVG
		svgNode("Circle", "Generate an SVG circle element.", []string{"shape", "circle"},
			func() Node { return &Circle{Radius: 50, Fill: black, Stroke: none, StrokeWidth: 1} }),
		svgNode("Ellipse", "Generate an SVG ellipse element.", []string{"shape", "ellipse"},
			func() Node { return &Ellipse{RX: 100, RY: 50, Fill: black, Stroke: none, StrokeWidth: 1} }),
		svgNode("Rect", "Generate an SVG rectangle element.", []string{"shape", "rect"},
			func() Node { return &Rect{Width: 100, Height: 100, Fill: black, Stroke: none, StrokeWidth: 1} }),
		svgNode("Line", "Generate an SVG line element.", []string{"shape", "line"},
			func() Node { return &Line{X2: 100, Y2: 100, Stroke: black, StrokeWidth: 1} }),
		svgNode("Path", "Generate an SVG path element.", []string{"shape", "path"},
			func() Node { return &Path{Fill: black, Stroke: none, StrokeWidth: 1} }),
		svgNode("Polygon", "Generate an SVG polygon element.", []string{"shape", "polygon"},
			func() Node { return &Polygon{Fill: black, Stroke: none, StrokeWidth: 1} }),
		svgNode("Text", "Add text elements to SVG.", []string{"text", "typography"},
			func() Node {
				return &Text{FontFamily: "Arial", FontSize: 16, Fill: black, TextAnchor: svg.AnchorStart}
			}),
		svgNode("Gradient", "Create linear or radial gradients for SVG elements.", []string{"gradient", "color"},
			func() Node {
				return &Gradient{
					ID: "gradient", GradientType: svg.LinearGradient,
					X2: 100, Y2: 100, Color1: black, Color2: white,
				}
			}),
		svgNode("GaussianBlur", "Apply Gaussian blur filter to SVG elements.", []string{"filter", "blur", "effects"},
			func() Node { return &GaussianBlur{ID: "blur", StdDeviation: 3} }),
		svgNode("DropShadow", "Apply drop shadow filter to SVG elements.", []string{"filter", "shadow", "effects"},
			func() Node { return &DropShadow{ID: "shadow", StdDeviation: 3, DX: 2, DY: 2, Color: black} }),
		svgNode("ClipPath", "Create clipping paths for SVG elements.", []string{"clip", "mask"},
			func() Node { return &ClipPath{ID: "clip"} }),
		svgNode("Transform", "Apply transformations to SVG elements.", []string{"transform", "animation"},
			func() Node { return &Transform{ScaleX: 1, ScaleY: 1} }),
		svgNode("Document", "Combine SVG elements into a complete SVG document.", []string{"document", "combine"},
			func() Node { return &Document{Width: 800, Height: 600, ViewBox: "0 0 800 600"} }),
		svgNode("SVGToImage", "Create an SVG document and convert it to a raster image.", []string{"document", "raster", "convert"},
			func() Node { return &SVGToImage{Width: 800, Height: 600, ViewBox: "0 0 800 600", Scale: 1} }),

		// OCR
		{
			Type:        "lib.ocr.OCR",
			Description: "Perform optical character recognition on an image.",
			Tags:        []string{"ocr", "text", "recognition", "extraction"},
			BasicFields: []string{"image", "language"},
			New:         func() Node { return &OCR{Language: "en"} },
		},
	}
}

func filterNode(name, desc string, tags []string, ctor func() Node, fields ...string) Descriptor {
	return Descriptor{
		Type:        "lib.pillow.filter." + name,
		Description: desc,
		Tags:        append([]string{"image", "filter"}, tags...),
		BasicFields: append([]string{"image"}, fields...),
		New:         ctor,
	}
}

func svgNode(name, desc string, tags []string, ctor func() Node) Descriptor {
	return Descriptor{
		Type:        "lib.svg." + name,
		Description: desc,
		Tags:        append([]string{"svg"}, tags...),
		New:         ctor,
	}
}
