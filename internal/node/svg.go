package node

import (
	"context"
	"fmt"

	"github.com/ironsheep/image-nodes/internal/svg"
)

// paint validates c and returns it as an SVG paint value.
func paint(c ColorRef) (string, error) {
	if c.Value == "" {
		return "", nil
	}
	if _, err := c.RGBA(); err != nil {
		return "", err
	}
	return c.Value, nil
}

func style(fill, stroke ColorRef, width int) (svg.Style, error) {
	f, err := paint(fill)
	if err != nil {
		return svg.Style{}, err
	}
	s, err := paint(stroke)
	if err != nil {
		return svg.Style{}, err
	}
	return svg.Style{Fill: f, Stroke: s, StrokeWidth: float64(width)}, nil
}

// Circle creates an SVG circle element.
type Circle struct {
	CX          int      `json:"cx" desc:"Center X coordinate."`
	CY          int      `json:"cy" desc:"Center Y coordinate."`
	Radius      int      `json:"radius" validate:"gte=0" desc:"Radius."`
	Fill        ColorRef `json:"fill" desc:"Fill color."`
	Stroke      ColorRef `json:"stroke" desc:"Stroke color."`
	StrokeWidth int      `json:"stroke_width" validate:"gte=0" desc:"Stroke width."`
}

func (n *Circle) Process(ctx context.Context, pc Context) (any, error) {
	st, err := style(n.Fill, n.Stroke, n.StrokeWidth)
	if err != nil {
		return nil, err
	}
	return svg.Circle(float64(n.CX), float64(n.CY), float64(n.Radius), st), nil
}

// Ellipse creates an SVG ellipse element.
type Ellipse struct {
	CX          int      `json:"cx" desc:"Center X coordinate."`
	CY          int      `json:"cy" desc:"Center Y coordinate."`
	RX          int      `json:"rx" validate:"gte=0" desc:"X radius."`
	RY          int      `json:"ry" validate:"gte=0" desc:"Y radius."`
	Fill        ColorRef `json:"fill" desc:"Fill color."`
	Stroke      ColorRef `json:"stroke" desc:"Stroke color."`
	StrokeWidth int      `json:"stroke_width" validate:"gte=0" desc:"Stroke width."`
}

func (n *Ellipse) Process(ctx context.Context, pc Context) (any, error) {
	st, err := style(n.Fill, n.Stroke, n.StrokeWidth)
	if err != nil {
		return nil, err
	}
	return svg.Ellipse(float64(n.CX), float64(n.CY), float64(n.RX), float64(n.RY), st), nil
}

// Rect creates an SVG rectangle element.
type Rect struct {
	X           int      `json:"x" desc:"X coordinate."`
	Y           int      `json:"y" desc:"Y coordinate."`
	Width       int      `json:"width" validate:"gte=0" desc:"Width."`
	Height      int      `json:"height" validate:"gte=0" desc:"Height."`
	Fill        ColorRef `json:"fill" desc:"Fill color."`
	Stroke      ColorRef `json:"stroke" desc:"Stroke color."`
	StrokeWidth int      `json:"stroke_width" validate:"gte=0" desc:"Stroke width."`
}

func (n *Rect) Process(ctx context.Context, pc Context) (any, error) {
	st, err := style(n.Fill, n.Stroke, n.StrokeWidth)
	if err != nil {
		return nil, err
	}
	return svg.Rect(float64(n.X), float64(n.Y), float64(n.Width), float64(n.Height), st), nil
}

// Line creates an SVG line element.
type Line struct {
	X1          int      `json:"x1" desc:"Start X coordinate."`
	Y1          int      `json:"y1" desc:"Start Y coordinate."`
	X2          int      `json:"x2" desc:"End X coordinate."`
	Y2          int      `json:"y2" desc:"End Y coordinate."`
	Stroke      ColorRef `json:"stroke" desc:"Stroke color."`
	StrokeWidth int      `json:"stroke_width" validate:"gte=0" desc:"Stroke width."`
}

func (n *Line) Process(ctx context.Context, pc Context) (any, error) {
	st, err := style(ColorRef{}, n.Stroke, n.StrokeWidth)
	if err != nil {
		return nil, err
	}
	return svg.Line(float64(n.X1), float64(n.Y1), float64(n.X2), float64(n.Y2), st), nil
}

// Path creates an SVG path element.
type Path struct {
	PathData    string   `json:"path_data" required:"true" desc:"SVG path data (d attribute)."`
	Fill        ColorRef `json:"fill" desc:"Fill color."`
	Stroke      ColorRef `json:"stroke" desc:"Stroke color."`
	StrokeWidth int      `json:"stroke_width" validate:"gte=0" desc:"Stroke width."`
}

func (n *Path) Process(ctx context.Context, pc Context) (any, error) {
	st, err := style(n.Fill, n.Stroke, n.StrokeWidth)
	if err != nil {
		return nil, err
	}
	return svg.Path(n.PathData, st), nil
}

// Polygon creates an SVG polygon element.
type Polygon struct {
	Points      string   `json:"points" required:"true" desc:"Points in format 'x1,y1 x2,y2 x3,y3...'."`
	Fill        ColorRef `json:"fill" desc:"Fill color."`
	Stroke      ColorRef `json:"stroke" desc:"Stroke color."`
	StrokeWidth int      `json:"stroke_width" validate:"gte=0" desc:"Stroke width."`
}

func (n *Polygon) Process(ctx context.Context, pc Context) (any, error) {
	st, err := style(n.Fill, n.Stroke, n.StrokeWidth)
	if err != nil {
		return nil, err
	}
	return svg.Polygon(n.Points, st), nil
}

// Text creates an SVG text element.
type Text struct {
	Text       string   `json:"text" desc:"Text content."`
	X          int      `json:"x" desc:"X coordinate."`
	Y          int      `json:"y" desc:"Y coordinate."`
	FontFamily string   `json:"font_family" desc:"Font family."`
	FontSize   int      `json:"font_size" validate:"gte=1" desc:"Font size."`
	Fill       ColorRef `json:"fill" desc:"Text color."`
	TextAnchor string   `json:"text_anchor" validate:"oneof=start middle end" desc:"Text anchor position."`
}

func (n *Text) Process(ctx context.Context, pc Context) (any, error) {
	fill, err := paint(n.Fill)
	if err != nil {
		return nil, err
	}
	return svg.Text(n.Text, float64(n.X), float64(n.Y), svg.TextStyle{
		FontFamily: n.FontFamily,
		FontSize:   float64(n.FontSize),
		Fill:       fill,
		Anchor:     n.TextAnchor,
	}), nil
}

// Gradient creates a linear or radial gradient definition.
type Gradient struct {
	ID           string   `json:"id" required:"true" desc:"Identifier used to reference the gradient."`
	GradientType string   `json:"gradient_type" validate:"oneof=linear radial" desc:"Type of gradient."`
	X1           float64  `json:"x1" desc:"Start X position (linear) or center X (radial)."`
	Y1           float64  `json:"y1" desc:"Start Y position (linear) or center Y (radial)."`
	X2           float64  `json:"x2" desc:"End X position (linear) or radius X (radial)."`
	Y2           float64  `json:"y2" desc:"End Y position (linear) or radius Y (radial)."`
	Color1       ColorRef `json:"color1" desc:"Start color of gradient."`
	Color2       ColorRef `json:"color2" desc:"End color of gradient."`
}

func (n *Gradient) Process(ctx context.Context, pc Context) (any, error) {
	from, err := paint(n.Color1)
	if err != nil {
		return nil, err
	}
	to, err := paint(n.Color2)
	if err != nil {
		return nil, err
	}
	g, err := svg.Gradient(n.ID, n.GradientType, n.X1, n.Y1, n.X2, n.Y2, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return g, nil
}

// GaussianBlur creates an SVG blur filter.
type GaussianBlur struct {
	ID           string  `json:"id" required:"true" desc:"Filter identifier."`
	StdDeviation float64 `json:"std_deviation" validate:"gte=0" desc:"Standard deviation for blur."`
}

func (n *GaussianBlur) Process(ctx context.Context, pc Context) (any, error) {
	return svg.GaussianBlur(n.ID, n.StdDeviation), nil
}

// DropShadow creates an SVG drop shadow filter.
type DropShadow struct {
	ID           string   `json:"id" required:"true" desc:"Filter identifier."`
	StdDeviation float64  `json:"std_deviation" validate:"gte=0" desc:"Standard deviation for blur."`
	DX           int      `json:"dx" desc:"X offset for shadow."`
	DY           int      `json:"dy" desc:"Y offset for shadow."`
	Color        ColorRef `json:"color" desc:"Color for shadow."`
}

func (n *DropShadow) Process(ctx context.Context, pc Context) (any, error) {
	c, err := paint(n.Color)
	if err != nil {
		return nil, err
	}
	return svg.DropShadow(n.ID, n.StdDeviation, float64(n.DX), float64(n.DY), c), nil
}

// ClipPath clips one element with the shape of another.
type ClipPath struct {
	ID          string      `json:"id" required:"true" desc:"Clip path identifier."`
	ClipContent svg.Element `json:"clip_content" required:"true" desc:"SVG element to use as clip path."`
	Content     svg.Element `json:"content" required:"true" desc:"SVG element to clip."`
}

func (n *ClipPath) Process(ctx context.Context, pc Context) (any, error) {
	return svg.ClipPath(n.ID, n.ClipContent, n.Content), nil
}

// Transform translates, rotates and scales an element.
type Transform struct {
	Content    svg.Element `json:"content" required:"true" desc:"SVG element to transform."`
	TranslateX float64     `json:"translate_x" desc:"X translation."`
	TranslateY float64     `json:"translate_y" desc:"Y translation."`
	Rotate     float64     `json:"rotate" desc:"Rotation angle in degrees."`
	ScaleX     float64     `json:"scale_x" desc:"X scale factor."`
	ScaleY     float64     `json:"scale_y" desc:"Y scale factor."`
}

func (n *Transform) Process(ctx context.Context, pc Context) (any, error) {
	t := svg.Transform{
		TranslateX: n.TranslateX,
		TranslateY: n.TranslateY,
		Rotate:     n.Rotate,
		ScaleX:     n.ScaleX,
		ScaleY:     n.ScaleY,
	}
	return t.Apply(n.Content), nil
}

// Document wraps content in a complete SVG document.
type Document struct {
	Content svg.Content `json:"content" desc:"SVG content: markup, an element or a list of elements."`
	Width   int         `json:"width" validate:"gte=1,lte=4096" desc:"Document width."`
	Height  int         `json:"height" validate:"gte=1,lte=4096" desc:"Document height."`
	ViewBox string      `json:"viewBox" desc:"SVG viewBox attribute."`
}

func (n *Document) Process(ctx context.Context, pc Context) (any, error) {
	doc, err := n.render()
	if err != nil {
		return nil, err
	}
	return SVGRef{Data: string(doc)}, nil
}

func (n *Document) render() ([]byte, error) {
	doc, err := svg.Document(n.Width, n.Height, n.ViewBox, n.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return doc, nil
}

// SVGToImage renders SVG content to a raster image with rsvg-convert.
type SVGToImage struct {
	Content svg.Content `json:"content" desc:"SVG content: markup, an element or a list of elements."`
	Width   int         `json:"width" validate:"gte=1,lte=4096" desc:"Document width."`
	Height  int         `json:"height" validate:"gte=1,lte=4096" desc:"Document height."`
	ViewBox string      `json:"viewBox" desc:"SVG viewBox attribute."`
	Scale   int         `json:"scale" validate:"gte=1,lte=10" desc:"Scale factor for rasterization."`
}

func (n *SVGToImage) Process(ctx context.Context, pc Context) (any, error) {
	doc := Document{Content: n.Content, Width: n.Width, Height: n.Height, ViewBox: n.ViewBox}
	data, err := doc.render()
	if err != nil {
		return nil, err
	}
	png, err := svg.Rasterizer{Binary: pc.Env().RSVGConvert}.ToPNG(ctx, data, float64(n.Scale))
	if err != nil {
		return nil, err
	}
	return pc.StoreBytes(ctx, png)
}
