package svg

import (
	"fmt"
	"math"
	"strings"
)

// Style holds the paint attributes shared by shape elements.
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
}

func (s Style) apply(e Element) Element {
	if s.Fill != "" {
		e.Attributes["fill"] = s.Fill
	}
	if s.Stroke != "" {
		e.Attributes["stroke"] = s.Stroke
	}
	if s.StrokeWidth > 0 {
		e.Attributes["stroke-width"] = Number(s.StrokeWidth)
	}
	return e
}

// Circle returns a <circle> centred on (cx, cy).
func Circle(cx, cy, r float64, style Style) Element {
	return style.apply(New("circle", "cx", Number(cx), "cy", Number(cy), "r", Number(r)))
}

// Ellipse returns an <ellipse> centred on (cx, cy).
func Ellipse(cx, cy, rx, ry float64, style Style) Element {
	return style.apply(New("ellipse",
		"cx", Number(cx), "cy", Number(cy), "rx", Number(rx), "ry", Number(ry)))
}

// Rect returns a <rect> with its top-left corner at (x, y).
func Rect(x, y, width, height float64, style Style) Element {
	return style.apply(New("rect",
		"x", Number(x), "y", Number(y), "width", Number(width), "height", Number(height)))
}

// Line returns a <line> from (x1, y1) to (x2, y2). Lines ignore Style.Fill.
func Line(x1, y1, x2, y2 float64, style Style) Element {
	style.Fill = ""
	return style.apply(New("line",
		"x1", Number(x1), "y1", Number(y1), "x2", Number(x2), "y2", Number(y2)))
}

// Path returns a <path> with the given path data.
func Path(d string, style Style) Element {
	return style.apply(New("path", "d", d))
}

// Polygon returns a <polygon> with points given as "x1,y1 x2,y2 ...".
func Polygon(points string, style Style) Element {
	return style.apply(New("polygon", "points", strings.TrimSpace(points)))
}

// Text anchors accepted by Text.
const (
	AnchorStart  = "start"
	AnchorMiddle = "middle"
	AnchorEnd    = "end"
)

// TextStyle holds font attributes for Text.
type TextStyle struct {
	FontFamily string
	FontSize   float64
	Fill       string
	Anchor     string
}

// Text returns a <text> element at (x, y).
func Text(text string, x, y float64, style TextStyle) Element {
	e := New("text", "x", Number(x), "y", Number(y))
	if style.FontFamily != "" {
		e.Attributes["font-family"] = style.FontFamily
	}
	if style.FontSize > 0 {
		e.Attributes["font-size"] = Number(style.FontSize)
	}
	if style.Fill != "" {
		e.Attributes["fill"] = style.Fill
	}
	if style.Anchor != "" {
		e.Attributes["text-anchor"] = strings.ToLower(style.Anchor)
	}
	e.Content = text
	return e
}

// Gradient kinds accepted by Gradient.
const (
	LinearGradient = "linear"
	RadialGradient = "radial"
)

// Gradient returns a two-stop gradient definition. Coordinates are
// percentages; for radial gradients (x1, y1) is the centre and the distance to
// (x2, y2) the radius.
func Gradient(id, kind string, x1, y1, x2, y2 float64, from, to string) (Element, error) {
	var g Element
	switch strings.ToLower(kind) {
	case LinearGradient:
		g = New("linearGradient", "id", id,
			"x1", pct(x1), "y1", pct(y1), "x2", pct(x2), "y2", pct(y2))
	case RadialGradient:
		dx, dy := x2-x1, y2-y1
		r := math.Sqrt(dx*dx + dy*dy)
		g = New("radialGradient", "id", id, "cx", pct(x1), "cy", pct(y1), "r", pct(r))
	default:
		return Element{}, fmt.Errorf("unknown gradient type %q", kind)
	}

	return g.Append(
		New("stop", "offset", "0%", "stop-color", from),
		New("stop", "offset", "100%", "stop-color", to),
	), nil
}

// GaussianBlur returns a <filter> that blurs its source graphic.
func GaussianBlur(id string, stdDeviation float64) Element {
	return New("filter", "id", id).Append(
		New("feGaussianBlur", "in", "SourceGraphic", "stdDeviation", Number(stdDeviation)),
	)
}

// DropShadow returns a <filter> that draws a shadow offset by (dx, dy).
func DropShadow(id string, stdDeviation, dx, dy float64, color string) Element {
	return New("filter", "id", id).Append(
		New("feDropShadow",
			"dx", Number(dx), "dy", Number(dy),
			"stdDeviation", Number(stdDeviation),
			"flood-color", color),
	)
}

// ClipPath returns a group that defines clip as a clip path and applies it
// to content.
func ClipPath(id string, clip, content Element) Element {
	defs := New("defs").Append(New("clipPath", "id", id).Append(clip))
	return New("g").Append(defs, content.Set("clip-path", "url(#"+id+")"))
}

// Transform describes translate, rotate and scale steps applied in that order.
type Transform struct {
	TranslateX, TranslateY float64
	Rotate                 float64
	ScaleX, ScaleY         float64
}

// String renders the transform attribute, omitting identity steps.
func (t Transform) String() string {
	var parts []string
	if t.TranslateX != 0 || t.TranslateY != 0 {
		parts = append(parts, fmt.Sprintf("translate(%s %s)", Number(t.TranslateX), Number(t.TranslateY)))
	}
	if t.Rotate != 0 {
		parts = append(parts, fmt.Sprintf("rotate(%s)", Number(t.Rotate)))
	}
	if t.ScaleX != 1 || t.ScaleY != 1 {
		parts = append(parts, fmt.Sprintf("scale(%s %s)", Number(t.ScaleX), Number(t.ScaleY)))
	}
	return strings.Join(parts, " ")
}

// Apply returns a copy of e with the transform attribute set. An identity
// transform leaves e unchanged.
func (t Transform) Apply(e Element) Element {
	s := t.String()
	if s == "" {
		return e
	}
	return e.Set("transform", s)
}

func pct(v float64) string {
	return Number(v) + "%"
}
