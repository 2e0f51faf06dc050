package imaging

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Transparent is the fully transparent color returned for "none".
var Transparent = color.NRGBA{}

// ParseColor converts a color string into an NRGBA color.
//
// Accepted forms:
//   - "#RGB", "#RRGGBB" (opaque)
//   - "#RRGGBBAA" (with alpha)
//   - "none" or "transparent"
//
// The leading '#' is optional. Parsing is case-insensitive.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return color.NRGBA{}, fmt.Errorf("%w: empty color string", ErrInvalidArgument)
	case "none", "transparent":
		return Transparent, nil
	}

	hex := strings.TrimPrefix(s, "#")
	alpha := uint8(255)
	if len(hex) == 8 {
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: invalid color %q", ErrInvalidArgument, s)
		}
		alpha = uint8(a)
		hex = hex[:6]
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: invalid color %q", ErrInvalidArgument, s)
	}

	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// Gray returns an opaque gray level as an NRGBA color.
func Gray(level uint8) color.NRGBA {
	return color.NRGBA{R: level, G: level, B: level, A: 255}
}
