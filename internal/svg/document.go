package svg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Namespace is the SVG XML namespace.
const Namespace = "http://www.w3.org/2000/svg"

// DefaultRasterizer is the rsvg-convert binary looked up on PATH.
const DefaultRasterizer = "rsvg-convert"

// ErrRasterizerMissing is returned when rsvg-convert cannot be found.
var ErrRasterizerMissing = errors.New("svg rasterization requires librsvg (macOS: brew install librsvg, Linux: apt install librsvg2-bin)")

// Document wraps content in an <svg> root element.
func Document(width, height int, viewBox string, content Content) ([]byte, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("svg document size %dx%d must be positive", width, height)
	}
	if viewBox == "" {
		viewBox = fmt.Sprintf("0 0 %d %d", width, height)
	}
	fields := strings.Fields(strings.ReplaceAll(viewBox, ",", " "))
	if len(fields) != 4 {
		return nil, fmt.Errorf("svg viewBox %q must have four numbers", viewBox)
	}
	for _, f := range fields {
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			return nil, fmt.Errorf("svg viewBox %q: %w", viewBox, err)
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="%s" width="%d" height="%d" viewBox="%s">`, Namespace, width, height, viewBox)
	buf.WriteString(content.String())
	buf.WriteString("</svg>")
	return buf.Bytes(), nil
}

// Rasterizer converts SVG documents to PNG with rsvg-convert.
type Rasterizer struct {
	// Binary is the rsvg-convert executable. Empty means DefaultRasterizer.
	Binary string
}

// Available reports whether the rasterizer binary can be found.
func (r Rasterizer) Available() bool {
	_, err := exec.LookPath(r.binary())
	return err == nil
}

// ToPNG renders an SVG document to PNG bytes at the given zoom factor.
// A scale of 2 produces an image twice the document's width and height.
func (r Rasterizer) ToPNG(ctx context.Context, doc []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("svg scale %.2f must be positive", scale)
	}

	bin := r.binary()
	if _, err := exec.LookPath(bin); err != nil {
		return nil, ErrRasterizerMissing
	}

	cmd := exec.CommandContext(ctx, bin, "-f", "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64))
	cmd.Stdin = bytes.NewReader(doc)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}

func (r Rasterizer) binary() string {
	if r.Binary == "" {
		return DefaultRasterizer
	}
	return r.Binary
}
