package node

import (
	"context"
	"strings"

	"github.com/ironsheep/image-nodes/internal/ocr"
)

// Point is an (x, y) pixel coordinate.
type Point [2]int

// OCRBox is one recognised word with its corner points.
type OCRBox struct {
	Text        string  `json:"text"`
	Score       float64 `json:"score"`
	TopLeft     Point   `json:"top_left"`
	TopRight    Point   `json:"top_right"`
	BottomRight Point   `json:"bottom_right"`
	BottomLeft  Point   `json:"bottom_left"`
}

// OCRResult is the output of the OCR node.
type OCRResult struct {
	Boxes []OCRBox `json:"boxes"`
	Text  string   `json:"text"`
}

// OCR recognises text in an image.
type OCR struct {
	Image    ImageRef `json:"image" required:"true" desc:"The image to perform OCR on."`
	Language string   `json:"language" validate:"omitempty,oneof=en fr de es it pt ru zh ja ko ar hi" desc:"Language code for OCR. Empty uses the configured default."`
}

// Process runs Tesseract. Box corners are derived from axis-aligned word
// bounds.
func (n *OCR) Process(ctx context.Context, pc Context) (any, error) {
	img, err := pc.LoadImage(ctx, n.Image)
	if err != nil {
		return nil, err
	}

	env := pc.Env()
	lang := n.Language
	if lang == "" {
		lang = env.OCRLanguage
	}
	res, err := ocr.Recognize(img, ocr.Options{
		Language:       lang,
		TessdataPrefix: env.TessdataPrefix,
	})
	if err != nil {
		return nil, err
	}

	out := OCRResult{Boxes: make([]OCRBox, 0, len(res.Regions))}
	words := make([]string, 0, len(res.Regions))
	for _, r := range res.Regions {
		b := r.Bounds
		out.Boxes = append(out.Boxes, OCRBox{
			Text:        r.Text,
			Score:       r.Confidence,
			TopLeft:     Point{b.X1, b.Y1},
			TopRight:    Point{b.X2, b.Y1},
			BottomRight: Point{b.X2, b.Y2},
			BottomLeft:  Point{b.X1, b.Y2},
		})
		words = append(words, r.Text)
	}

	out.Text = strings.Join(words, "\n")
	if len(words) == 0 {
		out.Text = strings.TrimSpace(res.FullText)
	}
	return out, nil
}
