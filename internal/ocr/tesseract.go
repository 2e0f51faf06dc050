package ocr

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/image-nodes/internal/imaging"
)

// ErrUnsupportedLanguage is returned for language codes without a Tesseract mapping.
var ErrUnsupportedLanguage = errors.New("unsupported OCR language")

// languages maps the short language codes accepted by the OCR node to the
// names of Tesseract's traineddata files.
var languages = map[string]string{
	"en": "eng",
	"fr": "fra",
	"de": "deu",
	"es": "spa",
	"it": "ita",
	"pt": "por",
	"ru": "rus",
	"zh": "chi_sim",
	"ja": "jpn",
	"ko": "kor",
	"ar": "ara",
	"hi": "hin",
}

// Languages returns the supported short language codes in sorted order.
func Languages() []string {
	codes := make([]string, 0, len(languages))
	for code := range languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// TesseractLanguage resolves a language code to a Tesseract language name.
//
// Short codes ("en", "de") are mapped through the built-in table. Names that
// already look like Tesseract data files ("eng", "chi_sim") pass through
// unchanged, which lets callers use any installed traineddata.
func TesseractLanguage(code string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "eng", nil
	}
	if name, ok := languages[code]; ok {
		return name, nil
	}
	for _, name := range languages {
		if name == code {
			return name, nil
		}
	}
	if len(code) == 3 || strings.Contains(code, "_") {
		return code, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
}

// Options configures a recognition run.
type Options struct {
	// Language is a short code ("en") or Tesseract language name ("eng").
	Language string

	// TessdataPrefix overrides the directory Tesseract loads traineddata from.
	// Empty means the system default.
	TessdataPrefix string
}

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion represents a word with its location and OCR confidence.
type TextRegion struct {
	// Text is the recognized text content.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box around this text in the image.
	Bounds Bounds `json:"bounds"`
}

// Result contains the complete results of text extraction from an image.
type Result struct {
	// FullText is all recognized text with original spacing and newlines.
	FullText string `json:"full_text"`

	// Regions contains individual words with their bounding boxes.
	// May be empty if bounding box extraction fails.
	Regions []TextRegion `json:"regions"`
}

// Recognize performs OCR on an in-memory image.
//
// The image is encoded as PNG and handed to Tesseract without touching the
// filesystem. Word-level boxes are reported relative to the image's top-left
// corner; empty words are dropped.
//
// If word-level bounding box extraction fails (which can happen with some
// Tesseract configurations), the full text is still returned with an empty
// Regions slice.
func Recognize(img image.Image, opts Options) (*Result, error) {
	lang, err := TesseractLanguage(opts.Language)
	if err != nil {
		return nil, err
	}

	data, err := imaging.Encode(img)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if opts.TessdataPrefix != "" {
		client.TessdataPrefix = opts.TessdataPrefix
	}

	if err := client.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("tesseract OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return &Result{FullText: text, Regions: []TextRegion{}}, nil
	}

	regions := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		if strings.TrimSpace(box.Word) == "" {
			continue
		}
		regions = append(regions, TextRegion{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return &Result{FullText: text, Regions: regions}, nil
}

// Version reports the linked Tesseract version.
func Version() string {
	return gosseract.Version()
}
