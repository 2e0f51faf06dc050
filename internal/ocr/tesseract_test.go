package ocr

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/ironsheep/image-nodes/internal/imaging"
)

// createImageWithText renders text in large black letters on a white canvas.
func createImageWithText(t *testing.T, text string) image.Image {
	t.Helper()

	bg, err := imaging.Background(60+len(text)*40, 120, color.White)
	if err != nil {
		t.Fatalf("Background failed: %v", err)
	}

	img, err := imaging.RenderText(bg, text, 30, 30, imaging.TextOptions{
		Font:  imaging.FontBold,
		Size:  48,
		Color: color.Black,
	})
	if err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	return img
}

func skipIfNoTesseract(t *testing.T, err error) {
	t.Helper()
	if err != nil && (strings.Contains(err.Error(), "tesseract") ||
		strings.Contains(err.Error(), "library") ||
		strings.Contains(err.Error(), "language")) {
		t.Skipf("Tesseract not available: %v", err)
	}
}

func TestTesseractLanguage(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "eng"},
		{"en", "eng"},
		{"EN", "eng"},
		{"de", "deu"},
		{"zh", "chi_sim"},
		{"ja", "jpn"},
		{"eng", "eng"},
		{"chi_tra", "chi_tra"},
		{"nld", "nld"},
	}

	for _, tt := range tests {
		got, err := TesseractLanguage(tt.input)
		if err != nil {
			t.Errorf("TesseractLanguage(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("TesseractLanguage(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTesseractLanguage_Unsupported(t *testing.T) {
	for _, input := range []string{"xx", "english", "q"} {
		if _, err := TesseractLanguage(input); !errors.Is(err, ErrUnsupportedLanguage) {
			t.Errorf("TesseractLanguage(%q): got %v, want ErrUnsupportedLanguage", input, err)
		}
	}
}

func TestLanguages(t *testing.T) {
	codes := Languages()
	if len(codes) != len(languages) {
		t.Fatalf("got %d codes, want %d", len(codes), len(languages))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("codes not sorted: %q before %q", codes[i-1], codes[i])
		}
	}
}

func TestRecognize_UnsupportedLanguage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	if _, err := Recognize(img, Options{Language: "xx"}); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("got %v, want ErrUnsupportedLanguage", err)
	}
}

func TestRecognize_EmptyImage(t *testing.T) {
	if _, err := Recognize(nil, Options{}); !errors.Is(err, imaging.ErrEmptyImage) {
		t.Errorf("got %v, want ErrEmptyImage", err)
	}
}

func TestRecognize_RealText(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping OCR in short mode")
	}

	img := createImageWithText(t, "HELLO")

	result, err := Recognize(img, Options{Language: "en"})
	skipIfNoTesseract(t, err)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}

	t.Logf("Extracted text: %q", result.FullText)

	if !strings.Contains(strings.ToUpper(result.FullText), "HELLO") {
		t.Errorf("FullText %q does not contain HELLO", result.FullText)
	}

	for _, r := range result.Regions {
		if r.Bounds.X2 <= r.Bounds.X1 || r.Bounds.Y2 <= r.Bounds.Y1 {
			t.Errorf("region %q has empty bounds %+v", r.Text, r.Bounds)
		}
		if r.Confidence < 0 || r.Confidence > 1 {
			t.Errorf("region %q confidence %.2f outside 0-1", r.Text, r.Confidence)
		}
	}
}

func TestRecognize_BlankImage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping OCR in short mode")
	}

	img, _ := imaging.Background(200, 100, color.White)

	result, err := Recognize(img, Options{})
	skipIfNoTesseract(t, err)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}

	if strings.TrimSpace(result.FullText) != "" {
		t.Logf("unexpected text on blank image: %q", result.FullText)
	}
}
