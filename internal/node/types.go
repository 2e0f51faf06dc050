package node

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/ironsheep/image-nodes/internal/imaging"
)

// Type tags carried by reference values at node boundaries.
const (
	TypeImage  = "image"
	TypeColor  = "color"
	TypeFolder = "folder"
	TypeSVG    = "svg"
)

// ImageRef points at an image. Exactly how it resolves is up to the
// Context: inline Data wins, then AssetID, then URI.
//
// In JSON a bare string is accepted as a URI.
type ImageRef struct {
	URI     string `json:"uri,omitempty"`
	AssetID string `json:"asset_id,omitempty"`
	Data    []byte `json:"data,omitempty"`

	// Batch holds encoded frames when the reference is a batch of images.
	Batch [][]byte `json:"batch,omitempty"`
}

// IsZero reports whether the reference points at nothing.
func (r ImageRef) IsZero() bool {
	return r.URI == "" && r.AssetID == "" && len(r.Data) == 0 && len(r.Batch) == 0
}

// MarshalJSON adds the "image" type tag.
func (r ImageRef) MarshalJSON() ([]byte, error) {
	type plain ImageRef
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{TypeImage, plain(r)})
}

// UnmarshalJSON accepts a tagged object or a URI string.
func (r *ImageRef) UnmarshalJSON(data []byte) error {
	type plain ImageRef
	var v struct {
		Type string `json:"type"`
		plain
	}
	if err := unmarshalRef(data, TypeImage, &r.URI, &v, &v.Type); err != nil {
		return err
	}
	if isString(data) {
		*r = ImageRef{URI: r.URI}
		return nil
	}
	*r = ImageRef(v.plain)
	return nil
}

// ColorRef is a colour given as a hex string or "none".
type ColorRef struct {
	Value string `json:"value"`
}

// Color returns a ColorRef for a literal value.
func Color(value string) ColorRef {
	return ColorRef{Value: value}
}

// RGBA parses the colour. An empty value is treated as transparent.
func (c ColorRef) RGBA() (color.NRGBA, error) {
	if c.Value == "" {
		return imaging.Transparent, nil
	}
	col, err := imaging.ParseColor(c.Value)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return col, nil
}

// MarshalJSON adds the "color" type tag.
func (c ColorRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{TypeColor, c.Value})
}

// UnmarshalJSON accepts a tagged object or a bare colour string.
func (c *ColorRef) UnmarshalJSON(data []byte) error {
	var v struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}
	if err := unmarshalRef(data, TypeColor, &c.Value, &v, &v.Type); err != nil {
		return err
	}
	if !isString(data) {
		c.Value = v.Value
	}
	return nil
}

// FolderRef names a destination folder: a filesystem path or file:// URI
// in URI, or an asset folder in AssetID.
type FolderRef struct {
	URI     string `json:"uri,omitempty"`
	AssetID string `json:"asset_id,omitempty"`
}

// IsZero reports whether no folder was chosen.
func (f FolderRef) IsZero() bool {
	return f.URI == "" && f.AssetID == ""
}

// MarshalJSON adds the "folder" type tag.
func (f FolderRef) MarshalJSON() ([]byte, error) {
	type plain FolderRef
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{TypeFolder, plain(f)})
}

// UnmarshalJSON accepts a tagged object or a path string.
func (f *FolderRef) UnmarshalJSON(data []byte) error {
	type plain FolderRef
	var v struct {
		Type string `json:"type"`
		plain
	}
	if err := unmarshalRef(data, TypeFolder, &f.URI, &v, &v.Type); err != nil {
		return err
	}
	if !isString(data) {
		*f = FolderRef(v.plain)
	}
	return nil
}

// SVGRef is a complete SVG document.
type SVGRef struct {
	Data string `json:"data"`
}

// MarshalJSON adds the "svg" type tag.
func (s SVGRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Data string `json:"data"`
	}{TypeSVG, s.Data})
}

// UnmarshalJSON accepts a tagged object or the document as a string.
func (s *SVGRef) UnmarshalJSON(data []byte) error {
	var v struct {
		Type string `json:"type"`
		Data string `json:"data"`
	}
	if err := unmarshalRef(data, TypeSVG, &s.Data, &v, &v.Type); err != nil {
		return err
	}
	if !isString(data) {
		s.Data = v.Data
	}
	return nil
}

// unmarshalRef decodes either a JSON string into str or an object into obj,
// checking that the object's type tag (if any) matches want.
func unmarshalRef(data []byte, want string, str *string, obj any, tag *string) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	if isString(data) {
		return json.Unmarshal(data, str)
	}
	if err := json.Unmarshal(data, obj); err != nil {
		return err
	}
	if *tag != "" && *tag != want {
		return fmt.Errorf("%w: expected %s reference, got %q", ErrInvalidInput, want, *tag)
	}
	return nil
}

func isString(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '"'
}
