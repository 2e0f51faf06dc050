package svg

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// ElementType is the "type" tag carried by serialized elements.
const ElementType = "svg_element"

// Element is a single SVG element with attributes, optional text content
// and child elements.
type Element struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Content    string            `json:"content,omitempty"`
	Children   []Element         `json:"children,omitempty"`
}

// MarshalJSON adds the type tag used at node boundaries.
func (e Element) MarshalJSON() ([]byte, error) {
	type plain Element
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{Type: ElementType, plain: plain(e)})
}

// UnmarshalJSON accepts elements with or without the type tag.
func (e *Element) UnmarshalJSON(data []byte) error {
	type plain Element
	var v struct {
		Type string `json:"type"`
		plain
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Type != "" && v.Type != ElementType {
		return fmt.Errorf("svg: unexpected element type %q", v.Type)
	}
	*e = Element(v.plain)
	return nil
}

// New returns an element with the given name and attributes. Attributes are
// given as alternating key/value pairs; a trailing key without value is ignored.
func New(name string, kv ...string) Element {
	e := Element{Name: name, Attributes: make(map[string]string, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Attributes[kv[i]] = kv[i+1]
	}
	return e
}

// Set returns a copy of e with one attribute changed.
func (e Element) Set(key, value string) Element {
	attrs := make(map[string]string, len(e.Attributes)+1)
	maps.Copy(attrs, e.Attributes)
	attrs[key] = value
	e.Attributes = attrs
	return e
}

// Append returns a copy of e with extra children.
func (e Element) Append(children ...Element) Element {
	e.Children = append(slices.Clone(e.Children), children...)
	return e
}

// String renders the element as SVG markup.
func (e Element) String() string {
	var buf bytes.Buffer
	e.write(&buf)
	return buf.String()
}

func (e Element) write(buf *bytes.Buffer) {
	buf.WriteByte('<')
	buf.WriteString(e.Name)
	for _, k := range slices.Sorted(maps.Keys(e.Attributes)) {
		fmt.Fprintf(buf, ` %s="`, k)
		xml.EscapeText(buf, []byte(e.Attributes[k]))
		buf.WriteByte('"')
	}

	if e.Content == "" && len(e.Children) == 0 {
		buf.WriteString("/>")
		return
	}

	buf.WriteByte('>')
	xml.EscapeText(buf, []byte(e.Content))
	for _, c := range e.Children {
		c.write(buf)
	}
	fmt.Fprintf(buf, "</%s>", e.Name)
}

// Content is document content: raw SVG markup, elements, or both.
//
// In JSON it accepts a string (raw markup), a single element object or a
// list of element objects.
type Content struct {
	Raw      string
	Elements []Element
}

// Elements wraps elements as document content.
func Elements(elems ...Element) Content {
	return Content{Elements: elems}
}

// Markup wraps raw SVG markup as document content.
func Markup(raw string) Content {
	return Content{Raw: raw}
}

// IsEmpty reports whether the content has nothing to render.
func (c Content) IsEmpty() bool {
	return c.Raw == "" && len(c.Elements) == 0
}

// String renders the raw markup followed by each element.
func (c Content) String() string {
	var buf bytes.Buffer
	buf.WriteString(c.Raw)
	for _, e := range c.Elements {
		e.write(&buf)
	}
	return buf.String()
}

// MarshalJSON encodes raw-only content as a string and everything else as a
// list of elements.
func (c Content) MarshalJSON() ([]byte, error) {
	if len(c.Elements) == 0 {
		return json.Marshal(c.Raw)
	}
	if c.Raw != "" {
		return nil, fmt.Errorf("svg content mixes raw markup and elements")
	}
	return json.Marshal(c.Elements)
}

// UnmarshalJSON accepts a string, an element or a list of elements.
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*c = Content{}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	switch data[0] {
	case '"':
		return json.Unmarshal(data, &c.Raw)
	case '[':
		return json.Unmarshal(data, &c.Elements)
	case '{':
		var e Element
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		c.Elements = []Element{e}
		return nil
	default:
		return fmt.Errorf("svg content must be a string, element or list of elements")
	}
}

// Number formats a coordinate without trailing zeros.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
