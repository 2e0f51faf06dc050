package node

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/ironsheep/image-nodes/internal/svg"
)

// field is the reflected view of one node input.
type field struct {
	name     string
	desc     string
	index    []int
	rules    string
	required bool
	typ      reflect.Type
}

func fields(t reflect.Type) []field {
	var out []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := jsonName(sf)
		if name == "" {
			continue
		}
		out = append(out, field{
			name:     name,
			desc:     sf.Tag.Get("desc"),
			index:    sf.Index,
			rules:    sf.Tag.Get("validate"),
			required: sf.Tag.Get("required") == "true",
			typ:      sf.Type,
		})
	}
	return out
}

// Inputs returns the JSON names of n's inputs in declaration order.
func Inputs(n Node) []string {
	t := reflect.TypeOf(n)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	fs := fields(t)
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.name
	}
	return names
}

var (
	imageRefType  = reflect.TypeOf(ImageRef{})
	colorRefType  = reflect.TypeOf(ColorRef{})
	folderRefType = reflect.TypeOf(FolderRef{})
	svgRefType    = reflect.TypeOf(SVGRef{})
	elementType   = reflect.TypeOf(svg.Element{})
	contentType   = reflect.TypeOf(svg.Content{})
)

// Schema returns a JSON Schema object describing a node's inputs. Defaults
// come from the descriptor's constructor; bounds and enums from the fields'
// validate tags.
func Schema(d Descriptor) map[string]interface{} {
	v := reflect.ValueOf(d.New()).Elem()

	properties := map[string]interface{}{}
	required := []string{}
	for _, f := range fields(v.Type()) {
		prop := typeSchema(f.typ)
		if f.desc != "" {
			prop["description"] = f.desc
		}
		applyRules(prop, f.rules)
		if def, ok := defaultValue(v.FieldByIndex(f.index)); ok {
			prop["default"] = def
		}
		properties[f.name] = prop
		if f.required {
			required = append(required, f.name)
		}
	}

	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func typeSchema(t reflect.Type) map[string]interface{} {
	switch t {
	case imageRefType:
		return map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"type":     map[string]interface{}{"type": "string", "const": TypeImage},
				"uri":      map[string]interface{}{"type": "string", "description": "file path, file://, data: or asset:// URI"},
				"asset_id": map[string]interface{}{"type": "string"},
				"data":     map[string]interface{}{"type": "string", "description": "base64-encoded image bytes"},
			},
		}
	case colorRefType:
		return map[string]interface{}{"type": "string", "description": "hex colour (#RGB, #RRGGBB, #RRGGBBAA) or none"}
	case folderRefType:
		return map[string]interface{}{"type": "string", "description": "destination folder path"}
	case svgRefType:
		return map[string]interface{}{"type": "string", "description": "SVG document"}
	case elementType:
		return map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name":       map[string]interface{}{"type": "string"},
				"attributes": map[string]interface{}{"type": "object"},
				"content":    map[string]interface{}{"type": "string"},
				"children":   map[string]interface{}{"type": "array"},
			},
		}
	case contentType:
		return map[string]interface{}{
			"type": []string{"string", "object", "array"},
		}
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return map[string]interface{}{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]interface{}{"type": "number"}
	case reflect.Bool:
		return map[string]interface{}{"type": "boolean"}
	case reflect.String:
		return map[string]interface{}{"type": "string"}
	case reflect.Slice:
		return map[string]interface{}{"type": "array", "items": typeSchema(t.Elem())}
	default:
		return map[string]interface{}{}
	}
}

func applyRules(prop map[string]interface{}, rules string) {
	if rules == "" {
		return
	}
	for _, rule := range strings.Split(rules, ",") {
		key, param, _ := strings.Cut(rule, "=")
		switch key {
		case "gte":
			prop["minimum"] = number(param)
		case "lte":
			prop["maximum"] = number(param)
		case "gt":
			prop["exclusiveMinimum"] = number(param)
		case "oneof":
			prop["enum"] = strings.Fields(param)
		}
	}
}

func number(s string) interface{} {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func defaultValue(v reflect.Value) (interface{}, bool) {
	switch v.Type() {
	case colorRefType:
		c := v.Interface().(ColorRef)
		return c.Value, c.Value != ""
	case imageRefType, folderRefType, svgRefType, elementType, contentType:
		return nil, false
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Bool:
		return v.Bool(), true
	case reflect.String:
		return v.String(), true
	}
	return nil, false
}
