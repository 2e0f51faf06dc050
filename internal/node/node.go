package node

import (
	"context"
	"errors"
	"fmt"
	"image"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/ironsheep/image-nodes/internal/imaging"
	"github.com/ironsheep/image-nodes/internal/ocr"
)

// ErrInvalidInput marks errors caused by bad node configuration rather than
// a failure while processing.
var ErrInvalidInput = errors.New("invalid node input")

// ErrUnknownType is returned when a node type is not registered.
var ErrUnknownType = errors.New("unknown node type")

// IsInputError reports whether err was caused by the caller's input.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnknownType) ||
		errors.Is(err, imaging.ErrInvalidArgument) ||
		errors.Is(err, ocr.ErrUnsupportedLanguage)
}

// Node is a configured unit of work. Field values are the node's inputs.
type Node interface {
	Process(ctx context.Context, pc Context) (any, error)
}

// Env carries external tool settings for nodes that shell out or use
// native libraries.
type Env struct {
	TessdataPrefix string
	OCRLanguage    string
	RSVGConvert    string
}

// Context resolves and stores media on behalf of nodes.
type Context interface {
	// LoadImage decodes the image a reference points at.
	LoadImage(ctx context.Context, ref ImageRef) (image.Image, error)

	// StoreImage keeps img and returns a reference to it.
	StoreImage(ctx context.Context, img image.Image) (ImageRef, error)

	// StoreBytes keeps already encoded image data.
	StoreBytes(ctx context.Context, data []byte) (ImageRef, error)

	// SaveImage writes the referenced image into folder under name. A zero
	// folder returns ref unchanged.
	SaveImage(ctx context.Context, ref ImageRef, folder FolderRef, name string) (ImageRef, error)

	Env() Env
}

// Descriptor describes a registered node type.
type Descriptor struct {
	Type        string
	Description string
	Tags        []string

	// BasicFields are the inputs shown by default in editors.
	BasicFields []string

	// New returns a node with default field values.
	New func() Node
}

// Registry maps node type strings to descriptors. It is safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byType map[string]Descriptor
	byGo   map[reflect.Type]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[string]Descriptor),
		byGo:   make(map[reflect.Type]string),
	}
}

// Register adds a node type. The constructor must return a pointer to a
// struct and the type string must be unused.
func (r *Registry) Register(d Descriptor) error {
	if d.Type == "" {
		return errors.New("node type must not be empty")
	}
	if d.New == nil {
		return fmt.Errorf("node type %s has no constructor", d.Type)
	}
	rt := reflect.TypeOf(d.New())
	if rt == nil || rt.Kind() != reflect.Pointer || rt.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("node type %s: constructor must return a struct pointer, got %v", d.Type, rt)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byType[d.Type]; ok {
		return fmt.Errorf("node type %s already registered", d.Type)
	}
	if other, ok := r.byGo[rt]; ok {
		return fmt.Errorf("node type %s: %v already registered as %s", d.Type, rt, other)
	}
	r.byType[d.Type] = d
	r.byGo[rt] = d.Type
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor for a node type.
func (r *Registry) Lookup(typ string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byType[typ]
	return d, ok
}

// New constructs a node of the given type with default values.
func (r *Registry) New(typ string) (Node, error) {
	d, ok := r.Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}
	return d.New(), nil
}

// TypeOf returns the registered type string of n.
func (r *Registry) TypeOf(n Node) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	typ, ok := r.byGo[reflect.TypeOf(n)]
	return typ, ok
}

// Descriptors returns every registered descriptor sorted by type.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.byType))
	for _, d := range r.byType {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Descriptor) int { return strings.Compare(a.Type, b.Type) })
	return out
}

// Namespace returns the dotted prefix of a node type, e.g. "lib.image" for
// "lib.image.Resize".
func Namespace(typ string) string {
	if i := strings.LastIndexByte(typ, '.'); i >= 0 {
		return typ[:i]
	}
	return ""
}
