package asset

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ironsheep/image-nodes/internal/imaging"
	"github.com/ironsheep/image-nodes/internal/logging"
	"github.com/ironsheep/image-nodes/internal/node"
)

// Scheme is the URI scheme of references to stored assets.
const Scheme = "asset://"

// ErrUnsupportedURI is returned for references that cannot be resolved
// locally, such as http URLs.
var ErrUnsupportedURI = errors.New("unsupported image URI")

// Context resolves image references against a Store and the local
// filesystem. It implements node.Context.
type Context struct {
	store Store
	files *imaging.ImageCache
	env   node.Env
}

var _ node.Context = (*Context)(nil)

// NewContext returns a Context that keeps node outputs in store.
func NewContext(store Store, env node.Env) *Context {
	return &Context{
		store: store,
		files: imaging.NewImageCache(),
		env:   env,
	}
}

// Env returns the external tool settings.
func (c *Context) Env() node.Env {
	return c.env
}

// Store returns the backing asset store.
func (c *Context) Store() Store {
	return c.store
}

// LoadImage decodes the image ref points at. Inline data wins over an
// asset id, which wins over the URI. A batch reference resolves to its
// first frame.
//
// Supported URIs are asset://<id>, data:, file:// and plain paths.
func (c *Context) LoadImage(ctx context.Context, ref node.ImageRef) (image.Image, error) {
	switch {
	case len(ref.Data) > 0:
		return decode(ref.Data)
	case ref.AssetID != "":
		return c.loadAsset(ctx, ref.AssetID)
	case ref.URI != "":
		return c.loadURI(ctx, ref.URI)
	case len(ref.Batch) > 0:
		return decode(ref.Batch[0])
	default:
		return nil, fmt.Errorf("%w: empty image reference", node.ErrInvalidInput)
	}
}

func (c *Context) loadURI(ctx context.Context, uri string) (image.Image, error) {
	switch {
	case strings.HasPrefix(uri, Scheme):
		return c.loadAsset(ctx, strings.TrimPrefix(uri, Scheme))
	case strings.HasPrefix(uri, "data:"):
		data, err := parseDataURI(uri)
		if err != nil {
			return nil, err
		}
		return decode(data)
	case strings.HasPrefix(uri, "file://"):
		u, err := url.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", node.ErrInvalidInput, err)
		}
		return c.loadFile(u.Path)
	case strings.Contains(uri, "://"):
		return nil, fmt.Errorf("%w: %w: %s", node.ErrInvalidInput, ErrUnsupportedURI, uri)
	default:
		return c.loadFile(uri)
	}
}

func (c *Context) loadFile(path string) (image.Image, error) {
	img, err := c.files.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", node.ErrInvalidInput, err)
		}
		return nil, err
	}
	return img, nil
}

func (c *Context) loadAsset(ctx context.Context, id string) (image.Image, error) {
	data, err := c.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %w: %s", node.ErrInvalidInput, err, id)
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// StoreImage encodes img as PNG and stores it under a fresh id.
func (c *Context) StoreImage(ctx context.Context, img image.Image) (node.ImageRef, error) {
	data, err := imaging.Encode(img)
	if err != nil {
		return node.ImageRef{}, err
	}
	return c.put(ctx, uuid.NewString(), data)
}

// StoreBytes stores encoded image data under a fresh id. The data must
// decode as an image.
func (c *Context) StoreBytes(ctx context.Context, data []byte) (node.ImageRef, error) {
	if _, err := imaging.DescribeBytes(data); err != nil {
		return node.ImageRef{}, fmt.Errorf("%w: %v", node.ErrInvalidInput, err)
	}
	return c.put(ctx, uuid.NewString(), data)
}

// SaveImage writes the image into folder under name. A folder URI is a
// filesystem directory and the format follows the name's extension; a
// folder asset id stores the PNG under "<folder>/<name>". A zero folder
// returns ref unchanged.
func (c *Context) SaveImage(ctx context.Context, ref node.ImageRef, folder node.FolderRef, name string) (node.ImageRef, error) {
	if folder.IsZero() {
		return ref, nil
	}
	name = filepath.Base(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "image.png"
	}

	img, err := c.LoadImage(ctx, ref)
	if err != nil {
		return node.ImageRef{}, err
	}

	if folder.URI == "" {
		data, err := imaging.Encode(img)
		if err != nil {
			return node.ImageRef{}, err
		}
		return c.put(ctx, folder.AssetID+"/"+name, data)
	}

	dir := strings.TrimPrefix(folder.URI, "file://")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return node.ImageRef{}, fmt.Errorf("failed to create folder %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := imaging.SaveFile(img, path); err != nil {
		return node.ImageRef{}, err
	}
	c.files.Evict(path)

	logging.FromContext(ctx).Debug("saved image", "path", path)
	return node.ImageRef{URI: "file://" + path}, nil
}

func (c *Context) put(ctx context.Context, id string, data []byte) (node.ImageRef, error) {
	if err := c.store.Put(ctx, id, data); err != nil {
		return node.ImageRef{}, err
	}
	logging.FromContext(ctx).Debug("stored asset", "id", id, "bytes", len(data))
	return node.ImageRef{URI: Scheme + id, AssetID: id}, nil
}

// Bytes returns the encoded bytes behind ref without decoding. References
// to files or data URIs are read directly; anything else is re-encoded as
// PNG.
func (c *Context) Bytes(ctx context.Context, ref node.ImageRef) ([]byte, error) {
	switch {
	case len(ref.Data) > 0:
		return ref.Data, nil
	case ref.AssetID != "":
		return c.store.Get(ctx, ref.AssetID)
	case strings.HasPrefix(ref.URI, Scheme):
		return c.store.Get(ctx, strings.TrimPrefix(ref.URI, Scheme))
	case strings.HasPrefix(ref.URI, "data:"):
		return parseDataURI(ref.URI)
	}
	img, err := c.LoadImage(ctx, ref)
	if err != nil {
		return nil, err
	}
	return imaging.Encode(img)
}

func decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", node.ErrInvalidInput, err)
	}
	return img, nil
}

// parseDataURI decodes "data:[<mediatype>][;base64],<data>".
func parseDataURI(uri string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URI", node.ErrInvalidInput)
	}
	if !strings.HasSuffix(meta, ";base64") {
		raw, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed data URI: %v", node.ErrInvalidInput, err)
		}
		return []byte(raw), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed data URI: %v", node.ErrInvalidInput, err)
	}
	return data, nil
}
