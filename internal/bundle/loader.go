package bundle

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/naosoccer/internal/ctxlog"
	"github.com/vk/naosoccer/internal/fsutil"
	"github.com/vk/naosoccer/internal/hostpath"
)

const manifestExt = ".hcl"

//go:embed bundles/*.hcl
var embedded embed.FS

// EmbeddedFS returns the manifests compiled into the binary.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "bundles")
	if err != nil {
		panic(err)
	}
	return sub
}

// Loader resolves and imports bundles and owns the materials created from
// them.
type Loader struct {
	fsys fs.FS

	mu        sync.RWMutex
	bundles   *orderedmap.OrderedMap[string, *Bundle]
	classes   map[string]string
	textures  map[string]*Texture
	scenes    map[string]*Scene
	materials *orderedmap.OrderedMap[string, *Material]
}

// NewLoader creates a loader reading manifests from dir, falling back to the
// embedded manifests. An empty dir uses only the embedded manifests.
func NewLoader(dir string) *Loader {
	var primary fs.FS
	if dir != "" {
		primary = os.DirFS(dir)
	}
	return NewLoaderFS(fsutil.Overlay{Primary: primary, Fallback: EmbeddedFS()})
}

// NewLoaderFS creates a loader reading manifests from fsys only.
func NewLoaderFS(fsys fs.FS) *Loader {
	return &Loader{
		fsys:      fsys,
		bundles:   orderedmap.NewOrderedMap[string, *Bundle](),
		classes:   make(map[string]string),
		textures:  make(map[string]*Texture),
		scenes:    make(map[string]*Scene),
		materials: orderedmap.NewOrderedMap[string, *Material](),
	}
}

// Available lists the bundle names the loader can import.
func (l *Loader) Available() ([]string, error) {
	files, err := fsutil.FindFilesByExtension(l.fsys, ".", manifestExt)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(f, manifestExt))
	}
	return names, nil
}

// ImportBundle parses the manifest for name and registers its declarations.
// Importing an already imported bundle is a no-op.
func (l *Loader) ImportBundle(ctx context.Context, name string) error {
	logger := ctxlog.FromContext(ctx).With("bundle", name)

	l.mu.RLock()
	_, done := l.bundles.Get(name)
	l.mu.RUnlock()
	if done {
		logger.Debug("Bundle already imported, skipping.")
		return nil
	}

	file := path.Clean(name) + manifestExt
	if name == "" || strings.HasPrefix(file, "../") || path.IsAbs(file) {
		return fmt.Errorf("import bundle %q: invalid name", name)
	}
	src, err := fs.ReadFile(l.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("import bundle %q: %w", name, ErrUnknownBundle)
		}
		return fmt.Errorf("import bundle %q: %w", name, err)
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, file)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse bundle %s: %w", file, diags)
	}
	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode bundle %s: %w", file, diags)
	}
	if err := validate(&root); err != nil {
		return fmt.Errorf("bundle %s: %w", file, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range root.MaterialClasses {
		l.classes[c.Name] = name
	}
	for _, t := range root.Textures {
		l.textures[t.Path] = &Texture{Path: t.Path, Width: t.Width, Height: t.Height, Bundle: name}
	}
	for _, s := range root.Scenes {
		l.scenes[s.Path] = &Scene{Path: s.Path, Description: s.Description, Nodes: s.Nodes, Bundle: name}
	}
	l.bundles.Set(name, &Bundle{Name: name, Description: root.Description, File: file})

	logger.Debug("Bundle imported.",
		"material_classes", len(root.MaterialClasses),
		"textures", len(root.Textures),
		"scenes", len(root.Scenes),
	)
	return nil
}

// RunMaterials loads a material definition bundle. It is ImportBundle under
// the name used by the startup sequence for material scripts.
func (l *Loader) RunMaterials(ctx context.Context, name string) error {
	return l.ImportBundle(ctx, name)
}

func validate(root *fileRoot) error {
	seen := make(map[string]struct{})
	check := func(kind, name string) error {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%s label cannot be empty", kind)
		}
		key := kind + ":" + name
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate %s %q", kind, name)
		}
		seen[key] = struct{}{}
		return nil
	}
	for _, c := range root.MaterialClasses {
		if err := check("material_class", c.Name); err != nil {
			return err
		}
	}
	for _, t := range root.Textures {
		if err := check("texture", t.Path); err != nil {
			return err
		}
		if t.Width < 0 || t.Height < 0 {
			return fmt.Errorf("texture %q: negative size", t.Path)
		}
	}
	for _, s := range root.Scenes {
		if err := check("scene", s.Path); err != nil {
			return err
		}
	}
	return nil
}

// CreateMaterial instantiates a material of a declared class at a host path.
func (l *Loader) CreateMaterial(ctx context.Context, class, materialPath string) (*Material, error) {
	p, err := hostpath.Parse(materialPath)
	if err != nil {
		return nil, fmt.Errorf("create material: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.classes[class]; !ok {
		return nil, fmt.Errorf("create material %s: %w: %q", p, ErrUnknownMaterialClass, class)
	}
	if _, exists := l.materials.Get(p.String()); exists {
		return nil, fmt.Errorf("create material %s: already exists", p)
	}
	m := &Material{class: class, path: p.String(), hasTexture: l.HasTexture}
	l.materials.Set(p.String(), m)

	ctxlog.FromContext(ctx).Debug("Material created.", "class", class, "path", p.String())
	return m, nil
}

// Bundles returns the imported bundles in import order.
func (l *Loader) Bundles() []*Bundle {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Bundle, 0, l.bundles.Len())
	for el := l.bundles.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Scene returns a scene declared by an imported bundle.
func (l *Loader) Scene(scenePath string) (*Scene, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.scenes[scenePath]
	return s, ok
}

// HasTexture reports whether an imported bundle declares the texture.
func (l *Loader) HasTexture(texturePath string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.textures[texturePath]
	return ok
}

// Material returns a material created through CreateMaterial.
func (l *Loader) Material(materialPath string) (*Material, bool) {
	p, err := hostpath.Parse(materialPath)
	if err != nil {
		return nil, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.materials.Get(p.String())
}
