package bundle

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Bundle is an imported manifest.
type Bundle struct {
	Name        string
	Description string
	File        string
}

// Texture is a declared texture resource.
type Texture struct {
	Path   string
	Width  int
	Height int
	Bundle string
}

// Scene is a declared scene resource and the node paths it provides.
type Scene struct {
	Path        string
	Description string
	Nodes       []string
	Bundle      string
}

// Material is a material instance created through the loader. Colors are
// RGBA in [0, 1].
type Material struct {
	mu             sync.Mutex
	class          string
	path           string
	diffuse        mgl64.Vec4
	ambient        mgl64.Vec4
	diffuseTexture string
	hasTexture     func(string) bool
}

// Class returns the material class the instance was created from.
func (m *Material) Class() string { return m.class }

// Path returns the host path of the material.
func (m *Material) Path() string { return m.path }

// SetDiffuse sets the diffuse color.
func (m *Material) SetDiffuse(r, g, b, a float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diffuse = mgl64.Vec4{r, g, b, a}
}

// SetAmbient sets the ambient color.
func (m *Material) SetAmbient(r, g, b, a float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ambient = mgl64.Vec4{r, g, b, a}
}

// SetDiffuseTexture binds a texture declared by an imported bundle.
func (m *Material) SetDiffuseTexture(path string) error {
	if m.hasTexture != nil && !m.hasTexture(path) {
		return fmt.Errorf("material %s: %w: %q", m.path, ErrUnknownTexture, path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diffuseTexture = path
	return nil
}

// Diffuse returns the diffuse color.
func (m *Material) Diffuse() mgl64.Vec4 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.diffuse
}

// Ambient returns the ambient color.
func (m *Material) Ambient() mgl64.Vec4 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ambient
}

// DiffuseTexture returns the bound texture path, or "".
func (m *Material) DiffuseTexture() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.diffuseTexture
}
