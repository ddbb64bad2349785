package bundle

import "errors"

var (
	// ErrUnknownBundle is returned when no manifest exists for a bundle name.
	ErrUnknownBundle = errors.New("unknown bundle")
	// ErrUnknownMaterialClass is returned by CreateMaterial for classes no
	// imported bundle declares.
	ErrUnknownMaterialClass = errors.New("unknown material class")
	// ErrUnknownTexture is returned when binding an undeclared texture.
	ErrUnknownTexture = errors.New("unknown texture")
)
