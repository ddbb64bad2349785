// Package bundle implements the host's content loader.
//
// A bundle is an HCL manifest named "<bundle>.hcl" that declares material
// classes, textures and scenes. Importing a bundle makes those names
// resolvable for later calls such as CreateMaterial or a scene import.
// Bundles are read from an optional directory first and then from the
// manifests embedded in the binary.
package bundle
