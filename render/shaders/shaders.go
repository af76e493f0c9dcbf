// Package shaders embeds the WGSL sources of the campfire renderer.
package shaders

import (
	_ "embed"
	"strings"
)

// CommonWGSL declares the per-frame globals shared by every scene pass.
//
//go:embed common.wgsl
var CommonWGSL string

// NoiseWGSL is 3D simplex noise over an uploaded permutation table.
//
//go:embed noise.wgsl
var NoiseWGSL string

//go:embed sky.wgsl
var SkyWGSL string

//go:embed stars.wgsl
var StarsWGSL string

//go:embed mesh.wgsl
var MeshWGSL string

//go:embed fire.wgsl
var FireWGSL string

//go:embed particles.wgsl
var ParticlesWGSL string

//go:embed post.wgsl
var PostWGSL string

//go:embed text.wgsl
var TextWGSL string

// Compose joins shader sources into one module. WGSL has no includes, so
// passes that need the globals or the noise prepend them.
func Compose(parts ...string) string {
	return strings.Join(parts, "\n")
}
