// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// StandardVertexShader transforms indexed mesh vertices and prepares
// camera-space lighting vectors.
//
//go:embed standard.vert
var StandardVertexShader string

// StandardFragmentShader shades with a diffuse texture and one point light.
//
//go:embed standard.frag
var StandardFragmentShader string
