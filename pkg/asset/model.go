// Package asset holds immutable mesh data as delivered by the glTF parser:
// a flat face array, PBR material groups, embedded images, and the per-asset
// BVH built once at load time. Assets are shared read-only between any
// number of scene instances.
package asset

import (
	"github.com/jtothec67/go-pathtracer/pkg/core"
)

// Vertex is one corner of a face
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3
	TexCoord core.Vec2
}

// Face is a single triangle. MaterialGroup indexes the asset's material
// group table, or is -1 when the face has no material.
type Face struct {
	A, B, C       Vertex
	MaterialGroup int
}

// AlphaMode controls how base-colour alpha affects visibility
type AlphaMode int

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

// RGBA is a linear colour with alpha
type RGBA struct {
	R, G, B, A float64
}

// RGB returns the colour part as a vector
func (c RGBA) RGB() core.Vec3 {
	return core.NewVec3(c.R, c.G, c.B)
}

// PBRMaterial is one material group of a parsed asset. Texture indices
// reference the asset's embedded image table, -1 meaning untextured.
type PBRMaterial struct {
	Name string

	BaseColorFactor RGBA
	MetallicFactor  float64
	RoughnessFactor float64
	EmissiveFactor  core.Vec3

	AlphaMode   AlphaMode
	AlphaCutoff float64
	DoubleSided bool

	NormalScale       float64
	OcclusionStrength float64

	TransmissionFactor float64
	IOR                float64

	BaseColorTex         int
	MetallicRoughnessTex int
	NormalTex            int
	EmissiveTex          int
	TransmissionTex      int
}

// DefaultPBRMaterial returns a group with the glTF spec defaults
func DefaultPBRMaterial() PBRMaterial {
	return PBRMaterial{
		BaseColorFactor:      RGBA{1, 1, 1, 1},
		MetallicFactor:       0,
		RoughnessFactor:      1,
		AlphaMode:            AlphaOpaque,
		AlphaCutoff:          0.5,
		NormalScale:          1,
		OcclusionStrength:    1,
		TransmissionFactor:   0,
		IOR:                  1.5,
		BaseColorTex:         -1,
		MetallicRoughnessTex: -1,
		NormalTex:            -1,
		EmissiveTex:          -1,
		TransmissionTex:      -1,
	}
}

// Image is a raw 8-bit embedded texture
type Image struct {
	Width    int
	Height   int
	Channels int
	Data     []byte
}
