package asset

import (
	"fmt"
	"math"

	"github.com/jtothec67/go-pathtracer/pkg/core"
	"github.com/jtothec67/go-pathtracer/pkg/material"
)

// DefaultLeafThreshold is the face count at or below which a BVH node
// becomes a leaf.
const DefaultLeafThreshold = 2

// MeshAsset is an immutable triangle mesh plus its acceleration structure.
// Build once, share between instances; all methods are safe for concurrent
// readers.
type MeshAsset struct {
	faces  []Face
	groups []PBRMaterial
	images []Image

	nodes   []bvhNode
	faceIdx []uint32
	bounds  core.AABB
}

// NewMeshAsset builds an asset from a parsed face table, material groups and
// embedded images, constructing the BVH with the given leaf threshold
// (<= 0 selects DefaultLeafThreshold).
func NewMeshAsset(faces []Face, groups []PBRMaterial, images []Image, leafThreshold int) (*MeshAsset, error) {
	if len(faces) == 0 {
		return nil, fmt.Errorf("asset: mesh has no faces")
	}
	for i, f := range faces {
		if f.MaterialGroup >= len(groups) {
			return nil, fmt.Errorf("asset: face %d references material group %d of %d", i, f.MaterialGroup, len(groups))
		}
	}
	if leafThreshold <= 0 {
		leafThreshold = DefaultLeafThreshold
	}

	a := &MeshAsset{
		faces:  faces,
		groups: groups,
		images: images,
	}
	a.buildBVH(leafThreshold)
	return a, nil
}

// FaceCount returns the number of triangles in the asset
func (a *MeshAsset) FaceCount() int { return len(a.faces) }

// Face returns the triangle at the given index
func (a *MeshAsset) Face(i int) *Face { return &a.faces[i] }

// Bounds returns the object-space bounding box of the whole mesh
func (a *MeshAsset) Bounds() core.AABB { return a.bounds }

// Group returns the material group at the given index
func (a *MeshAsset) Group(i int) *PBRMaterial { return &a.groups[i] }

// Image returns the embedded image at the given index, or nil when the
// index is -1.
func (a *MeshAsset) Image(i int) *Image {
	if i < 0 || i >= len(a.images) {
		return nil
	}
	return &a.images[i]
}

// EvaluateMaterialAt samples the group's textures at uv and returns the
// shading parameters for that point. glTF packs roughness in G and metallic
// in B of the metallic-roughness texture.
func (a *MeshAsset) EvaluateMaterialAt(group int, uv core.Vec2) material.Material {
	if group < 0 || group >= len(a.groups) {
		return material.Default()
	}
	g := &a.groups[group]

	out := material.Default()

	base := g.BaseColorFactor
	if g.BaseColorTex >= 0 {
		tex := a.Image(g.BaseColorTex).SampleNearest(uv)
		base = RGBA{base.R * tex.R, base.G * tex.G, base.B * tex.B, base.A * tex.A}
	}
	out.Albedo = base.RGB()

	rough := g.RoughnessFactor
	metal := g.MetallicFactor
	if g.MetallicRoughnessTex >= 0 {
		mr := a.Image(g.MetallicRoughnessTex).SampleNearest(uv)
		rough = math.Min(math.Max(mr.G*rough, 0.001), 1.0)
		metal = math.Min(math.Max(mr.B*metal, 0.0), 1.0)
	}
	out.Roughness = rough
	out.Metallic = metal

	emiss := g.EmissiveFactor
	if g.EmissiveTex >= 0 {
		tex := a.Image(g.EmissiveTex).SampleNearest(uv)
		emiss = emiss.MultiplyVec(tex.RGB())
	}
	out.EmissionColour = emiss
	out.EmissionStrength = emiss.Length()

	tr := g.TransmissionFactor
	if g.TransmissionTex >= 0 {
		tr *= a.Image(g.TransmissionTex).SampleNearest(uv).R
	}
	out.Transmission = math.Min(math.Max(tr, 0.0), 1.0)
	out.IOR = g.IOR

	return out
}

// maskedOut reports whether an alpha-Mask face is transparent at the given
// barycentric coordinates and should be skipped during traversal. Blend is
// treated as opaque for visibility.
func (a *MeshAsset) maskedOut(f *Face, u, v float64) bool {
	if f.MaterialGroup < 0 {
		return false
	}
	g := &a.groups[f.MaterialGroup]
	if g.AlphaMode != AlphaMask {
		return false
	}

	w := 1.0 - u - v
	uv := f.A.TexCoord.Multiply(w).Add(f.B.TexCoord.Multiply(u)).Add(f.C.TexCoord.Multiply(v))

	alpha := g.BaseColorFactor.A
	if g.BaseColorTex >= 0 {
		alpha *= a.Image(g.BaseColorTex).SampleNearest(uv).A
	}
	return alpha < g.AlphaCutoff
}
