package geometry

import (
	"math"

	"github.com/jtothec67/go-pathtracer/pkg/asset"
	"github.com/jtothec67/go-pathtracer/pkg/core"
)

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

// triAsset builds a one-triangle asset for instance tests
func triAsset(a, b, c core.Vec3, groups []asset.PBRMaterial, images []asset.Image, group int) *asset.MeshAsset {
	n := b.Subtract(a).Cross(c.Subtract(a)).Normalize()
	face := asset.Face{
		A:             asset.Vertex{Position: a, Normal: n},
		B:             asset.Vertex{Position: b, Normal: n, TexCoord: core.NewVec2(1, 0)},
		C:             asset.Vertex{Position: c, Normal: n, TexCoord: core.NewVec2(0, 1)},
		MaterialGroup: group,
	}
	ma, err := asset.NewMeshAsset([]asset.Face{face}, groups, images, 0)
	if err != nil {
		panic(err)
	}
	return ma
}
