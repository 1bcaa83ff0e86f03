package material

import (
	"github.com/jtothec67/go-pathtracer/pkg/core"
)

// HitRecord contains information about a ray-object intersection. The
// material is stored by value so workers never share mutable shading state.
type HitRecord struct {
	T         float64   // Parameter t along the ray
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Shading normal, oriented against the incoming ray
	FrontFace bool      // Whether the ray struck the geometric outside
	Material  Material  // Material sampled at the hit
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Multiply(-1)
	}
}
