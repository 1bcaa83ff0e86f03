package material

import (
	"github.com/jtothec67/go-pathtracer/pkg/core"
)

// Material holds the shading parameters evaluated at a surface point.
// Albedo and EmissionColour are linear RGB; Roughness, Metallic and
// Transmission are in [0,1]; IOR >= 1.
type Material struct {
	Albedo           core.Vec3
	Roughness        float64
	Metallic         float64
	EmissionColour   core.Vec3
	EmissionStrength float64
	IOR              float64
	Transmission     float64
}

// Default returns the material every surface starts with: white, fully
// rough, non-metallic, non-emissive glasslike IOR with no transmission.
func Default() Material {
	return Material{
		Albedo:    core.NewVec3(1, 1, 1),
		Roughness: 1.0,
		IOR:       1.5,
	}
}

// Emitted returns the radiance the material emits
func (m Material) Emitted() core.Vec3 {
	return m.EmissionColour.Multiply(m.EmissionStrength)
}
