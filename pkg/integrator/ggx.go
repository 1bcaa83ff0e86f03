package integrator

import (
	"math"

	"github.com/jtothec67/go-pathtracer/pkg/core"
)

// schlick is the Fresnel-Schlick approximation with a vector F0
func schlick(f0 core.Vec3, cosTheta float64) core.Vec3 {
	m := math.Pow(1.0-cosTheta, 5.0)
	return f0.Add(core.NewVec3(1, 1, 1).Subtract(f0).Multiply(m))
}

// smithG1 is the separable Smith masking term for GGX:
// G1(c) = 2 / (1 + sqrt(1 + alpha^2 * tan^2(theta)))
func smithG1(cosTheta, alpha float64) float64 {
	if cosTheta <= 0 {
		return 0
	}
	tan2 := (1.0 - cosTheta*cosTheta) / (cosTheta * cosTheta)
	return 2.0 / (1.0 + math.Sqrt(1.0+alpha*alpha*tan2))
}

// sampleGGXHalfVector draws a GGX-distributed half vector around the normal
// from two uniform samples: phi = 2*pi*u1, tan^2(theta) = alpha^2*u2/(1-u2).
func sampleGGXHalfVector(normal core.Vec3, alpha float64, sample core.Vec2) core.Vec3 {
	phi := 2.0 * math.Pi * sample.X
	tan2 := alpha * alpha * sample.Y / (1.0 - sample.Y)
	cosTheta := 1.0 / math.Sqrt(1.0+tan2)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	local := core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)

	tangent, bitangent := core.BuildOrthonormalBasis(normal)
	return tangent.Multiply(local.X).
		Add(bitangent.Multiply(local.Y)).
		Add(normal.Multiply(local.Z)).
		Normalize()
}

// reflect mirrors v about the unit normal n
func reflect(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2.0 * v.Dot(n)))
}

// refract bends the unit incident direction through a surface with unit
// normal n and relative IOR eta = etaI/etaT. Returns false on total internal
// reflection.
func refract(incident, n core.Vec3, eta float64) (core.Vec3, bool) {
	cosI := math.Min(incident.Negate().Dot(n), 1.0)
	sin2T := eta * eta * (1.0 - cosI*cosI)
	if sin2T > 1.0 {
		return core.Vec3{}, false
	}
	cosT := math.Sqrt(1.0 - sin2T)
	return incident.Multiply(eta).Add(n.Multiply(eta*cosI - cosT)).Normalize(), true
}
