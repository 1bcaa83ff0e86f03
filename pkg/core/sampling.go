package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// BuildOrthonormalBasis derives a tangent and bitangent for the unit normal
// n. The reference axis is +Z unless n is nearly parallel to it, in which
// case +X is used instead.
func BuildOrthonormalBasis(n Vec3) (tangent, bitangent Vec3) {
	ref := NewVec3(0, 0, 1)
	if math.Abs(n.Z) >= 0.999 {
		ref = NewVec3(1, 0, 0)
	}
	tangent = ref.Cross(n).Normalize()
	bitangent = n.Cross(tangent)
	return tangent, bitangent
}

// SampleCosineHemisphere generates a cosine-weighted direction in the
// hemisphere around the unit normal from two uniform samples.
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	r := math.Sqrt(sample.X)
	phi := 2.0 * math.Pi * sample.Y

	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	z := math.Sqrt(math.Max(0, 1.0-sample.X))

	tangent, bitangent := BuildOrthonormalBasis(normal)
	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(normal.Multiply(z))
}
