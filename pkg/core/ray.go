package core

// Ray represents a ray with an origin, a unit direction, and the index of
// refraction of the medium the ray is currently travelling through
// (1.0 in air/vacuum).
type Ray struct {
	Origin    Vec3
	Direction Vec3
	MediumIOR float64
}

// NewRay creates a new ray travelling in air. The direction is normalized.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize(), MediumIOR: 1.0}
}

// NewRayInMedium creates a normalized ray inside a medium with the given IOR.
func NewRayInMedium(origin, direction Vec3, mediumIOR float64) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize(), MediumIOR: mediumIOR}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
