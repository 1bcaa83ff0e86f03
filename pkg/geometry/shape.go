package geometry

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jtothec67/go-pathtracer/pkg/core"
	"github.com/jtothec67/go-pathtracer/pkg/material"
)

// Shape is anything a ray can hit. Intersect reports the nearest hit inside
// [tMin, tMax]; the record is returned by value so workers never share
// shading state.
type Shape interface {
	Intersect(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool)
}

// eulerRotation builds the rotation for Euler angles in degrees, applied
// X then Y then Z.
func eulerRotation(degrees core.Vec3) mgl64.Mat4 {
	return mgl64.HomogRotate3DX(mgl64.DegToRad(degrees.X)).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(degrees.Y))).
		Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(degrees.Z)))
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v.X(), v.Y(), v.Z())
}
