package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jtothec67/go-pathtracer/pkg/core"
	"github.com/jtothec67/go-pathtracer/pkg/material"
)

// Box is an oriented box: an axis-aligned box in its local frame, rotated by
// Euler angles (degrees, X then Y then Z) and translated to Center in world
// space.
type Box struct {
	Name     string
	Material material.Material

	center   core.Vec3
	rotation core.Vec3
	size     core.Vec3 // full extents

	worldFromLocal mgl64.Mat3
	localFromWorld mgl64.Mat3
}

// NewBox creates an oriented box with the given center, Euler rotation in
// degrees and full extents.
func NewBox(name string, center, rotation, size core.Vec3, mat material.Material) *Box {
	b := &Box{
		Name:     name,
		Material: mat,
		center:   center,
		rotation: rotation,
		size:     size,
	}
	b.updateRotation()
	return b
}

// Center returns the world-space center
func (b *Box) Center() core.Vec3 { return b.center }

// SetCenter moves the box
func (b *Box) SetCenter(center core.Vec3) { b.center = center }

// Rotation returns the Euler rotation in degrees
func (b *Box) Rotation() core.Vec3 { return b.rotation }

// SetRotation sets the Euler rotation in degrees and rebuilds the cached
// rotation matrices.
func (b *Box) SetRotation(rotation core.Vec3) {
	b.rotation = rotation
	b.updateRotation()
}

// Size returns the full extents
func (b *Box) Size() core.Vec3 { return b.size }

// SetSize sets the full extents
func (b *Box) SetSize(size core.Vec3) { b.size = size }

func (b *Box) updateRotation() {
	b.worldFromLocal = eulerRotation(b.rotation).Mat3()
	// Pure rotation: the inverse is the transpose
	b.localFromWorld = b.worldFromLocal.Transpose()
}

// Intersect transforms the ray into the box's local frame and runs a slab
// test against the axis-aligned extents.
func (b *Box) Intersect(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	roLocal := b.localFromWorld.Mul3x1(toMgl(ray.Origin.Subtract(b.center)))
	rdLocal := b.localFromWorld.Mul3x1(toMgl(ray.Direction))

	half := b.size.Multiply(0.5)
	halfArr := [3]float64{half.X, half.Y, half.Z}

	// Slab test, substituting huge reciprocals for zero direction components
	const big = 1e30
	var tNear, tFar [3]float64
	for axis := 0; axis < 3; axis++ {
		invD := big
		if d := rdLocal[axis]; d != 0 {
			invD = 1.0 / d
		} else if math.Signbit(d) {
			invD = -big
		}
		t1 := (-halfArr[axis] - roLocal[axis]) * invD
		t2 := (halfArr[axis] - roLocal[axis]) * invD
		tNear[axis] = math.Min(t1, t2)
		tFar[axis] = math.Max(t1, t2)
	}

	tEnter := math.Max(tNear[0], math.Max(tNear[1], tNear[2]))
	tExit := math.Min(tFar[0], math.Min(tFar[1], tFar[2]))

	if tExit < tEnter || tExit < tMin {
		return material.HitRecord{}, false
	}
	tHit := tEnter
	if tHit < tMin {
		tHit = tExit // started inside the box
	}
	if tHit < tMin || tHit > tMax {
		return material.HitRecord{}, false
	}

	pLocal := core.NewVec3(
		roLocal[0]+tHit*rdLocal[0],
		roLocal[1]+tHit*rdLocal[1],
		roLocal[2]+tHit*rdLocal[2],
	)

	// Find the face whose plane the local hit point lies on
	eps := 1e-4 * math.Max(half.X, math.Max(half.Y, half.Z))
	var nLocal core.Vec3
	switch {
	case math.Abs(pLocal.Z-half.Z) <= eps:
		nLocal = core.NewVec3(0, 0, 1)
	case math.Abs(pLocal.Z+half.Z) <= eps:
		nLocal = core.NewVec3(0, 0, -1)
	case math.Abs(pLocal.Y-half.Y) <= eps:
		nLocal = core.NewVec3(0, 1, 0)
	case math.Abs(pLocal.Y+half.Y) <= eps:
		nLocal = core.NewVec3(0, -1, 0)
	case math.Abs(pLocal.X-half.X) <= eps:
		nLocal = core.NewVec3(1, 0, 0)
	case math.Abs(pLocal.X+half.X) <= eps:
		nLocal = core.NewVec3(-1, 0, 0)
	default:
		// FP drift can leave the point just off every face plane; fall back
		// to the axis whose slab produced tEnter
		switch {
		case tEnter == tNear[2]:
			nLocal = core.NewVec3(0, 0, sign(pLocal.Z))
		case tEnter == tNear[1]:
			nLocal = core.NewVec3(0, sign(pLocal.Y), 0)
		default:
			nLocal = core.NewVec3(sign(pLocal.X), 0, 0)
		}
	}

	hit := material.HitRecord{
		T:        tHit,
		Point:    ray.At(tHit),
		Material: b.Material,
	}
	nWorld := fromMgl(b.worldFromLocal.Mul3x1(toMgl(nLocal))).Normalize()
	hit.SetFaceNormal(ray, nWorld)

	return hit, true
}

func sign(v float64) float64 {
	if v > 0 {
		return 1
	}
	return -1
}
