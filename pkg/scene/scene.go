// Package scene holds the flat list of intersectable instances queried by
// the integrator. The scene is read-only while a frame renders; instances
// are added or mutated only between frames.
package scene

import (
	"github.com/jtothec67/go-pathtracer/pkg/core"
	"github.com/jtothec67/go-pathtracer/pkg/geometry"
	"github.com/jtothec67/go-pathtracer/pkg/material"
)

// Scene is a flat collection of shapes with a background colour
type Scene struct {
	shapes     []geometry.Shape
	background core.Vec3
}

// New creates an empty scene with the default grey background
func New() *Scene {
	return &Scene{
		background: core.NewVec3(0.2, 0.2, 0.2),
	}
}

// AddInstance appends a shape to the scene
func (s *Scene) AddInstance(shape geometry.Shape) {
	s.shapes = append(s.shapes, shape)
}

// Clear removes all shapes
func (s *Scene) Clear() {
	s.shapes = nil
}

// Shapes returns the instance list
func (s *Scene) Shapes() []geometry.Shape {
	return s.shapes
}

// Background returns the colour returned for rays that miss everything
func (s *Scene) Background() core.Vec3 {
	return s.background
}

// SetBackground sets the miss colour
func (s *Scene) SetBackground(colour core.Vec3) {
	s.background = colour
}

// Intersect scans all instances and returns the nearest hit in [tMin, tMax].
// A zero-length direction is a degenerate ray and misses everything.
func (s *Scene) Intersect(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	if ray.Direction.LengthSquared() == 0 {
		return material.HitRecord{}, false
	}

	var closest material.HitRecord
	hitAnything := false
	closestSoFar := tMax

	for _, shape := range s.shapes {
		if hit, ok := shape.Intersect(ray, tMin, closestSoFar); ok {
			hitAnything = true
			closestSoFar = hit.T
			closest = hit
		}
	}

	return closest, hitAnything
}
