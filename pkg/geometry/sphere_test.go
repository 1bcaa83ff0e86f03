package geometry

import (
	"math"
	"testing"

	"github.com/jtothec67/go-pathtracer/pkg/core"
	"github.com/jtothec67/go-pathtracer/pkg/material"
)

func TestSphere_Intersect_Miss(t *testing.T) {
	sphere := NewSphere("s", core.NewVec3(0, 0, 0), 1.0, material.Default())
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Intersect(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Intersect_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere("s", core.NewVec3(0, 0, 0), 1.0, material.Default())

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Intersect(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			tolerance := 1e-9
			if math.Abs(hit.Normal.X-tt.expectedNormal.X) > tolerance ||
				math.Abs(hit.Normal.Y-tt.expectedNormal.Y) > tolerance ||
				math.Abs(hit.Normal.Z-tt.expectedNormal.Z) > tolerance {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}

			// Shading normals always face against the incoming ray
			if ray.Direction.Dot(hit.Normal) > 0 {
				t.Error("Normal points with the ray direction")
			}
		})
	}
}

func TestSphere_Intersect_Bounds(t *testing.T) {
	sphere := NewSphere("s", core.NewVec3(0, 0, 0), 1.0, material.Default())
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// tMax bound
	if hit, isHit := sphere.Intersect(ray, 0.001, 0.5); isHit {
		t.Errorf("Expected miss due to tMax bound, but got hit at t=%f", hit.T)
	}

	// tMin bound
	if hit, isHit := sphere.Intersect(ray, 3.5, 1000.0); isHit {
		t.Errorf("Expected miss due to tMin bound, but got hit at t=%f", hit.T)
	}

	// tMin excludes the near root but not the far one
	hit, isHit := sphere.Intersect(ray, 1.5, 1000.0)
	if !isHit {
		t.Fatal("Expected far-root hit")
	}
	if math.Abs(hit.T-3.0) > 1e-9 {
		t.Errorf("Expected far root t=3, got t=%f", hit.T)
	}
}

func TestSphere_Intersect_CarriesMaterial(t *testing.T) {
	mat := material.Default()
	mat.Albedo = core.NewVec3(0.1, 0.2, 0.3)
	sphere := NewSphere("s", core.NewVec3(0, 0, -5), 1.0, mat)

	hit, isHit := sphere.Intersect(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, 1000)
	if !isHit {
		t.Fatal("Expected hit")
	}
	if hit.Material.Albedo != mat.Albedo {
		t.Errorf("Material albedo: got %v, want %v", hit.Material.Albedo, mat.Albedo)
	}
}
