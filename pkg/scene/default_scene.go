package scene

import (
	"github.com/jtothec67/go-pathtracer/pkg/core"
	"github.com/jtothec67/go-pathtracer/pkg/geometry"
	"github.com/jtothec67/go-pathtracer/pkg/material"
)

// NewDefaultScene builds a small demo scene: a matte sphere resting on a
// box ground under an emissive sky panel, straight down the camera's -Z.
func NewDefaultScene() *Scene {
	s := New()
	s.SetBackground(core.NewVec3(0.5, 0.5, 0.5))

	sphereMat := material.Default()
	sphereMat.Albedo = core.NewVec3(0.8, 0.3, 0.3)
	s.AddInstance(geometry.NewSphere("sphere", core.NewVec3(0, 0, -5), 1, sphereMat))

	groundMat := material.Default()
	groundMat.Albedo = core.NewVec3(0.6, 0.6, 0.6)
	s.AddInstance(geometry.NewBox("ground",
		core.NewVec3(0, -1.5, -5),
		core.NewVec3(0, 0, 0),
		core.NewVec3(20, 1, 20),
		groundMat))

	lightMat := material.Default()
	lightMat.Albedo = core.NewVec3(1, 1, 1)
	lightMat.EmissionColour = core.NewVec3(1, 1, 1)
	lightMat.EmissionStrength = 4
	s.AddInstance(geometry.NewBox("sky light",
		core.NewVec3(0, 6, -5),
		core.NewVec3(0, 0, 0),
		core.NewVec3(10, 0.2, 10),
		lightMat))

	return s
}
