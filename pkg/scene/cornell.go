package scene

import (
	"github.com/jtothec67/go-pathtracer/pkg/core"
	"github.com/jtothec67/go-pathtracer/pkg/geometry"
	"github.com/jtothec67/go-pathtracer/pkg/material"
)

// Cornell room dimensions, centred on the camera's -Z axis
const (
	cornellHalf  = 2.0
	cornellDepth = -5.0
	wallThick    = 0.1
)

// NewCornellScene builds a Cornell-style closed room: white floor, ceiling
// and back wall, red left wall, green right wall, an emissive ceiling strip
// and a mirror sphere.
func NewCornellScene() *Scene {
	s := New()
	s.SetBackground(core.NewVec3(0, 0, 0))

	white := material.Default()
	white.Albedo = core.NewVec3(0.73, 0.73, 0.73)

	red := material.Default()
	red.Albedo = core.NewVec3(0.65, 0.05, 0.05)

	green := material.Default()
	green.Albedo = core.NewVec3(0.12, 0.45, 0.15)

	light := material.Default()
	light.Albedo = core.NewVec3(1, 1, 1)
	light.EmissionColour = core.NewVec3(1, 0.9, 0.7)
	light.EmissionStrength = 15

	mirror := material.Default()
	mirror.Albedo = core.NewVec3(0.95, 0.95, 0.95)
	mirror.Roughness = 0
	mirror.Metallic = 1

	noRot := core.NewVec3(0, 0, 0)
	wall := core.NewVec3(2*cornellHalf+wallThick, wallThick, 2*cornellHalf+wallThick)
	sideWall := core.NewVec3(wallThick, 2*cornellHalf+wallThick, 2*cornellHalf+wallThick)

	s.AddInstance(geometry.NewBox("floor",
		core.NewVec3(0, -cornellHalf-wallThick/2, cornellDepth), noRot, wall, white))
	s.AddInstance(geometry.NewBox("ceiling",
		core.NewVec3(0, cornellHalf+wallThick/2, cornellDepth), noRot, wall, white))
	s.AddInstance(geometry.NewBox("back wall",
		core.NewVec3(0, 0, cornellDepth-cornellHalf-wallThick/2), noRot,
		core.NewVec3(2*cornellHalf+wallThick, 2*cornellHalf+wallThick, wallThick), white))
	s.AddInstance(geometry.NewBox("front wall",
		core.NewVec3(0, 0, cornellDepth+cornellHalf+wallThick/2), noRot,
		core.NewVec3(2*cornellHalf+wallThick, 2*cornellHalf+wallThick, wallThick), white))
	s.AddInstance(geometry.NewBox("left wall",
		core.NewVec3(-cornellHalf-wallThick/2, 0, cornellDepth), noRot, sideWall, red))
	s.AddInstance(geometry.NewBox("right wall",
		core.NewVec3(cornellHalf+wallThick/2, 0, cornellDepth), noRot, sideWall, green))

	s.AddInstance(geometry.NewBox("ceiling light",
		core.NewVec3(0, cornellHalf-0.01, cornellDepth), noRot,
		core.NewVec3(1.2, 0.02, 1.2), light))

	s.AddInstance(geometry.NewSphere("mirror sphere",
		core.NewVec3(0.8, -cornellHalf+0.7, cornellDepth-0.8), 0.7, mirror))

	return s
}
