package renderer

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jtothec67/go-pathtracer/pkg/core"
)

// Camera is a pinhole camera built from view and projection matrices.
// Rays are generated by unprojecting near/far clip-space points through the
// inverse projection and rotating into world space.
type Camera struct {
	position core.Vec3
	rotation core.Vec3 // Euler degrees

	fov  float64 // vertical, degrees
	near float64
	far  float64

	width  int
	height int

	view    mgl64.Mat4
	proj    mgl64.Mat4
	invView mgl64.Mat4
	invProj mgl64.Mat4
}

// NewCamera creates a camera at the origin looking down -Z
func NewCamera(width, height int) *Camera {
	return NewCameraAt(core.Vec3{}, core.Vec3{}, width, height)
}

// NewCameraAt creates a camera with the given position and Euler rotation
// in degrees.
func NewCameraAt(position, rotation core.Vec3, width, height int) *Camera {
	c := &Camera{
		position: position,
		rotation: rotation,
		fov:      60,
		near:     0.1,
		far:      100,
		width:    width,
		height:   height,
	}
	c.calculateMatrices()
	return c
}

func (c *Camera) calculateMatrices() {
	r := mgl64.HomogRotate3DX(mgl64.DegToRad(c.rotation.X)).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(c.rotation.Y))).
		Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(c.rotation.Z)))

	worldFromCam := mgl64.Translate3D(c.position.X, c.position.Y, c.position.Z).Mul4(r)
	c.invView = worldFromCam
	c.view = worldFromCam.Inv()

	aspect := float64(c.width) / float64(c.height)
	c.proj = mgl64.Perspective(mgl64.DegToRad(c.fov), aspect, c.near, c.far)
	c.invProj = c.proj.Inv()
}

// Resize updates the aspect ratio for a new window size
func (c *Camera) Resize(width, height int) {
	c.width = width
	c.height = height
	c.calculateMatrices()
}

// SetPosition moves the camera
func (c *Camera) SetPosition(position core.Vec3) {
	c.position = position
	c.calculateMatrices()
}

// Position returns the world-space camera position
func (c *Camera) Position() core.Vec3 { return c.position }

// SetRotation sets the Euler rotation in degrees
func (c *Camera) SetRotation(rotation core.Vec3) {
	c.rotation = rotation
	c.calculateMatrices()
}

// Rotation returns the Euler rotation in degrees
func (c *Camera) Rotation() core.Vec3 { return c.rotation }

// SetFov sets the vertical field of view in degrees
func (c *Camera) SetFov(fov float64) {
	c.fov = fov
	c.calculateMatrices()
}

// Fov returns the vertical field of view in degrees
func (c *Camera) Fov() float64 { return c.fov }

// SetNearPlane sets the near clip distance
func (c *Camera) SetNearPlane(near float64) {
	c.near = near
	c.calculateMatrices()
}

// NearPlane returns the near clip distance
func (c *Camera) NearPlane() float64 { return c.near }

// SetFarPlane sets the far clip distance
func (c *Camera) SetFarPlane(far float64) {
	c.far = far
	c.calculateMatrices()
}

// FarPlane returns the far clip distance
func (c *Camera) FarPlane() float64 { return c.far }

// GetRay generates the world-space ray through the center of pixel (x, y)
// on a w*h image.
func (c *Camera) GetRay(x, y, w, h int) core.Ray {
	nx := (float64(x)+0.5)/float64(w)*2.0 - 1.0
	ny := (float64(y)+0.5)/float64(h)*2.0 - 1.0

	clipNear := mgl64.Vec4{nx, ny, -1, 1}
	clipFar := mgl64.Vec4{nx, ny, 1, 1}

	camNear := c.invProj.Mul4x1(clipNear)
	camNear = camNear.Mul(1.0 / camNear.W())
	camFar := c.invProj.Mul4x1(clipFar)
	camFar = camFar.Mul(1.0 / camFar.W())

	dirCam := camFar.Sub(camNear).Vec3().Normalize()
	dirWorld := c.invView.Mat3().Mul3x1(dirCam).Normalize()

	return core.Ray{
		Origin:    c.position,
		Direction: core.NewVec3(dirWorld.X(), dirWorld.Y(), dirWorld.Z()),
		MediumIOR: 1.0,
	}
}

// Forward returns the camera's view axis from the view matrix
func (c *Camera) Forward() core.Vec3 {
	return core.NewVec3(c.view.At(2, 0), c.view.At(2, 1), c.view.At(2, 2)).Normalize()
}

// Right returns the camera's right axis from the view matrix
func (c *Camera) Right() core.Vec3 {
	return core.NewVec3(c.view.At(0, 0), c.view.At(0, 1), c.view.At(0, 2)).Normalize()
}

// Up returns the camera's up axis from the view matrix
func (c *Camera) Up() core.Vec3 {
	return core.NewVec3(c.view.At(1, 0), c.view.At(1, 1), c.view.At(1, 2)).Normalize()
}
