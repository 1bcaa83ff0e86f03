package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jtothec67/go-pathtracer/pkg/asset"
	"github.com/jtothec67/go-pathtracer/pkg/core"
	"github.com/jtothec67/go-pathtracer/pkg/material"
)

// MeshInstance places an immutable MeshAsset in the world with a
// translate/rotate/scale transform. Instances share the asset and its BVH;
// only the transform is per-instance.
type MeshInstance struct {
	Name  string
	Asset *asset.MeshAsset

	position core.Vec3
	rotation core.Vec3 // Euler degrees
	scale    core.Vec3

	worldFromObject mgl64.Mat4
	objectFromWorld mgl64.Mat4
	normalMatrix    mgl64.Mat3 // inverse-transpose for normals
}

// NewMeshInstance creates an instance of the asset with the given transform.
// Scale components must be non-zero.
func NewMeshInstance(name string, a *asset.MeshAsset, position, rotation, scale core.Vec3) *MeshInstance {
	mi := &MeshInstance{
		Name:     name,
		Asset:    a,
		position: position,
		rotation: rotation,
		scale:    scale,
	}
	mi.updateTransform()
	return mi
}

// Position returns the world-space translation
func (mi *MeshInstance) Position() core.Vec3 { return mi.position }

// Rotation returns the Euler rotation in degrees
func (mi *MeshInstance) Rotation() core.Vec3 { return mi.rotation }

// Scale returns the per-axis scale
func (mi *MeshInstance) Scale() core.Vec3 { return mi.scale }

// SetTransform replaces the instance transform and rebuilds the cached
// matrices. Must only be called between frames.
func (mi *MeshInstance) SetTransform(position, rotation, scale core.Vec3) {
	mi.position = position
	mi.rotation = rotation
	mi.scale = scale
	mi.updateTransform()
}

func (mi *MeshInstance) updateTransform() {
	m := mgl64.Translate3D(mi.position.X, mi.position.Y, mi.position.Z).
		Mul4(eulerRotation(mi.rotation)).
		Mul4(mgl64.Scale3D(mi.scale.X, mi.scale.Y, mi.scale.Z))
	mi.worldFromObject = m
	mi.objectFromWorld = m.Inv()
	mi.normalMatrix = mi.objectFromWorld.Mat3().Transpose()
}

// Intersect transforms the ray into object space, runs the asset's BVH
// traversal, and produces the shaded hit record in world space.
func (mi *MeshInstance) Intersect(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	oObj := mgl64.TransformCoordinate(toMgl(ray.Origin), mi.objectFromWorld)
	dObj := mgl64.TransformNormal(toMgl(ray.Direction), mi.objectFromWorld)

	// Normalize the object-space direction; t scales by the dropped length
	k := dObj.Len()
	if k == 0 {
		return material.HitRecord{}, false
	}
	rObj := core.Ray{
		Origin:    fromMgl(oObj),
		Direction: fromMgl(dObj.Mul(1.0 / k)),
		MediumIOR: ray.MediumIOR,
	}

	triHit, ok := mi.Asset.IntersectLocal(rObj, tMin*k, tMax*k)
	if !ok {
		return material.HitRecord{}, false
	}

	f := mi.Asset.Face(triHit.FaceIndex)
	u, v := triHit.U, triHit.V
	w := 1.0 - u - v

	// Interpolate in object space
	pObj := f.A.Position.Multiply(w).Add(f.B.Position.Multiply(u)).Add(f.C.Position.Multiply(v))
	nObj := f.A.Normal.Multiply(w).Add(f.B.Normal.Multiply(u)).Add(f.C.Normal.Multiply(v)).Normalize()
	uv := f.A.TexCoord.Multiply(w).Add(f.B.TexCoord.Multiply(u)).Add(f.C.TexCoord.Multiply(v))

	e1 := f.B.Position.Subtract(f.A.Position)
	e2 := f.C.Position.Subtract(f.A.Position)
	nObjGeo := e1.Cross(e2).Normalize()

	if f.MaterialGroup >= 0 {
		if g := mi.Asset.Group(f.MaterialGroup); g.NormalTex >= 0 {
			nObj = mi.applyNormalMap(f, g, nObj, uv)
		}
	}

	pWorld := fromMgl(mgl64.TransformCoordinate(toMgl(pObj), mi.worldFromObject))
	nWorld := fromMgl(mi.normalMatrix.Mul3x1(toMgl(nObj))).Normalize()
	nGeoWorld := fromMgl(mi.normalMatrix.Mul3x1(toMgl(nObjGeo))).Normalize()

	// The geometric face decides front/back; the shading normal only flips
	frontFace := ray.Direction.Dot(nGeoWorld) < 0
	if !frontFace {
		nWorld = nWorld.Negate()
	}

	mat := material.Default()
	if f.MaterialGroup >= 0 {
		mat = mi.Asset.EvaluateMaterialAt(f.MaterialGroup, uv)
	}

	return material.HitRecord{
		T:         triHit.T / k,
		Point:     pWorld,
		Normal:    nWorld,
		FrontFace: frontFace,
		Material:  mat,
	}, true
}

// applyNormalMap perturbs the interpolated object-space normal using the
// group's tangent-space normal texture.
func (mi *MeshInstance) applyNormalMap(f *asset.Face, g *asset.PBRMaterial, nObj core.Vec3, uv core.Vec2) core.Vec3 {
	dp1 := f.B.Position.Subtract(f.A.Position)
	dp2 := f.C.Position.Subtract(f.A.Position)
	duv1 := f.B.TexCoord.Subtract(f.A.TexCoord)
	duv2 := f.C.TexCoord.Subtract(f.A.TexCoord)

	det := duv1.X*duv2.Y - duv1.Y*duv2.X

	var tangent, bitangent core.Vec3
	if math.Abs(det) > 1e-8 {
		r := 1.0 / det
		t := dp1.Multiply(duv2.Y).Subtract(dp2.Multiply(duv1.Y)).Multiply(r)
		// Gram-Schmidt: make the tangent orthogonal to the normal
		tangent = t.Subtract(nObj.Multiply(nObj.Dot(t))).Normalize()
		bitangent = nObj.Cross(tangent).Normalize()
	} else {
		// Degenerate UVs: any orthonormal basis around the normal works
		tangent, bitangent = core.BuildOrthonormalBasis(nObj)
	}

	tex := mi.Asset.Image(g.NormalTex).SampleNearest(uv)
	nTS := core.NewVec3(tex.R*2-1, tex.G*2-1, tex.B*2-1)
	nTS.X *= g.NormalScale
	nTS.Y *= g.NormalScale
	nTS = nTS.Normalize()

	// Tangent -> object through the TBN columns
	return tangent.Multiply(nTS.X).
		Add(bitangent.Multiply(nTS.Y)).
		Add(nObj.Multiply(nTS.Z)).
		Normalize()
}
