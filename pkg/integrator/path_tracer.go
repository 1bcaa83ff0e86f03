// Package integrator implements the recursive radiance estimator: emission
// plus a single-sample lobe selection over dielectric transmission, GGX
// specular reflection and Lambertian diffuse.
package integrator

import (
	"math"

	"github.com/jtothec67/go-pathtracer/pkg/core"
	"github.com/jtothec67/go-pathtracer/pkg/material"
	"github.com/jtothec67/go-pathtracer/pkg/scene"
)

const (
	kTMin = 1e-4 // hit window floor / self-intersection offset
	kTMax = 1e30

	// Floor for lobe-selection pdfs to keep weights finite
	pdfEpsilon = 1e-6
)

// PathTracer estimates radiance along camera rays by recursive Monte-Carlo
// sampling of the scene. It holds no per-ray state, so one instance is
// shared by all workers.
type PathTracer struct {
	scene *scene.Scene
}

// NewPathTracer creates an integrator over the given scene
func NewPathTracer(s *scene.Scene) *PathTracer {
	return &PathTracer{scene: s}
}

// TraceRay returns the radiance estimate along the ray with the given
// remaining bounce budget. With albedoOnly set it returns a
// distance-darkened base colour without recursing.
func (pt *PathTracer) TraceRay(ray core.Ray, depth int, albedoOnly bool, sampler core.Sampler) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, ok := pt.scene.Intersect(ray, kTMin, kTMax)
	if !ok {
		return pt.scene.Background()
	}

	if albedoOnly {
		fade := 1.0 - math.Min(math.Max(hit.T/20.0, 0.0), 0.8)
		return hit.Material.Albedo.Multiply(fade)
	}

	m := hit.Material
	radiance := m.Emitted()

	n := hit.Normal
	wo := ray.Direction.Negate()
	cosNo := math.Max(0, wo.Dot(n))

	// Dielectric base reflectance and squared roughness
	f0 := core.Lerp(core.NewVec3(0.04, 0.04, 0.04), m.Albedo, m.Metallic)
	alpha := math.Max(1e-4, m.Roughness*m.Roughness)

	// Stage A: transmission coin
	pT := math.Min(math.Max(m.Transmission, 0.0), 1.0)
	if sampler.Get1D() < pT {
		return radiance.Add(pt.sampleInterface(ray, hit, wo, n, cosNo, f0, alpha, pT, depth, sampler))
	}

	// Non-interface: split the remaining probability between a GGX specular
	// lobe and a cosine-weighted diffuse lobe by the average view Fresnel
	fresnelView := schlick(f0, cosNo)
	specProb := math.Min(math.Max(fresnelView.Mean(), 0.05), 0.95)

	if sampler.Get1D() < specProb {
		weight, next, ok := pt.sampleGGXLobe(ray, hit, wo, n, cosNo, f0, alpha, sampler)
		if !ok {
			return radiance // sampled below the horizon: zero for this sample
		}
		weight = weight.Multiply(1.0 / math.Max(pdfEpsilon, specProb*(1.0-pT)))
		return radiance.Add(weight.MultiplyVec(pt.TraceRay(next, depth-1, false, sampler)))
	}

	dir := core.SampleCosineHemisphere(n, sampler.Get2D())
	next := core.Ray{
		Origin:    hit.Point.Add(n.Multiply(kTMin)),
		Direction: dir,
		MediumIOR: ray.MediumIOR,
	}
	weight := m.Albedo.Multiply((1.0 - m.Metallic) / math.Max(pdfEpsilon, (1.0-specProb)*(1.0-pT)))
	return radiance.Add(weight.MultiplyVec(pt.TraceRay(next, depth-1, false, sampler)))
}

// sampleInterface handles the transmissive branch: a Fresnel-weighted coin
// between rough reflection and refraction across the dielectric boundary.
func (pt *PathTracer) sampleInterface(ray core.Ray, hit material.HitRecord, wo, n core.Vec3, cosNo float64, f0 core.Vec3, alpha, pT float64, depth int, sampler core.Sampler) core.Vec3 {
	etaI := ray.MediumIOR
	etaT := 1.0
	if hit.FrontFace {
		etaT = hit.Material.IOR
	}
	eta := etaI / etaT

	cosI := math.Min(math.Max(ray.Direction.Negate().Dot(n), 0.0), 1.0)
	r0 := (etaI - etaT) / (etaI + etaT)
	r0 *= r0
	fresnel := r0 + (1.0-r0)*math.Pow(1.0-cosI, 5.0)
	tir := eta*eta*(1.0-cosI*cosI) > 1.0

	// Stage B: reflect vs refract
	pR := fresnel
	if tir {
		pR = 1.0
	}

	if sampler.Get1D() < pR {
		weight, next, ok := pt.sampleGGXLobe(ray, hit, wo, n, cosNo, f0, alpha, sampler)
		if !ok {
			return core.Vec3{}
		}
		weight = weight.Multiply(1.0 / math.Max(pdfEpsilon, pT*pR))
		return weight.MultiplyVec(pt.TraceRay(next, depth-1, false, sampler))
	}

	dir, ok := refract(ray.Direction, n, eta)
	if !ok {
		return core.Vec3{}
	}
	next := core.Ray{
		// Offset along the outgoing direction, not the normal: the
		// refracted ray continues on the far side of the surface
		Origin:    hit.Point.Add(dir.Multiply(kTMin)),
		Direction: dir,
		MediumIOR: etaT,
	}
	weight := (1.0 - fresnel) / math.Max(pdfEpsilon, pT*(1.0-pR))
	return pt.TraceRay(next, depth-1, false, sampler).Multiply(weight)
}

// sampleGGXLobe draws a GGX half vector, reflects the view direction about
// it, and returns the microfacet BRDF weight (before pdf division) with the
// continuation ray. ok is false when the sampled direction falls below the
// horizon, which contributes zero for this sample.
func (pt *PathTracer) sampleGGXLobe(ray core.Ray, hit material.HitRecord, wo, n core.Vec3, cosNo float64, f0 core.Vec3, alpha float64, sampler core.Sampler) (core.Vec3, core.Ray, bool) {
	h := sampleGGXHalfVector(n, alpha, sampler.Get2D())
	wi := reflect(ray.Direction, h)

	cosNi := wi.Dot(n)
	if cosNi <= 0 || cosNo <= 0 {
		return core.Vec3{}, core.Ray{}, false
	}

	cosVh := math.Max(0, wo.Dot(h))
	cosNh := math.Max(1e-8, n.Dot(h))

	fresnel := schlick(f0, cosVh)
	g := smithG1(cosNo, alpha) * smithG1(cosNi, alpha)
	weight := fresnel.Multiply(g * cosVh / (cosNo * cosNh))

	next := core.Ray{
		Origin:    hit.Point.Add(n.Multiply(kTMin)),
		Direction: wi,
		MediumIOR: ray.MediumIOR,
	}
	return weight, next, true
}
