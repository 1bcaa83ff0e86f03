package asset

import (
	"math"
	"sort"

	"github.com/jtothec67/go-pathtracer/pkg/core"
)

// bvhNode is one node of the flat BVH. A leaf has Count > 0 and LeftFirst
// indexing a contiguous [LeftFirst, LeftFirst+Count) range of faceIdx; an
// inner node has Count == 0 with LeftFirst and RightChild holding the node
// indices of its children.
type bvhNode struct {
	Bounds     core.AABB
	LeftFirst  uint32
	RightChild uint32
	Count      uint32
}

// traversalStackSize bounds the iterative descent. A median-split tree over
// N faces stays within 2*log2(N)+C levels, so 64 covers any realistic mesh.
const traversalStackSize = 64

// TriangleHit identifies the nearest face hit by an object-space ray
type TriangleHit struct {
	FaceIndex int
	T         float64
	U, V      float64
}

type bvhBuilder struct {
	asset         *MeshAsset
	centroids     []core.Vec3
	faceBounds    []core.AABB
	leafThreshold int
}

// buildBVH computes per-face bounds and centroids, then recursively median
// splits the face permutation along each node's longest axis.
func (a *MeshAsset) buildBVH(leafThreshold int) {
	n := len(a.faces)

	b := &bvhBuilder{
		asset:         a,
		centroids:     make([]core.Vec3, n),
		faceBounds:    make([]core.AABB, n),
		leafThreshold: leafThreshold,
	}

	for i := range a.faces {
		f := &a.faces[i]
		b.faceBounds[i] = core.NewAABBFromPoints(f.A.Position, f.B.Position, f.C.Position)
		b.centroids[i] = f.A.Position.Add(f.B.Position).Add(f.C.Position).Multiply(1.0 / 3.0)
	}

	a.faceIdx = make([]uint32, n)
	for i := range a.faceIdx {
		a.faceIdx[i] = uint32(i)
	}

	a.nodes = make([]bvhNode, 0, 2*n)
	b.buildNode(0, uint32(n))
	a.bounds = a.nodes[0].Bounds
}

// buildNode appends the node covering faceIdx[start:start+count] and returns
// its index.
func (b *bvhBuilder) buildNode(start, count uint32) uint32 {
	a := b.asset
	nodeIndex := uint32(len(a.nodes))
	a.nodes = append(a.nodes, bvhNode{Bounds: b.rangeBounds(start, count)})

	if count <= uint32(b.leafThreshold) {
		a.nodes[nodeIndex].LeftFirst = start
		a.nodes[nodeIndex].Count = count
		return nodeIndex
	}

	// Median split along the longest axis of the node bounds. Sorting the
	// subrange puts the median at start+count/2; both halves are always
	// non-empty, so the degenerate-partition fallback of an even split is
	// what this produces by construction.
	axis := a.nodes[nodeIndex].Bounds.LongestAxis()
	idx := a.faceIdx[start : start+count]
	sort.Slice(idx, func(i, j int) bool {
		return centroidAxis(b.centroids[idx[i]], axis) < centroidAxis(b.centroids[idx[j]], axis)
	})

	leftCount := count / 2

	left := b.buildNode(start, leftCount)
	right := b.buildNode(start+leftCount, count-leftCount)

	a.nodes[nodeIndex].LeftFirst = left
	a.nodes[nodeIndex].RightChild = right
	return nodeIndex
}

func centroidAxis(c core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	default:
		return c.Z
	}
}

// rangeBounds unions the precomputed face bounds over faceIdx[start:start+count]
func (b *bvhBuilder) rangeBounds(start, count uint32) core.AABB {
	bounds := b.faceBounds[b.asset.faceIdx[start]]
	for i := start + 1; i < start+count; i++ {
		bounds = bounds.Union(b.faceBounds[b.asset.faceIdx[i]])
	}
	return bounds
}

// IntersectLocal finds the nearest unmasked face hit by an object-space ray
// within [tMin, tMax]. The caller is responsible for having normalized the
// ray direction.
func (a *MeshAsset) IntersectLocal(ray core.Ray, tMin, tMax float64) (TriangleHit, bool) {
	best := TriangleHit{FaceIndex: -1}
	closestT := tMax

	var stack [traversalStackSize]uint32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		node := &a.nodes[stack[sp]]

		if _, _, ok := node.Bounds.Hit(ray, tMin, closestT); !ok {
			continue
		}

		if node.Count > 0 { // leaf
			for i := node.LeftFirst; i < node.LeftFirst+node.Count; i++ {
				fi := a.faceIdx[i]
				f := &a.faces[fi]

				t, u, v, ok := rayTriangle(ray, f)
				if !ok || t < tMin || t >= closestT {
					continue
				}
				if a.maskedOut(f, u, v) {
					continue
				}

				closestT = t
				best = TriangleHit{FaceIndex: int(fi), T: t, U: u, V: v}
			}
			continue
		}

		left := node.LeftFirst
		right := node.RightChild

		lt, _, hitL := a.nodes[left].Bounds.Hit(ray, tMin, closestT)
		rt, _, hitR := a.nodes[right].Bounds.Hit(ray, tMin, closestT)

		// Push the farther child first so the nearer is popped next
		switch {
		case hitL && hitR:
			if sp+2 > traversalStackSize {
				panic("asset: BVH traversal stack overflow")
			}
			if lt < rt {
				stack[sp] = right
				stack[sp+1] = left
			} else {
				stack[sp] = left
				stack[sp+1] = right
			}
			sp += 2
		case hitL:
			if sp+1 > traversalStackSize {
				panic("asset: BVH traversal stack overflow")
			}
			stack[sp] = left
			sp++
		case hitR:
			if sp+1 > traversalStackSize {
				panic("asset: BVH traversal stack overflow")
			}
			stack[sp] = right
			sp++
		}
	}

	return best, best.FaceIndex >= 0
}

// rayTriangle runs Möller–Trumbore against a single face
func rayTriangle(ray core.Ray, f *Face) (t, u, v float64, ok bool) {
	const epsilon = 1e-8

	e1 := f.B.Position.Subtract(f.A.Position)
	e2 := f.C.Position.Subtract(f.A.Position)

	p := ray.Direction.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < epsilon {
		return 0, 0, 0, false // parallel or degenerate
	}

	invDet := 1.0 / det
	tvec := ray.Origin.Subtract(f.A.Position)

	u = tvec.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	q := tvec.Cross(e1)
	v = ray.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	t = e2.Dot(q) * invDet
	return t, u, v, t > epsilon
}
