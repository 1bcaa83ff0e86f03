package asset

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jtothec67/go-pathtracer/pkg/core"
)

// triFace builds a face with per-vertex normals from the edge cross product
// and zero UVs.
func triFace(a, b, c core.Vec3) Face {
	n := b.Subtract(a).Cross(c.Subtract(a)).Normalize()
	return Face{
		A:             Vertex{Position: a, Normal: n},
		B:             Vertex{Position: b, Normal: n},
		C:             Vertex{Position: c, Normal: n},
		MaterialGroup: -1,
	}
}

func randomFaces(n int, random *rand.Rand) []Face {
	faces := make([]Face, n)
	for i := range faces {
		center := core.NewVec3(
			random.Float64()*10-5,
			random.Float64()*10-5,
			random.Float64()*10-5,
		)
		jitter := func() core.Vec3 {
			return core.NewVec3(
				random.Float64()-0.5,
				random.Float64()-0.5,
				random.Float64()-0.5,
			)
		}
		faces[i] = triFace(center.Add(jitter()), center.Add(jitter()), center.Add(jitter()))
	}
	return faces
}

func TestNewMeshAsset_Errors(t *testing.T) {
	if _, err := NewMeshAsset(nil, nil, nil, 0); err == nil {
		t.Error("expected error for empty face list")
	}

	faces := []Face{triFace(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))}
	faces[0].MaterialGroup = 3
	if _, err := NewMeshAsset(faces, nil, nil, 0); err == nil {
		t.Error("expected error for out-of-range material group")
	}
}

func TestBVH_BuildInvariants(t *testing.T) {
	random := rand.New(rand.NewSource(11))
	faces := randomFaces(500, random)

	a, err := NewMeshAsset(faces, nil, nil, 0)
	if err != nil {
		t.Fatalf("NewMeshAsset: %v", err)
	}

	// faceIdx must be a permutation of [0, N)
	seen := make(map[uint32]bool, len(faces))
	for _, fi := range a.faceIdx {
		if int(fi) >= len(faces) || seen[fi] {
			t.Fatalf("faceIdx is not a permutation: index %d", fi)
		}
		seen[fi] = true
	}
	if len(seen) != len(faces) {
		t.Fatalf("faceIdx covers %d of %d faces", len(seen), len(faces))
	}

	// Leaves carry faces, inner nodes carry children; leaf ranges tile [0, N)
	covered := 0
	var walk func(idx uint32, depth int)
	maxDepth := 0
	walk = func(idx uint32, depth int) {
		node := &a.nodes[idx]
		if depth > maxDepth {
			maxDepth = depth
		}
		if node.Count > 0 {
			if node.Count > DefaultLeafThreshold {
				t.Errorf("leaf with %d faces exceeds threshold", node.Count)
			}
			covered += int(node.Count)
			return
		}
		walk(node.LeftFirst, depth+1)
		walk(node.RightChild, depth+1)
	}
	walk(0, 0)

	if covered != len(faces) {
		t.Errorf("leaves cover %d of %d faces", covered, len(faces))
	}

	// Median splits keep the tree within 2*log2(N) + C levels
	bound := int(2*math.Log2(float64(len(faces)))) + 4
	if maxDepth > bound {
		t.Errorf("tree depth %d exceeds bound %d", maxDepth, bound)
	}
}

// bruteForceIntersect loops over every face, ignoring the BVH
func bruteForceIntersect(a *MeshAsset, ray core.Ray, tMin, tMax float64) (TriangleHit, bool) {
	best := TriangleHit{FaceIndex: -1}
	closest := tMax
	for i := range a.faces {
		t, u, v, ok := rayTriangle(ray, &a.faces[i])
		if !ok || t < tMin || t >= closest {
			continue
		}
		closest = t
		best = TriangleHit{FaceIndex: i, T: t, U: u, V: v}
	}
	return best, best.FaceIndex >= 0
}

func TestBVH_MatchesBruteForce(t *testing.T) {
	random := rand.New(rand.NewSource(23))
	faces := randomFaces(300, random)

	a, err := NewMeshAsset(faces, nil, nil, 0)
	if err != nil {
		t.Fatalf("NewMeshAsset: %v", err)
	}

	hits := 0
	for i := 0; i < 500; i++ {
		origin := core.NewVec3(
			random.Float64()*20-10,
			random.Float64()*20-10,
			random.Float64()*20-10,
		)
		dir := core.NewVec3(
			random.Float64()*2-1,
			random.Float64()*2-1,
			random.Float64()*2-1,
		).Normalize()
		if dir.Length() == 0 {
			continue
		}
		ray := core.NewRay(origin, dir)

		bvhHit, bvhOK := a.IntersectLocal(ray, 1e-4, 1e30)
		bruteHit, bruteOK := bruteForceIntersect(a, ray, 1e-4, 1e30)

		if bvhOK != bruteOK {
			t.Fatalf("ray %d: BVH hit=%t, brute force hit=%t", i, bvhOK, bruteOK)
		}
		if !bvhOK {
			continue
		}
		hits++

		tolerance := 1e-5 * math.Max(1, bruteHit.T)
		if math.Abs(bvhHit.T-bruteHit.T) > tolerance {
			t.Fatalf("ray %d: BVH t=%f, brute force t=%f", i, bvhHit.T, bruteHit.T)
		}
	}

	if hits == 0 {
		t.Fatal("no rays hit the mesh; test is vacuous")
	}
}

func TestBVH_SingleTriangle(t *testing.T) {
	faces := []Face{triFace(
		core.NewVec3(0, 0, -1),
		core.NewVec3(1, 0, -1),
		core.NewVec3(0, 1, -1),
	)}
	a, err := NewMeshAsset(faces, nil, nil, 0)
	if err != nil {
		t.Fatalf("NewMeshAsset: %v", err)
	}

	ray := core.NewRay(core.NewVec3(0.25, 0.25, 0), core.NewVec3(0, 0, -1))
	hit, ok := a.IntersectLocal(ray, 1e-4, 1e30)
	if !ok {
		t.Fatal("expected hit")
	}

	if math.Abs(hit.T-1) > 1e-9 {
		t.Errorf("t: got %f, want 1", hit.T)
	}
	if math.Abs(hit.U-0.25) > 1e-9 || math.Abs(hit.V-0.25) > 1e-9 {
		t.Errorf("barycentrics: got (%f, %f), want (0.25, 0.25)", hit.U, hit.V)
	}
}

func TestBVH_DegenerateTriangleMisses(t *testing.T) {
	// All three vertices collinear: the determinant underflows the epsilon
	faces := []Face{
		triFace(core.NewVec3(0, 0, -1), core.NewVec3(1, 0, -1), core.NewVec3(2, 0, -1)),
		triFace(core.NewVec3(0, 0, -2), core.NewVec3(1, 0, -2), core.NewVec3(0, 1, -2)),
	}
	a, err := NewMeshAsset(faces, nil, nil, 0)
	if err != nil {
		t.Fatalf("NewMeshAsset: %v", err)
	}

	ray := core.NewRay(core.NewVec3(0.25, 0.25, 0), core.NewVec3(0, 0, -1))
	hit, ok := a.IntersectLocal(ray, 1e-4, 1e30)
	if !ok {
		t.Fatal("expected the healthy triangle to be hit")
	}
	if math.Abs(hit.T-2) > 1e-9 {
		t.Errorf("t: got %f, want 2 (degenerate triangle must not shadow)", hit.T)
	}
}

func TestBVH_AlphaMaskCutout(t *testing.T) {
	// A 2x1 base colour texture: left texel transparent, right texel opaque
	img := Image{
		Width:    2,
		Height:   1,
		Channels: 4,
		Data: []byte{
			255, 255, 255, 0, // u in [0, 0.5)
			255, 255, 255, 255, // u in [0.5, 1)
		},
	}

	group := DefaultPBRMaterial()
	group.AlphaMode = AlphaMask
	group.BaseColorTex = 0

	// Two stacked triangles; the nearer one samples the transparent texel
	near := triFace(core.NewVec3(-1, -1, -1), core.NewVec3(3, -1, -1), core.NewVec3(-1, 3, -1))
	near.MaterialGroup = 0
	near.A.TexCoord = core.NewVec2(0.1, 0.5)
	near.B.TexCoord = core.NewVec2(0.1, 0.5)
	near.C.TexCoord = core.NewVec2(0.1, 0.5)

	far := triFace(core.NewVec3(-1, -1, -2), core.NewVec3(3, -1, -2), core.NewVec3(-1, 3, -2))
	far.MaterialGroup = 0
	far.A.TexCoord = core.NewVec2(0.9, 0.5)
	far.B.TexCoord = core.NewVec2(0.9, 0.5)
	far.C.TexCoord = core.NewVec2(0.9, 0.5)

	a, err := NewMeshAsset([]Face{near, far}, []PBRMaterial{group}, []Image{img}, 0)
	if err != nil {
		t.Fatalf("NewMeshAsset: %v", err)
	}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit, ok := a.IntersectLocal(ray, 1e-4, 1e30)
	if !ok {
		t.Fatal("expected traversal to continue past the masked face")
	}
	if math.Abs(hit.T-2) > 1e-9 {
		t.Errorf("t: got %f, want 2 (masked face must be skipped)", hit.T)
	}
}
