// Package mesh holds the triangulated input model and the segmenter
// that buckets its triangles by the slices they span.
package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// A Triangle is one face of the input mesh.
type Triangle struct {
	V [3]mgl64.Vec3
}

// ZSort returns the triangle's vertices ordered by ascending z.
func (t Triangle) ZSort() (a, b, c mgl64.Vec3) {
	a, b, c = t.V[0], t.V[1], t.V[2]
	if b.Z() < a.Z() {
		a, b = b, a
	}
	if c.Z() < b.Z() {
		b, c = c, b
	}
	if b.Z() < a.Z() {
		a, b = b, a
	}
	return a, b, c
}

// Limits is the mesh's axis-aligned bounding box.
type Limits struct {
	Min, Max mgl64.Vec3
}

// EmptyLimits returns limits that any point will grow.
func EmptyLimits() Limits {
	inf := math.Inf(1)
	return Limits{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// Grow expands the limits to include p.
func (l *Limits) Grow(p mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		l.Min[i] = math.Min(l.Min[i], p[i])
		l.Max[i] = math.Max(l.Max[i], p[i])
	}
}

// Inflate pads the limits by the given amounts on both sides of each
// axis.
func (l *Limits) Inflate(dx, dy, dz float64) {
	d := mgl64.Vec3{dx, dy, dz}
	l.Min = l.Min.Sub(d)
	l.Max = l.Max.Add(d)
}

// A Mesh is an indexed list of triangles with their bounding box.
type Mesh struct {
	triangles []Triangle
	limits    Limits
}

// NewMesh returns an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{limits: EmptyLimits()}
}

// AddTriangle appends a face and grows the limits.
func (m *Mesh) AddTriangle(t Triangle) {
	m.triangles = append(m.triangles, t)
	for _, v := range t.V {
		m.limits.Grow(v)
	}
}

// Triangles returns all faces in index order.
func (m *Mesh) Triangles() []Triangle {
	return m.triangles
}

// Limits returns the mesh's bounding box.
func (m *Mesh) Limits() Limits {
	return m.limits
}
