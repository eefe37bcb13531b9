// Package geom provides the 2d geometric primitives that toolpaths
// are built from: points, segments, closed loops and open paths.
package geom

import "math"

// Point2 is a point (or vector) in the slicing plane.
type Point2 struct {
	X, Y float64
}

// Add returns p + q.
func (p Point2) Add(q Point2) Point2 {
	return Point2{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point2) Sub(q Point2) Point2 {
	return Point2{p.X - q.X, p.Y - q.Y}
}

// Scale returns p scaled by s.
func (p Point2) Scale(s float64) Point2 {
	return Point2{p.X * s, p.Y * s}
}

// Dot returns the dot product of p and q.
func (p Point2) Dot(q Point2) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the z component of the cross product of p and q.
func (p Point2) Cross(q Point2) float64 {
	return p.X*q.Y - p.Y*q.X
}

// MagSq returns the squared magnitude of p.
func (p Point2) MagSq() float64 {
	return p.X*p.X + p.Y*p.Y
}

// Mag returns the magnitude of p.
func (p Point2) Mag() float64 {
	return math.Sqrt(p.MagSq())
}

// Normalised returns p scaled to unit length. The result for a zero
// vector is undefined.
func (p Point2) Normalised() Point2 {
	return p.Scale(1 / p.Mag())
}

// Dist returns the distance between p and q.
func (p Point2) Dist(q Point2) float64 {
	return p.Sub(q).Mag()
}

// Finite reports whether both coordinates are finite numbers.
func (p Point2) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Point3 is a point in model space.
type Point3 struct {
	X, Y, Z float64
}

// A Segment is a directed line segment between two points.
type Segment struct {
	A, B Point2
}

// Length returns the length of the segment.
func (s Segment) Length() float64 {
	return s.A.Dist(s.B)
}

// Intersects reports whether s and t cross, including when an
// endpoint of one lies on the other.
func (s Segment) Intersects(t Segment) bool {
	d1 := t.B.Sub(t.A).Cross(s.A.Sub(t.A))
	d2 := t.B.Sub(t.A).Cross(s.B.Sub(t.A))
	d3 := s.B.Sub(s.A).Cross(t.A.Sub(s.A))
	d4 := s.B.Sub(s.A).Cross(t.B.Sub(s.A))
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	onSegment := func(p, a, b Point2) bool {
		return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
			math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
	}
	if d1 == 0 && onSegment(s.A, t.A, t.B) {
		return true
	}
	if d2 == 0 && onSegment(s.B, t.A, t.B) {
		return true
	}
	if d3 == 0 && onSegment(t.A, s.A, s.B) {
		return true
	}
	if d4 == 0 && onSegment(t.B, s.A, s.B) {
		return true
	}
	return false
}

// Bounds describes an axis-aligned bounding box.
type Bounds struct {
	Min, Max Point2
}

// Expand grows the bounds to include p.
func (b *Bounds) Expand(p Point2) {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
}

// EmptyBounds returns bounds that any point will expand.
func EmptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{
		Min: Point2{inf, inf},
		Max: Point2{-inf, -inf},
	}
}

// ClipSegment returns the part of s inside the bounds, clipping
// parametrically against each of the four slabs. The second result
// is false when the segment lies entirely outside. Endpoints already
// inside are returned unchanged, so callers can stitch consecutive
// clipped segments back into runs by comparing endpoints.
func (b Bounds) ClipSegment(s Segment) (Segment, bool) {
	d := s.B.Sub(s.A)
	t0, t1 := 0.0, 1.0
	slabs := [4][2]float64{
		{-d.X, s.A.X - b.Min.X},
		{d.X, b.Max.X - s.A.X},
		{-d.Y, s.A.Y - b.Min.Y},
		{d.Y, b.Max.Y - s.A.Y},
	}
	for _, slab := range slabs {
		p, q := slab[0], slab[1]
		if p == 0 {
			// parallel to this slab: inside or hopeless
			if q < 0 {
				return Segment{}, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return Segment{}, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return Segment{}, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	out := s
	if t0 > 0 {
		out.A = s.A.Add(d.Scale(t0))
	}
	if t1 < 1 {
		out.B = s.A.Add(d.Scale(t1))
	}
	return out, true
}
