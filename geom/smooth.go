package geom

import (
	"math"
)

func pointLineDist(v, s, e Point2) float64 {
	ds := v.Dist(s)
	de := v.Dist(e)
	n := Point2{e.Y - s.Y, s.X - e.X}
	m := n.Mag()
	if m == 0 {
		return math.Min(ds, de)
	}
	dp := v.Sub(s).Dot(n) / m
	return math.Min(math.Min(math.Abs(dp), ds), de)
}

// turnAngle returns the absolute heading change at b on the path a-b-c.
func turnAngle(a, b, c Point2) float64 {
	u := b.Sub(a)
	v := c.Sub(b)
	if u.MagSq() == 0 || v.MagSq() == 0 {
		return 0
	}
	cos := u.Dot(v) / (u.Mag() * v.Mag())
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos)
}

// smoothRun keeps the vertex whose weighted deviation from the chord
// is worst, and recurses on both halves. A vertex's deviation is its
// distance from the chord, inflated by the heading change there so
// sharp corners survive smoothing.
func smoothRun(v []Point2, coarseness, directionWeight float64) []Point2 {
	worst := 0
	worstD := 0.0
	for i := 1; i < len(v)-1; i++ {
		d := pointLineDist(v[i], v[0], v[len(v)-1])
		d *= 1 + directionWeight*turnAngle(v[i-1], v[i], v[i+1])
		if d > worstD {
			worst = i
			worstD = d
		}
	}
	if worstD <= coarseness {
		return []Point2{v[0], v[len(v)-1]}
	}
	lefts := smoothRun(v[:worst+1], coarseness, directionWeight)
	rights := smoothRun(v[worst:], coarseness, directionWeight)
	return append(lefts, rights[1:]...)
}

// SmoothPath removes vertices from the path, with the guarantee that
// every removed vertex lies within coarseness of the smoothed path.
// directionWeight inflates the deviation of vertices where the
// heading changes, making them harder to remove.
func SmoothPath(p OpenPath, coarseness, directionWeight float64) OpenPath {
	if len(p.V) < 3 {
		return p
	}
	return OpenPath{V: smoothRun(p.V, coarseness, directionWeight)}
}

// SmoothCollection smooths every path in the sequence in place,
// leaving labels untouched.
func SmoothCollection(paths LabeledOpenPaths, coarseness, directionWeight float64) {
	for i := range paths {
		paths[i].Path = SmoothPath(paths[i].Path, coarseness, directionWeight)
	}
}
