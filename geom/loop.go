package geom

// A Loop is a closed polygon of at least three distinct vertices.
// The stored order is the loop's counter-clockwise order if its
// signed area is positive.
type Loop struct {
	V []Point2
}

// Valid reports whether the loop has at least three distinct vertices.
func (l *Loop) Valid() bool {
	distinct := 0
	for i, v := range l.V {
		if i == 0 || v != l.V[i-1] {
			distinct++
		}
	}
	if distinct > 1 && l.V[len(l.V)-1] == l.V[0] {
		distinct--
	}
	return distinct >= 3
}

// SignedArea returns twice the signed area of the loop; positive when
// the stored order is counter-clockwise.
func (l *Loop) SignedArea() float64 {
	a := 0.0
	n := len(l.V)
	for i := 0; i < n; i++ {
		a += l.V[i].Cross(l.V[(i+1)%n])
	}
	return a
}

// Clockwise returns the loop's vertices in clockwise order.
func (l *Loop) Clockwise() []Point2 {
	if l.SignedArea() <= 0 {
		return append([]Point2(nil), l.V...)
	}
	return reversed(l.V)
}

// CounterClockwise returns the loop's vertices in counter-clockwise order.
func (l *Loop) CounterClockwise() []Point2 {
	if l.SignedArea() > 0 {
		return append([]Point2(nil), l.V...)
	}
	return reversed(l.V)
}

// Segments returns the loop's edges, including the closing edge.
func (l *Loop) Segments() []Segment {
	var segs []Segment
	n := len(l.V)
	for i := 0; i < n; i++ {
		segs = append(segs, Segment{l.V[i], l.V[(i+1)%n]})
	}
	return segs
}

// Offset returns a copy of the loop with every vertex pushed outward
// (positive dist) or inward (negative dist) along the vertex normal.
func (l *Loop) Offset(dist float64) Loop {
	n := len(l.V)
	out := Loop{V: make([]Point2, n)}
	ccw := l.SignedArea() > 0
	for i := range l.V {
		prev := l.V[(i+n-1)%n]
		next := l.V[(i+1)%n]
		d := next.Sub(prev)
		if d.MagSq() == 0 {
			out.V[i] = l.V[i]
			continue
		}
		normal := Point2{d.Y, -d.X}.Normalised()
		if !ccw {
			normal = normal.Scale(-1)
		}
		out.V[i] = l.V[i].Add(normal.Scale(dist))
	}
	return out
}

func reversed(v []Point2) []Point2 {
	r := make([]Point2, len(v))
	for i := range v {
		r[i] = v[len(v)-1-i]
	}
	return r
}

// A LoopPath is a view over a Loop with a chosen start vertex and
// direction. It iterates as an open path but reports itself closed.
type LoopPath struct {
	Loop    *Loop
	Start   int
	Reverse bool
}

// Points returns the traversal order of the view, ending back at the
// start vertex.
func (lp LoopPath) Points() []Point2 {
	src := lp.Loop.V
	n := len(src)
	out := make([]Point2, 0, n+1)
	for i := 0; i <= n; i++ {
		k := i
		if lp.Reverse {
			k = -i
		}
		out = append(out, src[((lp.Start+k)%n+n)%n])
	}
	return out
}

// Closed reports that a loop path always returns to its start.
func (lp LoopPath) Closed() bool { return true }

// Open returns the traversal as an OpenPath whose last point equals
// its first.
func (lp LoopPath) Open() OpenPath {
	return OpenPath{V: lp.Points()}
}
