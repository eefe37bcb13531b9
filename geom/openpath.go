package geom

// An OpenPath is a contiguous series of line segments, from the first
// point in the V slice to the last.
type OpenPath struct {
	V []Point2
}

// AppendEnd adds a point after the last point.
func (p *OpenPath) AppendEnd(v Point2) {
	p.V = append(p.V, v)
}

// AppendStart adds a point before the first point.
func (p *OpenPath) AppendStart(v Point2) {
	p.V = append([]Point2{v}, p.V...)
}

// Start returns the first point of the path.
func (p *OpenPath) Start() Point2 {
	return p.V[0]
}

// End returns the last point of the path.
func (p *OpenPath) End() Point2 {
	return p.V[len(p.V)-1]
}

// Empty reports whether the path has no points.
func (p *OpenPath) Empty() bool {
	return len(p.V) == 0
}

// Reversed returns the path traversed from the other end.
func (p *OpenPath) Reversed() OpenPath {
	return OpenPath{V: reversed(p.V)}
}

// Distance returns the sum of the path's segment lengths.
func (p *OpenPath) Distance() float64 {
	d := 0.0
	for i := 1; i < len(p.V); i++ {
		d += p.V[i-1].Dist(p.V[i])
	}
	return d
}

// Segments returns the path's edges in order.
func (p *OpenPath) Segments() []Segment {
	var segs []Segment
	for i := 1; i < len(p.V); i++ {
		segs = append(segs, Segment{p.V[i-1], p.V[i]})
	}
	return segs
}

// ClosedLoop reports whether the path returns to its start with
// enough points to enclose area. A two-point out-and-back does not
// count.
func (p *OpenPath) ClosedLoop() bool {
	return len(p.V) > 2 && p.Start() == p.End()
}

// Finite reports whether every coordinate on the path is finite.
func (p *OpenPath) Finite() bool {
	for _, v := range p.V {
		if !v.Finite() {
			return false
		}
	}
	return true
}
