package pather

import "github.com/cjsatuforc/Miracle-Grue/geom"

func joinEligible(l geom.PathLabel) bool {
	return l.IsConnection() || l.IsInset()
}

// CleanPaths joins adjacent runs: when a path ends where the next one
// starts (within coarseness) and both are connections or insets, the
// two fuse into one. Closed insets are left alone. The surviving
// entry sits at the later position, keeping the earlier label when
// the earlier path was an inset.
func CleanPaths(paths geom.LabeledOpenPaths, coarseness float64) geom.LabeledOpenPaths {
	var removals []int
	for i := 0; i+1 < len(paths); i++ {
		current := &paths[i]
		next := &paths[i+1]

		if current.Path.Empty() || next.Path.Empty() {
			continue
		}
		if current.Path.End().Sub(next.Path.Start()).MagSq() > coarseness*coarseness {
			continue
		}
		if !joinEligible(current.Label) || !joinEligible(next.Label) {
			continue
		}
		if current.Path.ClosedLoop() || next.Path.ClosedLoop() {
			continue
		}

		joined := geom.OpenPath{V: append(append([]geom.Point2(nil), current.Path.V...), next.Path.V[1:]...)}
		label := next.Label
		if current.Label.IsInset() {
			label = current.Label
		}
		paths[i+1] = geom.LabeledOpenPath{Path: joined, Label: label}
		removals = append(removals, i)
	}
	for k := len(removals) - 1; k >= 0; k-- {
		i := removals[k]
		paths = append(paths[:i], paths[i+1:]...)
	}
	return paths
}
