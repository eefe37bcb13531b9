package geom

// PathType says what a path deposits.
type PathType int

const (
	PathTypeInvalid PathType = iota
	PathTypeOutline
	PathTypeInset
	PathTypeInfill
	PathTypeConnection
)

// PathOwner says which body of material a path belongs to.
type PathOwner int

const (
	OwnerInvalid PathOwner = iota
	OwnerModel
	OwnerSupport
)

// Shell number sentinels. Nested insets count up from
// InsetLabelValue, one per depth; infill uses a value below that base,
// which no nested inset takes. Spurs also number from 0 below the
// base, so a spur's shell can equal InfillLabelValue.
const (
	InsetLabelValue  = 10
	InfillLabelValue = 1
)

// A PathLabel tags a path with its type, its owner and its shell
// number.
type PathLabel struct {
	Type  PathType
	Owner PathOwner
	Shell int
}

// IsConnection reports whether the label marks a synthetic travel
// segment inserted by the optimizer.
func (l PathLabel) IsConnection() bool {
	return l.Type == PathTypeConnection
}

// IsInset reports whether the label marks an inset shell.
func (l PathLabel) IsInset() bool {
	return l.Type == PathTypeInset
}

// IsValid reports whether both type and owner are set.
func (l PathLabel) IsValid() bool {
	return l.Type != PathTypeInvalid && l.Owner != OwnerInvalid
}

// A LabeledOpenPath is an open path with its label.
type LabeledOpenPath struct {
	Path  OpenPath
	Label PathLabel
}

// LabeledOpenPaths is an ordered sequence of labeled paths.
type LabeledOpenPaths []LabeledOpenPath
