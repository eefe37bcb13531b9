package mesh

import "math"

// LayerMeasure maps between z heights and slice indices. Slice i
// spans [firstSliceZ + i*layerH, firstSliceZ + (i+1)*layerH).
type LayerMeasure struct {
	firstSliceZ float64
	layerH      float64
	layerW      float64
}

// NewLayerMeasure returns a measure with the given first slice z,
// layer height and extrusion width.
func NewLayerMeasure(firstSliceZ, layerH, layerW float64) *LayerMeasure {
	return &LayerMeasure{
		firstSliceZ: firstSliceZ,
		layerH:      layerH,
		layerW:      layerW,
	}
}

// ZToLayerAbove returns the index of the first slice at or above z.
// A quotient within 1e-9 above a whole slice index rounds down to it,
// so float error at an exact slice boundary does not skip a slice.
func (m *LayerMeasure) ZToLayerAbove(z float64) int {
	const eps = 1e-9
	i := int(math.Ceil((z-m.firstSliceZ)/m.layerH - eps))
	if i < 0 {
		return 0
	}
	return i
}

// LayerPosition returns the z of the bottom of slice i.
func (m *LayerMeasure) LayerPosition(i int) float64 {
	return m.firstSliceZ + float64(i)*m.layerH
}

// LayerThickness returns the height of slice i.
func (m *LayerMeasure) LayerThickness(int) float64 {
	return m.layerH
}

// LayerWidth returns the extrusion width used on slice i.
func (m *LayerMeasure) LayerWidth(int) float64 {
	return m.layerW
}
