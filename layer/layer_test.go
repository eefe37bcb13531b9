package layer

import (
	"testing"

	"github.com/cjsatuforc/Miracle-Grue/geom"
)

func labeled(t geom.PathType, o geom.PathOwner) geom.LabeledOpenPath {
	return geom.LabeledOpenPath{
		Path:  geom.OpenPath{V: []geom.Point2{{X: 0, Y: 0}, {X: 1, Y: 0}}},
		Label: geom.PathLabel{Type: t, Owner: o},
	}
}

func TestFilterViews(t *testing.T) {
	el := ExtruderLayer{Paths: geom.LabeledOpenPaths{
		labeled(geom.PathTypeOutline, geom.OwnerModel),
		labeled(geom.PathTypeInset, geom.OwnerModel),
		labeled(geom.PathTypeInset, geom.OwnerModel),
		labeled(geom.PathTypeInfill, geom.OwnerModel),
		labeled(geom.PathTypeInfill, geom.OwnerSupport),
		labeled(geom.PathTypeOutline, geom.OwnerSupport),
	}}
	if got := len(el.OutlinePaths()); got != 2 {
		t.Errorf("OutlinePaths() = %d, want 2", got)
	}
	if got := len(el.InsetPaths()); got != 2 {
		t.Errorf("InsetPaths() = %d, want 2", got)
	}
	if got := len(el.InfillPaths()); got != 1 {
		t.Errorf("InfillPaths() = %d, want 1", got)
	}
	if got := len(el.SupportPaths()); got != 2 {
		t.Errorf("SupportPaths() = %d, want 2", got)
	}
}

func TestPush(t *testing.T) {
	var lp LayerPaths
	lay := lp.Push(NewLayer(0.2, 0.35, 0.7, 0))
	lay.Extruders = append(lay.Extruders, ExtruderLayer{ExtruderID: 1})
	if len(lp.Layers) != 1 {
		t.Fatalf("Push did not append")
	}
	if len(lp.Layers[0].Extruders) != 1 || lp.Layers[0].Extruders[0].ExtruderID != 1 {
		t.Errorf("pushed layer not aliased by returned pointer")
	}
	if lp.Layers[0].Height != 0.35 || lp.Layers[0].W != 0.7 {
		t.Errorf("layer fields = %+v", lp.Layers[0])
	}
}
