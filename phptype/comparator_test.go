package phptype_test

import (
	"testing"

	"phpdoctype.dev/phpdoctype/hierarchy"
	"phpdoctype.dev/phpdoctype/phptype"
)

// A doc-side "static" atom must be looked up in Hierarchy under its
// own "static(FQ)" form, not the bare class name, so it picks up
// hierarchy.Oracle's static(X) rule, which adds {static, self,
// parent, object}, instead of just {object}.
func TestCompareDocStaticSatisfiesNativeSelf(t *testing.T) {
	scope := phptype.NewRootScope()
	scope.Classname = `\Builder`
	h := hierarchy.NewOracle(nil)

	wide := phptype.ParseTypeAndName(scope, "self", phptype.WantType, true, h)
	narrow := phptype.ParseTypeAndName(scope, "static", phptype.WantType, false, h)
	if !wide.TypeOK || !narrow.TypeOK {
		t.Fatalf("parse failed: wide=%+v narrow=%+v", wide, narrow)
	}

	if !phptype.Compare(wide.Type, narrow.Type, scope, h) {
		t.Errorf("Compare(self, static) = false, want true (static satisfies a native self return)")
	}
}
