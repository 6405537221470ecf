package reconcile_test

import (
	"fmt"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/reconcile"
)

func specs() []column.Spec {
	return []column.Spec{
		{Key: "name", Title: "Name", Width: column.Px(120)},
		{Key: "addr", Title: "Address", Children: []column.Spec{
			{DataIndex: "city", Title: "City"},
			{DataIndex: "zip", Title: "Zip", Hidden: true},
		}},
		{Key: "age", Title: "Age"},
	}
}

func TestFilter(t *testing.T) {
	got, warnings := reconcile.Filter(specs())
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if keys := column.Keys(got); !slices.Equal(keys, []column.Key{"name", "addr", "city", "age"}) {
		t.Fatalf("Keys = %v", keys)
	}
	city := column.Find(got, "city")
	if city.ParentKey != "addr" || city.Depth != 1 || !city.Visible {
		t.Errorf("city = %+v", *city)
	}
	if addr := column.Find(got, "addr"); !addr.HasChildren {
		t.Error("addr.HasChildren = false")
	}
	if age := column.Find(got, "age"); age.Order != 2 {
		t.Errorf("age.Order = %d, want 2 (document index)", age.Order)
	}
}

func TestFilterDropsEmptyGroups(t *testing.T) {
	got, _ := reconcile.Filter([]column.Spec{
		{Key: "g", Children: []column.Spec{{Key: "a", Hidden: true}}},
		{Key: "b"},
	})
	if keys := column.Keys(got); !slices.Equal(keys, []column.Key{"b"}) {
		t.Errorf("Keys = %v, want [b]", keys)
	}
}

func TestFilterDoesNotAliasSpecs(t *testing.T) {
	in := specs()
	got, _ := reconcile.Filter(in)
	got[0].Width.Value = 999
	if in[0].Width.Value != 120 {
		t.Errorf("spec width changed to %v", in[0].Width.Value)
	}
}

func TestMergePrefersPersisted(t *testing.T) {
	fresh, _ := reconcile.Filter(specs())
	persisted := column.BatchUpdate(fresh, map[column.Key]func(*column.State){
		"name": func(s *column.State) {
			s.Title = "Old title"
			s.Width = column.Px(300)
			s.UpdatedWidth = true
			s.Order = 5
		},
		"city": func(s *column.State) { s.Visible = false },
	})

	merged := reconcile.Merge(fresh, persisted)
	name := column.Find(merged, "name")
	if name.Title != "Name" {
		t.Errorf("Title = %q, want the fresh title", name.Title)
	}
	if name.Width.Value != 300 || !name.UpdatedWidth || name.Order != 5 {
		t.Errorf("name = %+v, want persisted width, order and flag", *name)
	}
	if column.Find(merged, "city").Visible {
		t.Error("city should stay invisible")
	}
}

func TestReconcileNewAndRemovedColumns(t *testing.T) {
	prior, _ := reconcile.Reconcile(specs(), nil)
	prior = column.BatchUpdate(prior, map[column.Key]func(*column.State){
		"age":  func(s *column.State) { s.Order = -1 },
		"name": func(s *column.State) { s.Width = column.Px(222) },
	})

	next := []column.Spec{
		{Key: "name", Title: "Name"},
		{Key: "email", Title: "Email"},
		{Key: "age", Title: "Age"},
	}
	got, _ := reconcile.Reconcile(next, prior)

	if keys := column.Keys(got); !slices.Equal(keys, []column.Key{"age", "name", "email"}) {
		t.Errorf("Keys = %v, want [age name email]", keys)
	}
	if name := column.Find(got, "name"); name.Width.Value != 222 {
		t.Errorf("name width = %v, want persisted 222", name.Width)
	}
	for i, c := range got {
		if c.Order != i {
			t.Errorf("%s.Order = %d, want %d", c.Key, c.Order, i)
		}
	}
}

func TestReconcileIdempotent(t *testing.T) {
	once, _ := reconcile.Reconcile(specs(), nil)
	once = column.BatchUpdate(once, map[column.Key]func(*column.State){
		"addr": func(s *column.State) { s.Order = 9 },
	})
	twice, _ := reconcile.Reconcile(specs(), once)
	thrice, _ := reconcile.Reconcile(specs(), twice)

	if !reflect.DeepEqual(column.Keys(twice), column.Keys(thrice)) {
		t.Errorf("order changed: %v vs %v", column.Keys(twice), column.Keys(thrice))
	}
	for _, key := range column.Keys(twice) {
		a, b := column.Find(twice, key), column.Find(thrice, key)
		if a.Order != b.Order || a.Visible != b.Visible || !reflect.DeepEqual(a.Width, b.Width) {
			t.Errorf("%s differs: %+v vs %+v", key, *a, *b)
		}
	}
}

func TestCheckKeys(t *testing.T) {
	ok, _ := reconcile.Filter(specs())
	if err := reconcile.CheckKeys(ok); err != nil {
		t.Errorf("CheckKeys() = %v", err)
	}

	dup, _ := reconcile.Filter([]column.Spec{
		{Key: "g", Children: []column.Spec{{Key: "a"}}},
		{DataIndex: "a"},
	})
	if err := reconcile.CheckKeys(dup); !errors.Is(err, errors.ErrCodeDuplicateKey) {
		t.Errorf("CheckKeys() = %v, want %s", err, errors.ErrCodeDuplicateKey)
	}
}

func TestPositionalKeysWarn(t *testing.T) {
	got, warnings := reconcile.Filter([]column.Spec{
		{Title: "first"},
		{Key: "g", Children: []column.Spec{{Title: "nested"}}},
	})
	if keys := column.Keys(got); !slices.Equal(keys, []column.Key{"0", "g", "g.0"}) {
		t.Errorf("Keys = %v", keys)
	}
	if len(warnings) != 2 {
		t.Errorf("got %d warnings, want 2", len(warnings))
	}
}

func ExampleReconcile() {
	specs := []column.Spec{{Key: "a"}, {Key: "b"}, {Key: "c"}}
	prior, _ := reconcile.Reconcile(specs, nil)

	// The user moved c to the front and hid b.
	prior = column.BatchUpdate(prior, map[column.Key]func(*column.State){
		"c": func(s *column.State) { s.Order = -1 },
		"b": func(s *column.State) { s.Visible = false },
	})

	// A new column d ships; the user's edits survive.
	next := append(specs, column.Spec{Key: "d"})
	state, _ := reconcile.Reconcile(next, prior)
	for _, s := range state {
		fmt.Println(s.Key, s.Order, s.Visible)
	}
	// Output:
	// c 0 true
	// a 1 true
	// b 2 false
	// d 3 true
}
