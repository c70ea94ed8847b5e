package nano

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestObjKeepsOrder(t *testing.T) {
	o := Obj("z", 1, "a", 2, "m", 3)
	if diff := cmp.Diff([]string{"z", "a", "m"}, o.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if o.Len() != 3 {
		t.Errorf("Len() = %d, want 3", o.Len())
	}
}

func TestObjectSetReplaceKeepsPosition(t *testing.T) {
	o := Obj("a", 1, "b", 2)
	o.Set("a", 10).Set("c", 3)

	if diff := cmp.Diff([]string{"a", "b", "c"}, o.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if v, _ := o.Get("a"); v != 10 {
		t.Errorf("Get(a) = %v, want 10", v)
	}
}

func TestObjectDelete(t *testing.T) {
	o := Obj("a", 1, "b", 2, "c", 3)
	o.Delete("b")
	o.Delete("missing")

	if diff := cmp.Diff([]string{"a", "c"}, o.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if _, ok := o.Get("b"); ok {
		t.Error("deleted key still present")
	}
}

func TestObjectZeroValue(t *testing.T) {
	var o Object
	o.Set("x", true)
	if v, ok := o.Get("x"); !ok || v != true {
		t.Errorf("Get(x) = %v, %v", v, ok)
	}

	var nilObj *Object
	if nilObj.Len() != 0 || nilObj.Keys() != nil {
		t.Error("nil object should be empty")
	}
	if _, ok := nilObj.Get("x"); ok {
		t.Error("nil object Get should report missing")
	}
}

func TestObjPanics(t *testing.T) {
	tests := []struct {
		name string
		args []any
	}{
		{"odd arguments", []any{"a"}},
		{"non-string key", []any{1, "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			Obj(tt.args...)
		})
	}
}

func TestObjectRange(t *testing.T) {
	o := Obj("a", 1, "b", 2, "c", 3)
	var seen []string
	o.Range(func(key string, value any) bool {
		seen = append(seen, key)
		return key != "b"
	})
	if diff := cmp.Diff([]string{"a", "b"}, seen); diff != "" {
		t.Errorf("Range mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectJSON(t *testing.T) {
	src := `{"ul":["a",{"$class":"x","li":"b"}],"$id":"list","n":1.5}`

	var o Object
	if err := json.Unmarshal([]byte(src), &o); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff([]string{"ul", "$id", "n"}, o.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	out, err := json.Marshal(&o)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != src {
		t.Errorf("got %s, want %s", out, src)
	}
}

func TestObjectUnmarshalRejectsNonObject(t *testing.T) {
	var o Object
	if err := json.Unmarshal([]byte(`["a"]`), &o); err == nil {
		t.Error("expected error for list")
	}
}

func TestFromMapSortsKeys(t *testing.T) {
	o := FromMap(map[string]any{"b": 1, "c": 2, "a": 3})
	if diff := cmp.Diff([]string{"a", "b", "c"}, o.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}
