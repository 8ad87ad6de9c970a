package property

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestAttributesKeepDocumentOrder(t *testing.T) {
	in := `{"Pret Credit":"95.000 €","Etaj":"P","Nr. ap.":3,"Vandut":false,"Extra":{"a":[1,2]},"Obs":null}`

	var a Attributes
	if err := json.Unmarshal([]byte(in), &a); err != nil {
		t.Fatal(err)
	}
	want := []string{"Pret Credit", "Etaj", "Nr. ap.", "Vandut", "Extra", "Obs"}
	if got := a.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}

	out, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != in {
		t.Fatalf("marshal = %s", out)
	}

	if v, _ := a.Get("Nr. ap."); v.Kind() != KindNumber || v.String() != "3" {
		t.Errorf("Nr. ap. = %v (%v)", v, v.Kind())
	}
	if v, _ := a.Get("Extra"); v.Kind() != KindRaw || v.String() != `{"a":[1,2]}` {
		t.Errorf("Extra = %s", v)
	}
}

func TestValuePresent(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null(), false},
		{"empty", Text(""), false},
		{"blank", Text("  "), false},
		{"text", Text("P"), true},
		{"zero", Number(0), true},
		{"false", Bool(false), true},
		{"raw", Raw(json.RawMessage(`[]`)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Present(); got != tt.want {
				t.Fatalf("Present() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttributesMergeAndDelete(t *testing.T) {
	var a Attributes
	a.Set("Etaj", Text("P"))
	a.Set("Client", Text("Ion"))
	a.Set("Pret", Number(1000))

	var patch Attributes
	patch.Set("Client", Null())
	patch.Set("Pret", Number(1200))
	patch.Set("Agent", Text("Maria"))
	a.Merge(patch)

	if got, want := a.Keys(), []string{"Etaj", "Pret", "Agent"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	if v, _ := a.Get("Pret"); v.String() != "1200" {
		t.Errorf("Pret = %s", v)
	}

	clone := a.Clone()
	clone.Set("New", Text("x"))
	if a.Len() != 3 {
		t.Errorf("clone shares state with original")
	}
}

func TestAttributesScan(t *testing.T) {
	var a Attributes
	if err := a.Scan([]byte(`{"b":1,"a":"x"}`)); err != nil {
		t.Fatal(err)
	}
	if got := a.Keys(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("keys = %v", got)
	}
	v, err := a.Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != `{"b":1,"a":"x"}` {
		t.Fatalf("Value() = %v", v)
	}
	if err := a.Scan(42); err == nil {
		t.Fatal("expected error scanning an int")
	}
	if err := json.Unmarshal([]byte(`[1]`), &a); err == nil {
		t.Fatal("expected error for a JSON array")
	}
}
