package property

import "testing"

// prop builds a property from alternating key/value text attributes.
func prop(t *testing.T, id string, kv ...string) Property {
	t.Helper()
	if len(kv)%2 != 0 {
		t.Fatalf("odd key/value list for %s", id)
	}
	p := Property{ID: id, ComplexID: 1}
	for i := 0; i < len(kv); i += 2 {
		p.Attributes.Set(kv[i], Text(kv[i+1]))
	}
	return p
}

func ids(props []Property) []string {
	out := make([]string, len(props))
	for i := range props {
		out[i] = props[i].ID
	}
	return out
}

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }
