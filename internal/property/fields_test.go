package property

import "testing"

func TestResolvePriorityAndPresence(t *testing.T) {
	var a Attributes
	a.Set("Etaj", Text("  "))
	a.Set("ETAJ", Text("E2"))
	a.Set("etaj", Null())
	a.Set("Suprafata", Number(0))
	a.Set("Pret Credit", Text(""))

	if got := ResolveText(&a, FieldFloor); got != "E2" {
		t.Errorf("floor = %q, want E2", got)
	}
	if v := Resolve(&a, FieldArea); v.Kind() != KindNumber || v.String() != "0" {
		t.Errorf("area = %v, want present 0", v)
	}
	if got := ResolveText(&a, FieldPriceCredit); got != "" {
		t.Errorf("credit price = %q, want empty", got)
	}
	if got := ResolveText(&a, "unknown"); got != "" {
		t.Errorf("unknown key = %q", got)
	}
}

func TestResolveOrderFollowsTable(t *testing.T) {
	var a Attributes
	a.Set("Client", Text("second"))
	a.Set("client", Text("first"))
	if got := ResolveText(&a, FieldBuyer); got != "first" {
		t.Fatalf("buyer = %q, want the higher priority spelling", got)
	}
}

func TestCanonicalFor(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Etaj", FieldFloor, true},
		{"NR. AP.", FieldUnit, true},
		{"nr ap", FieldUnit, true},
		{"Suprafață utilă", FieldArea, true},
		{"pret_credit", FieldPriceCredit, true},
		{"Preț Cash", FieldPriceCash, true},
		{"Observații", FieldNotes, true},
		{"Culoare", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := CanonicalFor(tt.header)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("CanonicalFor(%q) = %q, %v", tt.header, got, ok)
			}
		})
	}
}

func TestEveryCanonicalKeyHasAliases(t *testing.T) {
	for _, k := range CanonicalKeys {
		as := Aliases(k)
		if len(as) == 0 || as[0] != k {
			t.Errorf("%s: aliases must start with the canonical key, got %v", k, as)
		}
	}
}
