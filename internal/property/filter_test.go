package property

import (
	"net/url"
	"reflect"
	"testing"
)

func sampleProps(t *testing.T) []Property {
	t.Helper()
	a := prop(t, "a", "Etaj", "P", "Nr. ap.", "2", "Tip", "GARSONIERA", "Corp", "A", "Client", "")
	b := prop(t, "b", "etaj", "E1", "nrAp", "5", "tipCom", "2 CAMERE", "corp", "B", "Client", "Ion Popescu")
	c := prop(t, "c", "ETAJ", "ETAJ 1", "Nr. ap.", "4", "Tip", "garsoniera", "Observatii", "rezervat Mihai")
	d := prop(t, "d", "Nr. ap.", "9", "Finisaje", "Lux cu mâner auriu")
	c.ClientID = uintPtr(7)
	c.ClientName = "Ștefan Ionescu"
	d.Status = strPtr(StatusSold)
	d.Commission = "1500.00 €"
	return []Property{a, b, c, d}
}

func TestApplyMatchAllReturnsSortedInput(t *testing.T) {
	props := sampleProps(t)
	for _, f := range []Filter{
		{},
		{Search: "all", Floor: "all", Type: "ALL", Status: "all", Corp: "all", Client: "all"},
		{Search: "  ", Floor: " "},
	} {
		got := Apply(props, f)
		if want := []string{"a", "c", "b", "d"}; !reflect.DeepEqual(ids(got), want) {
			t.Errorf("Apply(%+v) = %v, want %v", f, ids(got), want)
		}
	}
	if ids(props)[0] != "a" || ids(props)[3] != "d" {
		t.Error("Apply reordered its input")
	}
}

func TestApplySingleFilters(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{"floor exact", Filter{Floor: "e1"}, []string{"b"}},
		{"floor other spelling", Filter{Floor: "ETAJ 1"}, []string{"c"}},
		{"type case-insensitive", Filter{Type: "Garsoniera"}, []string{"a", "c"}},
		{"corp", Filter{Corp: "b"}, []string{"b"}},
		{"status derived", Filter{Status: "rezervat"}, []string{"c"}},
		{"status explicit and derived", Filter{Status: "vandut"}, []string{"b", "d"}},
		{"status available", Filter{Status: "disponibil"}, []string{"a"}},
		{"client id", Filter{Client: "7"}, []string{"c"}},
		{"client none", Filter{Client: "none"}, []string{"a", "b", "d"}},
		{"client garbage", Filter{Client: "x"}, []string{}},
		{"search attribute", Filter{Search: "popescu"}, []string{"b"}},
		{"search diacritics", Filter{Search: "MANER"}, []string{"d"}},
		{"search client name", Filter{Search: "stefan"}, []string{"c"}},
		{"search commission", Filter{Search: "1500"}, []string{"d"}},
		{"search status", Filter{Search: "vandut"}, []string{"b", "d"}},
		{"missing field never matches", Filter{Floor: "P", Corp: "A", Type: "x"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(sampleProps(t), tt.f))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// Every combination of filter values: a property is returned iff each
// active predicate alone would return it.
func TestApplyIsConjunction(t *testing.T) {
	props := sampleProps(t)
	floors := []string{"", "P", "E1", "ETAJ 1"}
	types := []string{"", "garsoniera", "2 camere"}
	statuses := []string{"all", "disponibil", "rezervat", "vandut"}
	corps := []string{"", "A", "B"}
	clients := []string{"", "none", "7"}
	searches := []string{"", "ion", "lux"}

	single := func(f Filter) map[string]bool {
		m := map[string]bool{}
		for _, id := range ids(Apply(props, f)) {
			m[id] = true
		}
		return m
	}

	for _, fl := range floors {
		for _, ty := range types {
			for _, st := range statuses {
				for _, co := range corps {
					for _, cl := range clients {
						for _, se := range searches {
							f := Filter{Search: se, Floor: fl, Type: ty, Status: st, Corp: co, Client: cl}
							parts := []map[string]bool{
								single(Filter{Floor: fl}), single(Filter{Type: ty}),
								single(Filter{Status: st}), single(Filter{Corp: co}),
								single(Filter{Client: cl}), single(Filter{Search: se}),
							}
							got := map[string]bool{}
							for _, id := range ids(Apply(props, f)) {
								got[id] = true
							}
							for _, p := range props {
								want := true
								for _, part := range parts {
									want = want && part[p.ID]
								}
								if got[p.ID] != want {
									t.Fatalf("%+v: property %s included=%v, want %v", f, p.ID, got[p.ID], want)
								}
							}
						}
					}
				}
			}
		}
	}
}

func TestFilterFromQuery(t *testing.T) {
	q, _ := url.ParseQuery("search=ion&floor=P&type=all&status=vandut&corp=A&client=none")
	want := Filter{Search: "ion", Floor: "P", Type: "all", Status: "vandut", Corp: "A", Client: "none"}
	if got := FilterFromQuery(q); got != want {
		t.Fatalf("got %+v", got)
	}
}

func TestFilterOptions(t *testing.T) {
	props := sampleProps(t)
	opts := FilterOptions(props)
	if want := []string{"P", "E1", "ETAJ 1"}; !reflect.DeepEqual(opts.Floors, want) {
		t.Errorf("floors = %v, want %v", opts.Floors, want)
	}
	if want := []string{"2 CAMERE", "GARSONIERA"}; !reflect.DeepEqual(opts.Types, want) {
		t.Errorf("types = %v, want %v", opts.Types, want)
	}
	if want := []string{"A", "B"}; !reflect.DeepEqual(opts.Corps, want) {
		t.Errorf("corps = %v, want %v", opts.Corps, want)
	}
}
