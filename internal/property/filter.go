package property

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/vanzari-imobiliare/api/internal/utils"
)

// MatchAll disables a filter field, as does the empty string.
const MatchAll = "all"

// NoClient as the Client filter selects properties without a client.
const NoClient = "none"

type Filter struct {
	Search string `json:"search"`
	Floor  string `json:"floor"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Corp   string `json:"corp"`
	Client string `json:"client"`
}

// FilterFromQuery reads search, floor, type, status, corp and client.
func FilterFromQuery(q url.Values) Filter {
	return Filter{
		Search: q.Get("search"),
		Floor:  q.Get("floor"),
		Type:   q.Get("type"),
		Status: q.Get("status"),
		Corp:   q.Get("corp"),
		Client: q.Get("client"),
	}
}

func active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, MatchAll)
}

func sameLabel(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Matches reports whether p satisfies every active predicate of f.
func (f Filter) Matches(p *Property) bool {
	if active(f.Floor) && !sameLabel(ResolveText(&p.Attributes, FieldFloor), f.Floor) {
		return false
	}
	if active(f.Type) && !sameLabel(ResolveText(&p.Attributes, FieldType), f.Type) {
		return false
	}
	if active(f.Corp) && !sameLabel(ResolveText(&p.Attributes, FieldCorp), f.Corp) {
		return false
	}
	if active(f.Status) && !sameLabel(EffectiveStatus(p), f.Status) {
		return false
	}
	if active(f.Client) && !matchesClient(p, strings.TrimSpace(f.Client)) {
		return false
	}
	if active(f.Search) && !matchesSearch(p, utils.Fold(strings.TrimSpace(f.Search))) {
		return false
	}
	return true
}

func matchesClient(p *Property, want string) bool {
	if strings.EqualFold(want, NoClient) {
		return p.ClientID == nil
	}
	id, err := strconv.ParseUint(want, 10, 64)
	return err == nil && p.ClientID != nil && uint64(*p.ClientID) == id
}

func matchesSearch(p *Property, needle string) bool {
	hay := []string{EffectiveStatus(p), CommissionText(p), p.ClientName}
	if p.PlanURL != nil {
		hay = append(hay, *p.PlanURL)
	}
	for _, k := range p.Attributes.keys {
		hay = append(hay, p.Attributes.values[k].String())
	}
	for _, h := range hay {
		if h != "" && strings.Contains(utils.Fold(h), needle) {
			return true
		}
	}
	return false
}

// Apply returns the properties matching f in floor order. The input slice
// is not modified.
func Apply(props []Property, f Filter) []Property {
	out := make([]Property, 0, len(props))
	for i := range props {
		if f.Matches(&props[i]) {
			out = append(out, props[i])
		}
	}
	SortByFloor(out)
	return out
}

// Options are the distinct values offered by the filter drop-downs.
type Options struct {
	Floors []string `json:"floors"`
	Types  []string `json:"types"`
	Corps  []string `json:"corps"`
}

func FilterOptions(props []Property) Options {
	floors := distinct(props, FieldFloor)
	sort.SliceStable(floors, func(i, j int) bool {
		ri, rj := FloorRank(floors[i]), FloorRank(floors[j])
		if ri != rj {
			return ri < rj
		}
		return floors[i] < floors[j]
	})
	types := distinct(props, FieldType)
	sort.Strings(types)
	corps := distinct(props, FieldCorp)
	sort.Strings(corps)
	return Options{Floors: floors, Types: types, Corps: corps}
}

// distinct collects trimmed values of key, merging case variants into the
// first spelling seen.
func distinct(props []Property, key string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for i := range props {
		v := strings.TrimSpace(ResolveText(&props[i].Attributes, key))
		if v == "" || seen[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		out = append(out, v)
	}
	return out
}
