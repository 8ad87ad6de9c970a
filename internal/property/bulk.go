package property

import (
	"context"
	"errors"
	"strings"
)

// Selection is an ordered set of property ids picked for a bulk operation.
type Selection struct {
	ids  []string
	seen map[string]struct{}
}

func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add appends id unless it is blank or already selected.
func (s *Selection) Add(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

func (s *Selection) Remove(id string) {
	if _, ok := s.seen[id]; !ok {
		return
	}
	delete(s.seen, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
}

func (s *Selection) IDs() []string { return append([]string(nil), s.ids...) }
func (s *Selection) Len() int      { return len(s.ids) }

func (s *Selection) Clear() {
	s.ids = nil
	s.seen = nil
}

var ErrInvalidMutation = errors.New("exactly one of plan_url or commission must be set")

// Mutation is the single change a bulk operation applies to every selected
// property.
type Mutation struct {
	PlanURL    *string
	Commission *string
	// Target picks the price an "auto" commission applies to.
	Target string
}

func (m Mutation) Validate() error {
	if (m.PlanURL == nil) == (m.Commission == nil) {
		return ErrInvalidMutation
	}
	return nil
}

// IsAuto reports whether the commission is computed from the complex policy.
func (m Mutation) IsAuto() bool {
	return m.Commission != nil && strings.EqualFold(strings.TrimSpace(*m.Commission), AutoCommission)
}

type ItemResult struct {
	ID  string `json:"id"`
	Err error  `json:"-"`
	// Error is Err as text for the response body.
	Error string `json:"error,omitempty"`
}

type Result struct {
	Succeeded int          `json:"succeeded"`
	Failed    []ItemResult `json:"failed"`
	Items     []ItemResult `json:"-"`
}

// ApplyEach runs fn for every selected id in order. A failing id is
// recorded and the loop goes on. The selection is cleared afterwards.
func ApplyEach(ctx context.Context, sel *Selection, fn func(ctx context.Context, id string) error) Result {
	res := Result{Failed: []ItemResult{}}
	for _, id := range sel.ids {
		item := ItemResult{ID: id}
		if err := fn(ctx, id); err != nil {
			item.Err = err
			item.Error = err.Error()
			res.Failed = append(res.Failed, item)
		} else {
			res.Succeeded++
		}
		res.Items = append(res.Items, item)
	}
	sel.Clear()
	return res
}
