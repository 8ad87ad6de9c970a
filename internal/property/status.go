package property

import (
	"errors"
	"strings"
)

const (
	StatusAvailable = "disponibil"
	StatusReserved  = "rezervat"
	StatusSold      = "vandut"
)

var ErrInvalidStatus = errors.New("status must be one of disponibil, rezervat, vandut")

// ParseStatus accepts only the three status values, ignoring case and
// surrounding whitespace.
func ParseStatus(s string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case StatusAvailable, StatusReserved, StatusSold:
		return v, nil
	default:
		return "", ErrInvalidStatus
	}
}

// DeriveStatus infers the status of a record without an explicit one from
// its legacy buyer and observation texts.
func DeriveStatus(buyer, observations string) string {
	if containsFold(buyer, StatusReserved) || containsFold(observations, StatusReserved) {
		return StatusReserved
	}
	if strings.TrimSpace(buyer) != "" {
		return StatusSold
	}
	return StatusAvailable
}

// EffectiveStatus is the explicit status when it is valid, then a valid
// imported status attribute, and otherwise the derived one.
func EffectiveStatus(p *Property) string {
	if p.Status != nil {
		if s, err := ParseStatus(*p.Status); err == nil {
			return s
		}
	}
	if s, err := ParseStatus(ResolveText(&p.Attributes, FieldStatus)); err == nil {
		return s
	}
	return DeriveStatus(ResolveText(&p.Attributes, FieldBuyer), ResolveText(&p.Attributes, FieldNotes))
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}
