package property

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vanzari-imobiliare/api/internal/complex"
	"github.com/vanzari-imobiliare/api/internal/utils"
)

// AutoCommission as a commission value asks for the complex policy to be
// applied.
const AutoCommission = "auto"

var (
	ErrNoCommissionPolicy = errors.New("complex has no commission policy")
	ErrNoPrice            = errors.New("property has no price for the commission target")
	ErrInvalidTarget      = errors.New("target must be credit or cash")
)

// CommissionAmount computes the policy commission of one property. target
// overrides the policy target when not empty.
func CommissionAmount(policy complex.CommissionPolicy, attrs *Attributes, target string) (decimal.Decimal, error) {
	switch policy.Type {
	case complex.PolicyFixed:
		return decimal.NewFromFloat(policy.Value), nil
	case complex.PolicyPercentage:
	default:
		return decimal.Zero, ErrNoCommissionPolicy
	}

	if target == "" {
		target = policy.EffectiveTarget()
	}
	var field string
	switch target {
	case complex.TargetCredit:
		field = FieldPriceCredit
	case complex.TargetCash:
		field = FieldPriceCash
	default:
		return decimal.Zero, ErrInvalidTarget
	}

	price, err := utils.ParseAmount(ResolveText(attrs, field))
	if err != nil {
		return decimal.Zero, ErrNoPrice
	}
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromFloat(policy.Value)).
		Div(decimal.NewFromInt(100)), nil
}

// FormatCommission turns a literal amount typed by a user into the stored
// form. The empty string clears the commission.
func FormatCommission(literal string) (string, error) {
	if strings.TrimSpace(literal) == "" {
		return "", nil
	}
	v, err := utils.ParseAmount(literal)
	if err != nil {
		return "", err
	}
	return utils.FormatEUR(decimal.NewFromFloat(v)), nil
}

// CommissionText is the commission a property shows: the stored column,
// or for untouched imported rows their commission attribute.
func CommissionText(p *Property) string {
	if strings.TrimSpace(p.Commission) != "" {
		return p.Commission
	}
	return ResolveText(&p.Attributes, FieldCommission)
}

// CommissionValue is the numeric value of CommissionText, 0 when it cannot
// be read.
func CommissionValue(p *Property) float64 {
	return utils.AmountOrZero(CommissionText(p))
}
