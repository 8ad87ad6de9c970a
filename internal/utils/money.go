package utils

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnparseableAmount = errors.New("unparseable amount")

var (
	commaThousands = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+$`)
	dotThousands   = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

	// plainNumber is what remains after separators are resolved. It keeps
	// NaN, Inf, exponents and hex floats away from ParseFloat.
	plainNumber = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)$`)

	amountNoise = strings.NewReplacer(
		"\u00a0", "", "\u202f", "", "\u2009", "",
		"€", "", "$", "", "EUR", "", "eur", "", "Eur", "",
		"RON", "", "ron", "", "LEI", "", "lei", "", "Lei", "",
	)
)

// ParseAmount converts money or area text such as "1,120.00 €", "54.064 €"
// or "832,00 €" into a float. When both separators are present the
// right-most one is the decimal separator. A lone separator is a thousands
// separator only when it forms complete 3-digit groups.
func ParseAmount(s string) (float64, error) {
	clean := amountNoise.Replace(s)
	clean = strings.Join(strings.Fields(clean), "")
	if clean == "" {
		return 0, ErrUnparseableAmount
	}

	dot := strings.LastIndex(clean, ".")
	comma := strings.LastIndex(clean, ",")

	switch {
	case dot >= 0 && comma >= 0:
		if dot > comma {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.ReplaceAll(clean, ",", ".")
		}
	case comma >= 0:
		if commaThousands.MatchString(clean) {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.ReplaceAll(clean, ",", ".")
		}
	case dot >= 0:
		if dotThousands.MatchString(clean) {
			clean = strings.ReplaceAll(clean, ".", "")
		}
	}

	if !plainNumber.MatchString(clean) {
		return 0, ErrUnparseableAmount
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrUnparseableAmount
	}
	return v, nil
}

// AmountOrZero is ParseAmount with unparseable input mapped to 0.
func AmountOrZero(s string) float64 {
	v, err := ParseAmount(s)
	if err != nil {
		return 0
	}
	return v
}

// FormatEUR renders an amount the way new commission values are stored:
// two decimals, dot separator, no grouping, trailing euro sign.
func FormatEUR(d decimal.Decimal) string {
	return d.StringFixed(2) + " €"
}
