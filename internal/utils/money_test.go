package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1,120.00 €", 1120},
		{"54.064 €", 54064},
		{"832,00 €", 832},
		{"1500", 1500},
		{"1.234.567", 1234567},
		{"1,234,567", 1234567},
		{"1.234,56", 1234.56},
		{"54.5", 54.5},
		{"12,5", 12.5},
		{" 89.000 €", 89000},
		{"-1,250.50 EUR", -1250.5},
		{"3 500 lei", 3500},
		{"1234.56 €", 1234.56},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if err != nil {
				t.Fatalf("ParseAmount(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAmountGarbage(t *testing.T) {
	for _, in := range []string{
		"", "   ", "€", "abc", "1.2.3,4,5x",
		"NaN", "nan €", "Inf", "-Inf", "+Infinity", "infinity",
		"1e3", "2.5E+4 €", "0x1p-2", "1" + strings.Repeat("0", 400),
	} {
		if _, err := ParseAmount(in); !errors.Is(err, ErrUnparseableAmount) {
			t.Errorf("ParseAmount(%q) err = %v, want ErrUnparseableAmount", in, err)
		}
		if got := AmountOrZero(in); got != 0 {
			t.Errorf("AmountOrZero(%q) = %v, want 0", in, got)
		}
	}
}

func TestFormatEURRoundTrip(t *testing.T) {
	for _, v := range []string{"0", "1", "832", "1500", "54064", "1234.5", "999999.99"} {
		d := decimal.RequireFromString(v)
		formatted := FormatEUR(d)
		got, err := ParseAmount(formatted)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", formatted, err)
		}
		if !decimal.NewFromFloat(got).Equal(d.Round(2)) {
			t.Errorf("round trip %s -> %q -> %v", v, formatted, got)
		}
	}
}
