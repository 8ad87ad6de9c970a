package property

import (
	"errors"
	"testing"

	"github.com/vanzari-imobiliare/api/internal/complex"
	"github.com/vanzari-imobiliare/api/internal/utils"
)

func TestCommissionAmount(t *testing.T) {
	p := prop(t, "a", "Pret Credit", "1,120.00 €", "Pret Cash", "54.064 €")
	tests := []struct {
		name   string
		policy complex.CommissionPolicy
		target string
		want   string
		err    error
	}{
		{"fixed ignores price", complex.CommissionPolicy{Type: "fixed", Value: 1500}, "", "1500.00 €", nil},
		{"percentage of credit by default", complex.CommissionPolicy{Type: "percentage", Value: 10}, "", "112.00 €", nil},
		{"percentage policy cash target", complex.CommissionPolicy{Type: "percentage", Value: 2, Target: "cash"}, "", "1081.28 €", nil},
		{"caller target wins", complex.CommissionPolicy{Type: "percentage", Value: 2, Target: "cash"}, "credit", "22.40 €", nil},
		{"no policy", complex.CommissionPolicy{}, "", "", ErrNoCommissionPolicy},
		{"bad target", complex.CommissionPolicy{Type: "percentage", Value: 2}, "rent", "", ErrInvalidTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CommissionAmount(tt.policy, &p.Attributes, tt.target)
			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if err == nil && utils.FormatEUR(got) != tt.want {
				t.Fatalf("amount = %s, want %s", utils.FormatEUR(got), tt.want)
			}
		})
	}

	pct := complex.CommissionPolicy{Type: "percentage", Value: 2}
	for _, price := range []string{"", "Infinity", "NaN €", "1e9"} {
		p := prop(t, "b", "Etaj", "P", "Pret Credit", price)
		if _, err := CommissionAmount(pct, &p.Attributes, ""); !errors.Is(err, ErrNoPrice) {
			t.Fatalf("price %q err = %v, want ErrNoPrice", price, err)
		}
	}
}

func TestFormatCommission(t *testing.T) {
	tests := map[string]string{
		"1,120.00 €": "1120.00 €",
		"832,00 €":   "832.00 €",
		"1500":       "1500.00 €",
		"":           "",
	}
	for in, want := range tests {
		got, err := FormatCommission(in)
		if err != nil || got != want {
			t.Errorf("FormatCommission(%q) = %q, %v; want %q", in, got, err, want)
		}
		if again, _ := FormatCommission(got); again != got {
			t.Errorf("re-formatting %q gave %q", got, again)
		}
	}
	for _, in := range []string{"abc", "NaN", "-Inf", "1e400"} {
		if _, err := FormatCommission(in); !errors.Is(err, utils.ErrUnparseableAmount) {
			t.Errorf("FormatCommission(%q) err = %v", in, err)
		}
	}
}

func TestCommissionValueFallsBackToImportedColumn(t *testing.T) {
	imported := prop(t, "a", "Comision", "1.500,00 €", "Status", "Vandut")
	edited := prop(t, "b", "Comision", "1.500,00 €", "Status", "Vandut")
	edited.Commission = "200.00 €"
	garbage := prop(t, "c", "Comision", "NaN", "Status", "Vandut")

	tests := []struct {
		name string
		p    Property
		want float64
	}{
		{"imported only", imported, 1500},
		{"stored column wins", edited, 200},
		{"unreadable import", garbage, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommissionValue(&tt.p); got != tt.want {
				t.Fatalf("CommissionValue = %v, want %v", got, tt.want)
			}
			parsed, err := utils.ParseAmount(CommissionText(&tt.p))
			if err != nil {
				parsed = 0
			}
			if parsed != tt.want {
				t.Fatalf("ParseAmount(%q) = %v, disagrees with CommissionValue", CommissionText(&tt.p), parsed)
			}
		})
	}

	got := Count([]Property{imported, edited, garbage})
	want := complex.Counters{Total: 3, Sold: 3, SoldCommission: 1700}
	if got != want {
		t.Fatalf("Count = %+v, want %+v", got, want)
	}
}
