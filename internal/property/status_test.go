package property

import "testing"

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		buyer, notes string
		want         string
	}{
		{"", "", StatusAvailable},
		{"   ", "", StatusAvailable},
		{"REZERVAT", "", StatusReserved},
		{"Ion Popescu", "", StatusSold},
		{"Ion Popescu", "rezervat pana luni", StatusReserved},
		{"", "Rezervat telefonic", StatusReserved},
	}
	for _, tt := range tests {
		if got := DeriveStatus(tt.buyer, tt.notes); got != tt.want {
			t.Errorf("DeriveStatus(%q, %q) = %q, want %q", tt.buyer, tt.notes, got, tt.want)
		}
	}
}

func TestEffectiveStatusExplicitWins(t *testing.T) {
	p := prop(t, "a", "Client", "Ion Popescu")
	if got := EffectiveStatus(&p); got != StatusSold {
		t.Fatalf("derived = %q", got)
	}

	p.Status = strPtr("disponibil")
	if got := EffectiveStatus(&p); got != StatusAvailable {
		t.Fatalf("explicit = %q, want disponibil", got)
	}

	q := prop(t, "b", "Client", "REZERVAT", "Status", "Vandut")
	if got := EffectiveStatus(&q); got != StatusSold {
		t.Fatalf("imported status = %q, want vandut", got)
	}

	q.Status = strPtr("bogus")
	if got := EffectiveStatus(&q); got != StatusSold {
		t.Fatalf("invalid explicit status should fall through, got %q", got)
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus(" Rezervat "); err != nil || s != StatusReserved {
		t.Errorf("ParseStatus = %q, %v", s, err)
	}
	for _, bad := range []string{"", "available", "sold", "vândut"} {
		if _, err := ParseStatus(bad); err == nil {
			t.Errorf("ParseStatus(%q) accepted", bad)
		}
	}
}
