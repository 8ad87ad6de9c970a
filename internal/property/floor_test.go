package property

import (
	"reflect"
	"testing"
)

func TestFloorRank(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"D", 0},
		{"DEMISOL", 0},
		{" demisol ", 0},
		{"P", 1},
		{"PARTER", 1},
		{"Parter", 1},
		{"0", 1},
		{"ETAJ 1", 2},
		{"E1", 2},
		{"1", 2},
		{"ETAJ 3", 4},
		{"E3", 4},
		{"E 3", 4},
		{"e 12", 13},
		{"3", 4},
		{"etaj  3", 4},
		{"ETAJ3", 4},
		{"E30", 31},
		{"ETAJ 45", 46},
		{"E45", 46},
		{"mansarda", UnknownFloorRank},
		{"", UnknownFloorRank},
		{"45", UnknownFloorRank},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := FloorRank(tt.label); got != tt.want {
				t.Fatalf("FloorRank(%q) = %d, want %d", tt.label, got, tt.want)
			}
		})
	}
}

func TestFloorRankBuildingOrder(t *testing.T) {
	order := []string{"DEMISOL", "PARTER", "ETAJ 1", "ETAJ 2", "ETAJ 3", "ETAJ 31", "penthouse"}
	for i := 1; i < len(order); i++ {
		if FloorRank(order[i-1]) >= FloorRank(order[i]) {
			t.Errorf("%s should sort before %s", order[i-1], order[i])
		}
	}
}

func TestUnitNumber(t *testing.T) {
	tests := map[string]int{"12": 12, "Ap. 7B": 7, "B-3/12": 3, "S": 0, "": 0}
	for in, want := range tests {
		if got := UnitNumber(in); got != want {
			t.Errorf("UnitNumber(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestSortByFloorStable(t *testing.T) {
	props := []Property{
		prop(t, "e2-10", "Etaj", "E2", "Nr. ap.", "10"),
		prop(t, "x1", "Etaj", "??", "Nr. ap.", "1"),
		prop(t, "p-2", "Etaj", "P", "Nr. ap.", "2"),
		prop(t, "e2-9", "etaj", "ETAJ 2", "nrAp", "9"),
		prop(t, "d-a", "Etaj", "D", "Nr. ap.", "boxa"),
		prop(t, "d-b", "Etaj", "DEMISOL", "Nr. ap.", "parcare"),
		prop(t, "p-1", "Etaj", "PARTER", "Nr. ap.", "1"),
	}
	SortByFloor(props)
	want := []string{"d-a", "d-b", "p-1", "p-2", "e2-9", "e2-10", "x1"}
	if got := ids(props); !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}
