package property

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// UnknownFloorRank sorts unrecognised floor labels after every real floor.
const UnknownFloorRank = math.MaxInt32

const maxDirectFloor = 30

var (
	floorRanks   = buildFloorRanks()
	floorPattern = regexp.MustCompile(`^(?:ETAJ|E)\s*(\d+)$`)
	digitRun     = regexp.MustCompile(`\d+`)
)

func buildFloorRanks() map[string]int {
	ranks := map[string]int{
		"DEMISOL": 0,
		"D":       0,
		"PARTER":  1,
		"P":       1,
	}
	for n := 0; n <= maxDirectFloor; n++ {
		s := strconv.Itoa(n)
		ranks["ETAJ "+s] = n + 1
		ranks["E"+s] = n + 1
		ranks[s] = n + 1
	}
	return ranks
}

// FloorRank maps a floor label to its position in the building:
// DEMISOL 0, PARTER 1, ETAJ n n+1.
func FloorRank(label string) int {
	l := strings.ToUpper(strings.Join(strings.Fields(label), " "))
	if r, ok := floorRanks[l]; ok {
		return r
	}
	if m := floorPattern.FindStringSubmatch(l); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n < UnknownFloorRank-1 {
			return n + 1
		}
	}
	return UnknownFloorRank
}

// UnitNumber is the first run of digits in a unit label, 0 when there is none.
func UnitNumber(label string) int {
	m := digitRun.FindString(label)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// SortByFloor orders properties by floor rank, then unit number. Ties keep
// their input order.
func SortByFloor(props []Property) {
	type ranked struct {
		floor, unit int
		p           Property
	}
	rs := make([]ranked, len(props))
	for i := range props {
		rs[i] = ranked{
			floor: FloorRank(ResolveText(&props[i].Attributes, FieldFloor)),
			unit:  UnitNumber(ResolveText(&props[i].Attributes, FieldUnit)),
			p:     props[i],
		}
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].floor != rs[j].floor {
			return rs[i].floor < rs[j].floor
		}
		return rs[i].unit < rs[j].unit
	})
	for i := range rs {
		props[i] = rs[i].p
	}
}
