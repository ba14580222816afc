package procedures

import (
	"sort"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/shopspring/decimal"

	"shadow-claim/internal/shaving"
)

// Procedure is a reference cost for a common surgical package.
type Procedure struct {
	Name             string          `json:"name"`
	BaseCost         decimal.Decimal `json:"base_cost"`
	StandardRoomRate decimal.Decimal `json:"standard_room_rate"`
}

func proc(name string, cost, room int64) Procedure {
	return Procedure{Name: name, BaseCost: decimal.NewFromInt(cost), StandardRoomRate: decimal.NewFromInt(room)}
}

// Catalog is the built-in procedure list, keyed by ROHINI-style names.
var Catalog = []Procedure{
	proc("Cholecystectomy", 50000, 2000),
	proc("Appendectomy", 30000, 1500),
	proc("Cataract Surgery", 25000, 1000),
	proc("Hernia Repair", 40000, 1800),
	proc("Knee Replacement", 150000, 3000),
	proc("Gallbladder Stone Surgery", 45000, 1900),
	proc("Thyroidectomy", 35000, 1600),
	proc("Cesarean Section", 60000, 2500),
	proc("Colonoscopy", 20000, 1200),
	proc("Angioplasty", 200000, 4000),
}

// Lookup finds a catalog procedure by slug-equal name.
func Lookup(name string) (Procedure, bool) {
	slug := shaving.Slug(name)
	for _, p := range Catalog {
		if shaving.Slug(p.Name) == slug {
			return p, true
		}
	}
	return Procedure{}, false
}

type Match struct {
	Procedure Procedure
	Score     float64
}

// Rank scores every catalog entry against query and returns the best n.
// Equal scores keep catalog order.
func Rank(query string, n int) []Match {
	q := shaving.Slug(query)
	matches := make([]Match, 0, len(Catalog))
	for _, p := range Catalog {
		matches = append(matches, Match{Procedure: p, Score: similarity(q, shaving.Slug(p.Name))})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if n >= 0 && n < len(matches) {
		matches = matches[:n]
	}
	return matches
}

var dice = &metrics.SorensenDice{NgramSize: 2}

// similarity is the Sorensen-Dice coefficient over character bigrams.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return strutil.Similarity(a, b, dice)
}
