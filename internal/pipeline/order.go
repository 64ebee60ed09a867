package pipeline

import (
	"sort"

	"github.com/masseyis/tdg/pkg/models"
)

var methodRank = map[string]int{
	"POST":   1,
	"GET":    2,
	"PUT":    3,
	"PATCH":  3,
	"DELETE": 4,
}

var categoryRank = map[models.Category]int{
	models.CategoryValid:    1,
	models.CategoryBoundary: 2,
	models.CategoryNegative: 3,
}

// Order sorts cases into execution order: creates before reads before
// updates before deletes, valid before boundary before negative within a
// method, and cases without path parameters before those that need one.
// The sort is stable, so generation order breaks remaining ties.
func Order(cases []models.TestCase) []models.TestCase {
	ordered := make([]models.TestCase, len(cases))
	copy(ordered, cases)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := rank(ordered[i]), rank(ordered[j])
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
	return ordered
}

func rank(c models.TestCase) [3]int {
	method, ok := methodRank[c.Method]
	if !ok {
		method = 5
	}
	category, ok := categoryRank[c.Category]
	if !ok {
		category = 4
	}
	params := 0
	if len(c.PathParams) > 0 {
		params = 1
	}
	return [3]int{method, category, params}
}
