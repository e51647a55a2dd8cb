package recipe

import (
	"strconv"
	"strings"
)

const (
	searchNamespace  = "search"
	detailsNamespace = "details"
)

// SearchKey identifies a provider search. ingredients must already be normalized
// (see NormalizeIngredients); filters are part of the key because they change the
// result set.
func SearchKey(ingredients []string, f Filters) string {
	return searchNamespace + ":" + strings.Join(ingredients, ",") + ":" + f.Query().Encode()
}

// DetailsKey identifies a provider detail lookup.
func DetailsKey(id int64) string {
	return detailsNamespace + ":" + strconv.FormatInt(id, 10)
}
