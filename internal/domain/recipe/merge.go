package recipe

// Translatable field allow-lists. Nothing outside these fields is ever rewritten.
//
//	Summary: Title, MissedIngredients[].Original
//	Detail:  Title, Summary, Instructions, ExtendedIngredients[].Original

// MissedOriginals flattens every missed ingredient display string across results,
// in result order then ingredient order. MergeSummaries consumes the same order.
func MissedOriginals(results []Summary) []string {
	var out []string
	for _, r := range results {
		for _, ing := range r.MissedIngredients {
			out = append(out, ing.Original)
		}
	}
	return out
}

// Titles lists result titles in order.
func Titles(results []Summary) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Title
	}
	return out
}

// MergeSummaries returns copies of results with translated titles and missed
// ingredient strings. titles is indexed by result; missed is the flattened list
// from MissedOriginals, redistributed by a running index. A missing or empty
// translation keeps the original text. The input is not modified.
func MergeSummaries(results []Summary, titles []string, missed []string) []Summary {
	out := make([]Summary, len(results))
	cursor := 0
	for i, r := range results {
		merged := r
		merged.Title = pick(titles, i, r.Title)

		if r.MissedIngredients != nil {
			merged.MissedIngredients = make([]Ingredient, len(r.MissedIngredients))
			for j, ing := range r.MissedIngredients {
				ing.Original = pick(missed, cursor, ing.Original)
				merged.MissedIngredients[j] = ing
				cursor++
			}
		}
		if r.UsedIngredients != nil {
			merged.UsedIngredients = append([]Ingredient(nil), r.UsedIngredients...)
		}
		out[i] = merged
	}
	return out
}

// DetailText is the translated text of one Detail. Empty fields keep the original.
type DetailText struct {
	Title        string
	Summary      string
	Instructions string
	Ingredients  []string
}

// MergeDetail returns a copy of d with the allow-listed text fields replaced.
func MergeDetail(d Detail, text DetailText) Detail {
	merged := d
	merged.Title = orOriginal(text.Title, d.Title)
	merged.Summary = orOriginal(text.Summary, d.Summary)
	merged.Instructions = orOriginal(text.Instructions, d.Instructions)

	if d.ExtendedIngredients != nil {
		merged.ExtendedIngredients = make([]Ingredient, len(d.ExtendedIngredients))
		for i, ing := range d.ExtendedIngredients {
			ing.Original = pick(text.Ingredients, i, ing.Original)
			merged.ExtendedIngredients[i] = ing
		}
	}
	return merged
}

// IngredientOriginals lists the display strings of a detail's ingredients.
func IngredientOriginals(d Detail) []string {
	out := make([]string, len(d.ExtendedIngredients))
	for i, ing := range d.ExtendedIngredients {
		out[i] = ing.Original
	}
	return out
}

func pick(values []string, i int, original string) string {
	if i < len(values) {
		return orOriginal(values[i], original)
	}
	return original
}

func orOriginal(v, original string) string {
	if v == "" {
		return original
	}
	return v
}
