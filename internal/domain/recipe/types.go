// Package recipe defines the records exchanged with the recipe provider and the
// rules for keying, validating and re-assembling them after translation.
package recipe

// Ingredient is one ingredient line as the provider reports it. Original is the
// human-readable display string and the only translatable field.
type Ingredient struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Original string  `json:"original"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Image    string  `json:"image,omitempty"`
	Aisle    string  `json:"aisle,omitempty"`
}

// Summary is one search hit.
type Summary struct {
	ID                    int64        `json:"id"`
	Title                 string       `json:"title"`
	Image                 string       `json:"image,omitempty"`
	ImageType             string       `json:"imageType,omitempty"`
	UsedIngredientCount   int          `json:"usedIngredientCount"`
	MissedIngredientCount int          `json:"missedIngredientCount"`
	MissedIngredients     []Ingredient `json:"missedIngredients"`
	UsedIngredients       []Ingredient `json:"usedIngredients"`
}

// SearchResponse is the provider's search envelope. Only Results is cached.
type SearchResponse struct {
	Results      []Summary `json:"results"`
	Offset       int       `json:"offset"`
	Number       int       `json:"number"`
	TotalResults int       `json:"totalResults"`
}

// Detail is the full record of one recipe.
type Detail struct {
	ID                  int64        `json:"id"`
	Title               string       `json:"title"`
	Summary             string       `json:"summary"`
	Instructions        string       `json:"instructions"`
	Image               string       `json:"image,omitempty"`
	ReadyInMinutes      int          `json:"readyInMinutes"`
	Servings            int          `json:"servings"`
	SourceURL           string       `json:"sourceUrl,omitempty"`
	ExtendedIngredients []Ingredient `json:"extendedIngredients"`
}
