package recipe

import "fmt"

// ValidateSummaries rejects search results missing the fields the gateway keys
// and displays by.
func ValidateSummaries(results []Summary) error {
	for i, r := range results {
		if r.ID <= 0 {
			return fmt.Errorf("%w: results[%d].id", ErrMalformedResponse, i)
		}
		if r.Title == "" {
			return fmt.Errorf("%w: results[%d].title", ErrMalformedResponse, i)
		}
	}
	return nil
}

// ValidateDetail rejects a detail record without id or title. want is the id
// that was requested; a provider answering for another recipe is malformed too.
func ValidateDetail(d Detail, want int64) error {
	if d.ID <= 0 {
		return fmt.Errorf("%w: id", ErrMalformedResponse)
	}
	if want > 0 && d.ID != want {
		return fmt.Errorf("%w: id %d does not match requested %d", ErrMalformedResponse, d.ID, want)
	}
	if d.Title == "" {
		return fmt.Errorf("%w: title", ErrMalformedResponse)
	}
	return nil
}
