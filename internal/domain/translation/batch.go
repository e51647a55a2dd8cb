// Package translation holds the wire contract between the orchestrator and a
// free-text translation provider: cache keys, prompts and the separator framing
// used to send an ordered list through a single call.
package translation

import "strings"

// DefaultSeparator frames batch items. It must survive a round trip through the
// provider untouched, so it avoids characters that translate or get re-punctuated.
const DefaultSeparator = "|||"

// Batch is an ordered list of items framed by a separator.
type Batch struct {
	Separator string
	Items     []string
}

// NewBatch falls back to DefaultSeparator when sep is empty.
func NewBatch(items []string, sep string) Batch {
	if sep == "" {
		sep = DefaultSeparator
	}
	return Batch{Separator: sep, Items: items}
}

// Pending returns the batch of items that carry text, with the index each one
// came from. Blank items stay out of the payload: providers tend to drop empty
// segments, which would shift every later index.
func (b Batch) Pending() (Batch, []int) {
	items := make([]string, 0, len(b.Items))
	idx := make([]int, 0, len(b.Items))
	for i, item := range b.Items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		items = append(items, item)
		idx = append(idx, i)
	}
	return Batch{Separator: b.Separator, Items: items}, idx
}

// Scatter writes translated[j] back to index idx[j] of the originals.
func (b Batch) Scatter(idx []int, translated []string) []string {
	out := b.Originals()
	for j, i := range idx {
		if j < len(translated) && i >= 0 && i < len(out) {
			out[i] = translated[j]
		}
	}
	return out
}

// Collides reports whether any item contains the separator verbatim. Joining such
// a batch would shift every later index after the split.
func (b Batch) Collides() bool {
	for _, item := range b.Items {
		if strings.Contains(item, b.Separator) {
			return true
		}
	}
	return false
}

// Join frames the items into one provider payload.
func (b Batch) Join() string {
	return strings.Join(b.Items, b.Separator)
}

// Alignment describes how a provider response lined up with the batch.
type Alignment struct {
	Expected int
	Got      int
	// Fallbacks counts indices that kept their original text.
	Fallbacks int
}

// Aligned is true when the response had exactly one piece per item.
func (a Alignment) Aligned() bool {
	return a.Expected == a.Got
}

// Split maps a provider response back onto the batch by index. Piece i replaces
// item i when present and non-empty; every other index keeps its original text.
// The result always has len(b.Items) elements.
func (b Batch) Split(response string) ([]string, Alignment) {
	out := make([]string, len(b.Items))
	copy(out, b.Items)

	align := Alignment{Expected: len(b.Items)}
	if len(b.Items) == 0 {
		return out, align
	}

	pieces := strings.Split(response, b.Separator)
	align.Got = len(pieces)
	for i := range out {
		if i >= len(pieces) {
			align.Fallbacks++
			continue
		}
		piece := strings.TrimSpace(pieces[i])
		if piece == "" {
			align.Fallbacks++
			continue
		}
		out[i] = piece
	}
	return out, align
}

// Originals is the degraded result used when the whole batch failed.
func (b Batch) Originals() []string {
	out := make([]string, len(b.Items))
	copy(out, b.Items)
	return out
}
