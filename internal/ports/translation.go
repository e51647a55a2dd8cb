package ports

import "context"

// TextGenerator is a free-text, instruction-following model call. The reply has
// no structural guarantee beyond best-effort compliance with the prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Translator is the orchestration surface consumed by the recipe gateway and the
// outer layers. Translate reports ok=false when no translation is available;
// TranslateBatch always returns len(items) strings in input order.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, bool)
	TranslateBatch(ctx context.Context, items []string, sourceLang, targetLang string) []string
}
