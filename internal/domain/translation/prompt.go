package translation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const cacheNamespace = "translation"

// CacheKey identifies a translation of the exact text (no trimming or case
// folding) between two languages. The text is hashed to keep keys bounded.
func CacheKey(sourceLang, targetLang, text string) string {
	sum := sha256.Sum256([]byte(text))
	return cacheNamespace + ":" + NormalizeLang(sourceLang) + ":" + NormalizeLang(targetLang) + ":" + hex.EncodeToString(sum[:])
}

// NormalizeLang reduces "es_ES", "es-MX" or "ES" to the base code "es".
func NormalizeLang(lang string) string {
	lang = strings.TrimSpace(lang)
	if idx := strings.IndexAny(lang, "_-"); idx >= 0 {
		lang = lang[:idx]
	}
	return strings.ToLower(lang)
}

// SameLanguage reports whether translating between a and b is a no-op.
func SameLanguage(a, b string) bool {
	return NormalizeLang(a) == NormalizeLang(b)
}

var languageNames = map[string]string{
	"ca": "Catalan",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"it": "Italian",
	"nl": "Dutch",
	"pt": "Portuguese",
}

// LanguageName returns a human-readable name for prompts, or the code itself.
func LanguageName(lang string) string {
	if name, ok := languageNames[NormalizeLang(lang)]; ok {
		return name
	}
	return lang
}

// TextPrompt asks for a translation of one text with nothing else in the reply.
func TextPrompt(text, sourceLang, targetLang string) string {
	return fmt.Sprintf(
		"Translate the following text from %s to %s. Reply with the translation only, without quotes, notes or any additional commentary.\n\n%s",
		LanguageName(sourceLang), LanguageName(targetLang), text,
	)
}

// BatchPrompt asks for a translation of a separator-framed list, keeping the
// separator and the item count intact.
func BatchPrompt(b Batch, sourceLang, targetLang string) string {
	return fmt.Sprintf(
		"Translate the following list of %d items from %s to %s. The items are separated by %q. "+
			"Keep exactly the same separator %q between the translated items, keep the same order and the same number of items, "+
			"and do not add numbering, quotes, notes or any additional commentary.\n\n%s",
		len(b.Items), LanguageName(sourceLang), LanguageName(targetLang), b.Separator, b.Separator, b.Join(),
	)
}
