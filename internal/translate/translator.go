package translate

import (
	"context"
	"errors"
	"strings"

	"github.com/abadojack/whatlanggo"
)

var (
	ErrEmptyText       = errors.New("translate: empty text")
	ErrEmptyTargetLang = errors.New("translate: empty target language")

	// ErrTranslateFailed covers provider errors and timeouts. Callers are
	// expected to fall back to the original text, never to fail the send.
	ErrTranslateFailed = errors.New("translate: provider request failed")
)

// Translator converts text between languages. Implementations must honor
// ctx cancellation; a hung provider must not stall the caller.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// NormalizeLang lowercases a language tag and strips any BCP 47 region,
// e.g. "fr-CA" -> "fr", "EN" -> "en".
func NormalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if idx := strings.IndexAny(lang, "-_"); idx >= 0 {
		lang = lang[:idx]
	}
	return lang
}

// DetectLang guesses the ISO 639-1 code of text, for senders whose profile
// carries no language preference. Falls back to "en" when detection is
// unreliable, matching the provider default.
func DetectLang(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return "en"
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return "en"
	}
	return code
}

// Nop returns the input unchanged. Used when no provider is configured.
type Nop struct{}

func (Nop) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}
