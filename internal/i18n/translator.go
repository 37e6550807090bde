// Package i18n turns backend errors into localized, user-actionable sentences.
package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/modkeeper/modkeeper/internal/domain"
)

var supported = []language.Tag{language.English, language.French}

var matcher = language.NewMatcher(supported)

// Translator renders SError values in one locale. It is safe for concurrent
// use and has no side effects.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New builds a translator for locale (BCP 47 or POSIX form such as
// "fr_FR.UTF-8"). An empty locale falls back to LC_ALL, then LANG.
func New(locale string) *Translator {
	if locale == "" {
		locale = envLocale()
	}
	tag := Match(locale)

	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for lang, msgs := range messages {
		for key, msg := range msgs {
			// Keys and tags are static; SetString only fails on malformed input.
			_ = b.SetString(lang, key, msg)
		}
	}

	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b)),
	}
}

// Match picks the closest supported language for locale.
func Match(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return language.English
	}

	t, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

func envLocale() string {
	for _, k := range []string{"LC_ALL", "LANG"} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// Language returns the locale in use.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// Translate returns the sentence for e. Bare variants dispatch on their exact
// value and structured variants on their key; anything outside the current
// taxonomy gets a generic message.
func (t *Translator) Translate(e domain.SError) string {
	if !e.Structured {
		switch e.Kind {
		case domain.KindGameOrServerRunning,
			domain.KindProcessRunning,
			domain.KindUnableToDetermineModID,
			domain.KindLink,
			domain.KindContextUnprovided,
			domain.KindNoActiveLibrary,
			domain.KindUnexpected:
			return t.printer.Sprintf(kindKey(e.Kind))
		default:
			return t.Unexpected()
		}
	}

	switch e.Kind {
	case domain.KindFileCollision:
		return t.printer.Sprintf(kindKey(e.Kind), strings.Join(e.Paths, ", "))
	case domain.KindUnsupportedSPTVersion,
		domain.KindParseError,
		domain.KindIOError,
		domain.KindModNotFound,
		domain.KindFileOrDirectoryNotFound,
		domain.KindUnhandledCompression,
		domain.KindAsyncRuntimeError,
		domain.KindUpdateStatusError:
		return t.printer.Sprintf(kindKey(e.Kind), e.Detail)
	default:
		return t.printer.Sprintf(keyUnknown)
	}
}

// Unexpected is the fallback for failures that never came from the backend.
func (t *Translator) Unexpected() string {
	return t.printer.Sprintf(keyUnexpected)
}
