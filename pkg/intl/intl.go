package intl

import (
	"context"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/amas-erp/supplier-portal/pkg/constants"
)

type SupportedLanguage struct {
	Code        string
	VerboseName string
	Tag         language.Tag
	RTL         bool
}

// Sorani Kurdish has no predefined tag in x/text.
var CentralKurdish = language.MustParse("ckb")

var (
	allSupportedLanguages = []SupportedLanguage{
		{
			Code:        "en",
			VerboseName: "English",
			Tag:         language.English,
		},
		{
			Code:        "ckb",
			VerboseName: "کوردی",
			Tag:         CentralKurdish,
			RTL:         true,
		},
	}

	SupportedLanguages = allSupportedLanguages
)

// GetSupportedLanguages filters the known languages by whitelist.
// An empty whitelist returns all of them.
func GetSupportedLanguages(whitelist []string) []SupportedLanguage {
	if len(whitelist) == 0 {
		return allSupportedLanguages
	}
	allowed := make(map[string]bool, len(whitelist))
	for _, code := range whitelist {
		allowed[code] = true
	}
	filtered := make([]SupportedLanguage, 0, len(whitelist))
	for _, lang := range allSupportedLanguages {
		if allowed[lang.Code] {
			filtered = append(filtered, lang)
		}
	}
	return filtered
}

// IsRTL reports whether tag is written right to left.
func IsRTL(tag language.Tag) bool {
	base, _ := tag.Base()
	for _, lang := range allSupportedLanguages {
		b, _ := lang.Tag.Base()
		if b == base {
			return lang.RTL
		}
	}
	return false
}

func WithLocalizer(ctx context.Context, l *i18n.Localizer) context.Context {
	return context.WithValue(ctx, constants.LocalizerKey, l)
}

func UseLocalizer(ctx context.Context) (*i18n.Localizer, bool) {
	l, ok := ctx.Value(constants.LocalizerKey).(*i18n.Localizer)
	return l, ok
}

func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, constants.LocaleKey, tag)
}

// UseLocale returns the request locale, or English when none was negotiated.
func UseLocale(ctx context.Context) language.Tag {
	tag, ok := ctx.Value(constants.LocaleKey).(language.Tag)
	if !ok {
		return language.English
	}
	return tag
}

// MustT localizes msgID with the context localizer, returning msgID itself when
// no localizer is present.
func MustT(ctx context.Context, msgID string) string {
	l, ok := UseLocalizer(ctx)
	if !ok {
		return msgID
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{MessageID: msgID})
	if err != nil {
		return msgID
	}
	return msg
}
