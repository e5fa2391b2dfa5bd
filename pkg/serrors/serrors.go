package serrors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/go-i18n/v2/i18n"
)

// BaseError carries a stable machine code, a developer message and the
// locale key used to render it for end users.
type BaseError struct {
	Code         string         `json:"code"`
	Message      string         `json:"message"`
	LocaleKey    string         `json:"locale_key,omitempty"`
	TemplateData map[string]any `json:"-"`
}

func (b *BaseError) Error() string {
	return b.Message
}

func (b *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return t.Code == b.Code
}

// Localize renders the error through l, falling back to Message when the key is missing.
func (b *BaseError) Localize(l *i18n.Localizer) string {
	if l == nil || b.LocaleKey == "" {
		return b.Message
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    b.LocaleKey,
		TemplateData: b.TemplateData,
	})
	if err != nil || msg == "" {
		return b.Message
	}
	return msg
}

func NewError(code string, message string, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func NewFieldRequiredError(field string, fieldLocaleKey string) *BaseError {
	return &BaseError{
		Code:      "FIELD_REQUIRED",
		Message:   fmt.Sprintf("%s is required", field),
		LocaleKey: "ValidationErrors.required",
		TemplateData: map[string]any{
			"Field":    field,
			"FieldKey": fieldLocaleKey,
		},
	}
}

type ValidationErrors map[string]*BaseError

// ProcessValidatorErrors converts validator output into BaseErrors keyed by struct field.
func ProcessValidatorErrors(errs validator.ValidationErrors, fieldLocaleKey func(string) string) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = &BaseError{
			Code:      "VALIDATION_" + fe.Tag(),
			Message:   fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()),
			LocaleKey: "ValidationErrors." + fe.Tag(),
			TemplateData: map[string]any{
				"Field":    fe.Field(),
				"FieldKey": fieldLocaleKey(fe.Field()),
				"Param":    fe.Param(),
			},
		}
	}
	return out
}

// LocalizeValidationErrors renders every error with l. Field names are
// localized too when a field locale key is known.
func LocalizeValidationErrors(errs ValidationErrors, l *i18n.Localizer) map[string]string {
	out := make(map[string]string, len(errs))
	for field, e := range errs {
		if l != nil {
			if key, _ := e.TemplateData["FieldKey"].(string); key != "" {
				if name, err := l.Localize(&i18n.LocalizeConfig{MessageID: key}); err == nil && name != "" {
					e.TemplateData["Field"] = name
				}
			}
		}
		out[field] = e.Localize(l)
	}
	return out
}
