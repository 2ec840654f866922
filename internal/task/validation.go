package task

import (
	"fmt"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator validates request structs and renders human-readable
// English messages. It is constructed once and injected into handlers.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	translator, found := uni.GetTranslator("en")

	if !found {
		return nil, fmt.Errorf("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, err
	}

	if err := validate.RegisterValidation("isodate", isISODate); err != nil {
		return nil, err
	}

	v := &Validator{validate: validate, translator: translator}

	if err := v.addCustomTranslations(); err != nil {
		return nil, err
	}

	return v, nil
}

// Validate returns one message per violated constraint, or nil when
// the value is valid.
func (v *Validator) Validate(value any) []string {
	err := v.validate.Struct(value)

	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)

	if !ok {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))

	for _, fieldError := range validationErrors {
		messages = append(messages, fieldError.Translate(v.translator))
	}

	return messages
}

// isISODate accepts a bare calendar date or a full RFC 3339 date-time.
// One rule applied uniformly on create and update.
func isISODate(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	if _, err := time.Parse("2006-01-02", value); err == nil {
		return true
	}

	_, err := time.Parse(time.RFC3339, value)

	return err == nil
}

func (v *Validator) addCustomTranslations() error {
	translations := []struct {
		tag     string
		message string
		param   bool
	}{
		{"required", "{0} is required", false},
		{"min", "{0} must be at least {1} characters long", true},
		{"max", "{0} must be at most {1} characters long", true},
		{"isodate", "{0} must be an ISO-8601 date or date-time", false},
	}

	for _, t := range translations {
		t := t

		register := func(ut ut.Translator) error {
			return ut.Add(t.tag, t.message, true)
		}

		translate := func(ut ut.Translator, fe validator.FieldError) string {
			var translated string
			var err error

			if t.param {
				translated, err = ut.T(t.tag, getFieldName(fe.Field()), fe.Param())
			} else {
				translated, err = ut.T(t.tag, getFieldName(fe.Field()))
			}

			if err != nil {
				return fe.Error()
			}

			return translated
		}

		if err := v.validate.RegisterTranslation(t.tag, v.translator, register, translate); err != nil {
			return err
		}
	}

	return nil
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"ID":         "id",
		"Title":      "title",
		"Detail":     "detail",
		"IsComplete": "isComplete",
		"DueAt":      "dueAt",
	}

	if name, exists := fieldNames[field]; exists {
		return name
	}

	return field
}
