package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

const (
	minStageTimeoutSeconds = 1
	maxStageTimeoutSeconds = 600
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("stage_timeouts", areStageTimeoutsValid); err != nil {
		return nil, nil, fmt.Errorf("failed to register stage_timeouts validation: %w", err)
	}
	if err := validate.RegisterTranslation("stage_timeouts", trans, func(ut ut.Translator) error {
		return ut.Add("stage_timeouts", "{0} must map stages 1-4 to timeouts between 1 and 600 seconds", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("stage_timeouts", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register stage_timeouts translation: %w", err)
	}

	return validate, trans, nil
}

func areStageTimeoutsValid(fl validator.FieldLevel) bool {
	timeouts, ok := fl.Field().Interface().(map[int]int)
	if !ok || len(timeouts) == 0 {
		return false
	}

	for stage, seconds := range timeouts {
		if stage < 1 || stage > 4 {
			return false
		}
		if seconds < minStageTimeoutSeconds || seconds > maxStageTimeoutSeconds {
			return false
		}
	}
	return true
}
