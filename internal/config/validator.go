package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type customValidation struct {
	tag     string
	fn      validator.Func
	message string
}

var customValidations = []customValidation{
	{tag: "file", fn: isFileReadable, message: "{0} must be an existing and readable file"},
	{tag: "outdir", fn: isOutputDirectory, message: "{0} must be a directory or a path where one can be created"},
}

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

	for _, cv := range customValidations {
		if err := registerCustomValidation(validate, trans, cv); err != nil {
			return nil, nil, err
		}
	}
	return validate, trans, nil
}

func registerCustomValidation(validate *validator.Validate, trans ut.Translator, cv customValidation) error {
	if err := validate.RegisterValidation(cv.tag, cv.fn); err != nil {
		return fmt.Errorf("failed to register %s validation: %w", cv.tag, err)
	}
	if err := validate.RegisterTranslation(cv.tag, trans, func(ut ut.Translator) error {
		return ut.Add(cv.tag, cv.message, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(cv.tag, strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return fmt.Errorf("failed to register %s translation: %w", cv.tag, err)
	}
	return nil
}

func isFileReadable(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	// Owner read permission
	return info.Mode().Perm()&0o400 != 0
}

// isOutputDirectory accepts an existing directory or a path that does not exist yet.
func isOutputDirectory(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	if err != nil {
		return false
	}
	return info.IsDir()
}
