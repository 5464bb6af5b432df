package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	// Register custom validation for file existence
	_ = validate.RegisterValidation("fileexists", func(fl validator.FieldLevel) bool {
		filePath := fl.Field().String()
		if filePath == "" {
			return true // Optional field, valid if empty
		}
		_, err := os.Stat(filePath)
		return !os.IsNotExist(err)
	})

	// Register custom validation for log levels understood by zerolog
	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		levelStr := fl.Field().String()
		if levelStr == "" {
			return true
		}
		_, err := zerolog.ParseLevel(strings.ToLower(levelStr))
		return err == nil
	})

	// Register custom validation for log formats
	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "json", "console", "text":
			return true
		default:
			return false
		}
	})

	if err := validate.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			messages := make([]string, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf(
					"field '%s' failed on tag '%s' (value: '%v')",
					fieldErr.Namespace(), fieldErr.Tag(), fieldErr.Value(),
				))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(messages, "; "))
		}
		return err
	}

	return nil
}
