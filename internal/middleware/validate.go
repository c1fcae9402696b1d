package middleware

import (
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/memetide/memetide/internal/logger"
)

// Validator is a struct that holds the validator instance
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates the request body against the provided struct
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateRequest is a middleware that validates the request body.
// A fresh instance of the template type is decoded per request so
// fields never leak between requests.
func ValidateRequest(template interface{}) fiber.Handler {
	v := NewValidator()
	t := reflect.TypeOf(template)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return func(c *fiber.Ctx) error {
		s := reflect.New(t).Interface()
		if err := c.BodyParser(s); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
				"msg":   err.Error(),
			})
		}

		if err := v.Validate(s); err != nil {
			errors := make(map[string]string)
			for _, err := range err.(validator.ValidationErrors) {
				errors[err.Field()] = err.Tag()
			}

			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": errors,
			})
		}

		c.Locals("validated", s)
		return c.Next()
	}
}

// ErrorHandler is a middleware that handles errors in a consistent way
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	logger.Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("HTTP error")

	return c.Status(code).JSON(fiber.Map{
		"error": http.StatusText(code),
	})
}
