package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/fleveque/quote-service/internal/model"
)

// RegisterValidators adds the catalog-backed `theme` and `era` tags to gin's
// validator. It must run before any request is bound.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}

	if err := v.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		_, ok := model.LookupTheme(fl.Field().String())
		return ok
	}); err != nil {
		return fmt.Errorf("registering theme validator: %w", err)
	}

	if err := v.RegisterValidation("era", func(fl validator.FieldLevel) bool {
		return model.ValidEra(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("registering era validator: %w", err)
	}

	return nil
}

// bindingMessage turns a binding error into a short client-facing message.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "theme":
		return fmt.Sprintf("unknown theme %q", fe.Value())
	case "era":
		return fmt.Sprintf("unknown era %q", fe.Value())
	case "gte", "lte":
		return "temperature must be between 0 and 1"
	default:
		return fmt.Sprintf("invalid %s", fe.Field())
	}
}
