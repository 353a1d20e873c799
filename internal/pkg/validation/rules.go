package validation

import (
	"errors"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// TagNotBlank rejects strings made only of whitespace. For optional fields
// combine it with omitempty.
const TagNotBlank = "notblank"

var (
	registerOnce sync.Once
	registerErr  error
)

// Register installs the custom rules on gin's validator engine. Safe to call repeatedly.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding engine is not go-playground/validator")
			return
		}
		registerErr = v.RegisterValidation(TagNotBlank, notBlank)
	})
	return registerErr
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
