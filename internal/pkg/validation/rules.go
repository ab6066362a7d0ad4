package validation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// PhonePattern accepts an optional leading + followed by digits, spaces, dashes and parentheses
	PhonePattern = `^\+?[0-9 ()\-]{7,20}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Phone *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
}

var (
	registerOnce sync.Once
	registerErr  error
)

// Register installs the custom binding rules on gin's validator. Safe to call more than once.
//
//	notblank  the string has a non-space character
//	phone     the string matches PhonePattern
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		if err := v.RegisterValidation("notblank", NotBlank); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("phone", Phone)
	})
	return registerErr
}

// NotBlank rejects strings made only of whitespace
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Phone validates a phone number
func Phone(fl validator.FieldLevel) bool {
	return CompiledPatterns.Phone.MatchString(fl.Field().String())
}
