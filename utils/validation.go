package utils

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var mobilePattern = regexp.MustCompile(`^03\d{9}$`)

// IsValidMobile reports whether phone is a local mobile number (03XXXXXXXXX)
func IsValidMobile(phone string) bool {
	return mobilePattern.MatchString(phone)
}

// RegisterValidators adds the custom tags used in request bindings to gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return IsValidMobile(fl.Field().String())
	})
}
