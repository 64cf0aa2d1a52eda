package utils

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	Validate     *validator.Validate
	validateOnce sync.Once
)

func InitValidator() *validator.Validate {
	validateOnce.Do(func() {
		Validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return Validate
}
