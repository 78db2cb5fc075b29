package handlers

import (
	"strings"
	"sync"

	"github.com/escuela-dev/escuela/internal/types"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the `role` binding tag to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
				return types.IsRole(normalizeRole(fl.Field().String()))
			})
		}
	})
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
