package handlers

import (
	"sync"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the custom binding tags used by the request DTOs.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("expense_category", validExpenseCategory)
	})
}

// validExpenseCategory accepts an empty value or any category name, ignoring case.
func validExpenseCategory(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	_, ok := domain.ParseCategory(raw)
	return ok
}
