package controllers

import (
	"reflect"
	"strings"
	"sync"

	"clinica/tools"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators configura o validator do gin: erros usam o nome JSON do
// campo e a regra "cpf" passa a existir.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
			return tools.ValidateCPF(fl.Field().String())
		})
	})
}
