package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/vitrina-dev/vitrina/internal/types"
)

var setupOnce sync.Once

// SetupValidation makes gin's validator report fields by their form or
// json name instead of the Go field name.
func SetupValidation() {
	setupOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, key := range []string{"form", "json"} {
				name := strings.SplitN(field.Tag.Get(key), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return field.Name
		})
	})
}

// bind decodes the request with b and converts any failure into a 422.
func bind(ctx *gin.Context, obj any, b binding.Binding) error {
	if err := ctx.ShouldBindWith(obj, b); err != nil {
		return bindingError(err)
	}
	return nil
}

// bindStrict is bind for form endpoints that must match an exact shape:
// any posted field outside allowed is rejected.
func bindStrict(ctx *gin.Context, obj any, b binding.Binding, allowed ...string) error {
	if err := bind(ctx, obj, b); err != nil {
		return err
	}

	known := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		known[name] = true
	}

	var fields []types.FieldError

	for name := range ctx.Request.PostForm {
		if !known[name] {
			fields = append(fields, types.FieldError{Field: name, Msg: "лишнее поле не допускается"})
		}
	}

	if form := ctx.Request.MultipartForm; form != nil {
		for name := range form.File {
			if !known[name] {
				fields = append(fields, types.FieldError{Field: name, Msg: "лишнее поле не допускается"})
			}
		}
	}

	if len(fields) > 0 {
		return types.ValidationError(fields)
	}

	return nil
}

func bindingError(err error) error {
	var validationErrors validator.ValidationErrors
	var tooLarge *http.MaxBytesError

	if errors.As(err, &tooLarge) {
		return types.TooLarge()
	}

	if errors.As(err, &validationErrors) {
		fields := make([]types.FieldError, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, types.FieldError{Field: fe.Field(), Msg: describe(fe)})
		}
		return types.ValidationError(fields)
	}

	return types.ValidationError([]types.FieldError{{Field: "body", Msg: err.Error()}})
}

func describe(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "email":
		return "некорректный email"
	case "min":
		if isString {
			return fmt.Sprintf("минимальная длина %s символов", fe.Param())
		}
		return fmt.Sprintf("минимальное значение %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("максимальная длина %s символов", fe.Param())
		}
		return fmt.Sprintf("максимальное значение %s", fe.Param())
	case "gte":
		return fmt.Sprintf("значение должно быть не меньше %s", fe.Param())
	case "lte":
		return fmt.Sprintf("значение должно быть не больше %s", fe.Param())
	default:
		return "недопустимое значение"
	}
}
