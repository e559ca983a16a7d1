package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gitlab.com/dirk.krummacker/person-service/internal/apperror"
)

var registerJsonNames sync.Once

// useJsonFieldNames makes the validator report fields under their JSON names, so that error
// keys match what the client sent.
func useJsonFieldNames() {
	registerJsonNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// bindBody decodes and validates the JSON body of the request into target. Failures are returned
// as Validation errors listing the messages per field.
func bindBody(c *gin.Context, target any) error {
	err := c.ShouldBindJSON(target)
	if err == nil {
		return nil
	}
	fields := validationMessages(err)

	// The decoder keeps going after a wrongly typed field, so the rest of target is filled in and
	// its constraints can still be reported.
	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) {
		var validationErrors validator.ValidationErrors
		if errors.As(binding.Validator.ValidateStruct(target), &validationErrors) {
			for _, fe := range validationErrors {
				if fe.Field() == typeError.Field {
					continue
				}
				fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
			}
		}
	}
	return apperror.Validation(fields)
}

func validationMessages(err error) map[string][]string {
	fields := map[string][]string{}

	var validationErrors validator.ValidationErrors
	var typeError *json.UnmarshalTypeError
	var syntaxError *json.SyntaxError
	switch {
	case errors.As(err, &validationErrors):
		for _, fe := range validationErrors {
			fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
		}
	case errors.As(err, &typeError):
		field := typeError.Field
		if field == "" {
			field = "body"
		}
		fields[field] = append(fields[field], fmt.Sprintf("%s must be of type %s", field, jsonType(typeError.Type)))
	case errors.Is(err, io.EOF):
		fields["body"] = []string{"A request body is required"}
	case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
		fields["body"] = []string{"The request body is not valid JSON"}
	default:
		fields["body"] = []string{err.Error()}
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	numeric := fe.Kind() >= reflect.Int && fe.Kind() <= reflect.Float64
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if numeric {
			return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		if numeric {
			return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	default:
		return t.Kind().String()
	}
}
