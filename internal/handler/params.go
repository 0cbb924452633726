package handler

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/settlement-api/pkg/errors"
)

const unknownFieldPrefix = `json: unknown field "`

// idParam parses a positive integer path parameter.
func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.InvalidField(name, "must be a positive integer")
	}
	return id, nil
}

// invalidPayload converts a JSON binding failure into a validation error
// naming the offending field when the decoder reports one.
func invalidPayload(err error) error {
	out := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		out.Details = map[string]string{typeErr.Field: "must be " + kindName(typeErr.Type)}
	case strings.HasPrefix(err.Error(), unknownFieldPrefix):
		field := strings.TrimSuffix(strings.TrimPrefix(err.Error(), unknownFieldPrefix), `"`)
		out.Details = map[string]string{field: "is not allowed"}
	case errors.As(err, &syntaxErr):
		out.Details = map[string]string{"body": "must be valid JSON"}
	}
	return out
}

// invalidQuery converts a query binding failure into a validation error. A
// number conversion failure is traced back to the query key carrying the value.
func invalidQuery(c *gin.Context, err error) error {
	out := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters")

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		for key, values := range c.Request.URL.Query() {
			for _, value := range values {
				if value == numErr.Num {
					out.Details = map[string]string{key: "must be an integer"}
					return out
				}
			}
		}
	}
	return out
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Map, reflect.Struct:
		return "an object"
	}
	return "a " + t.Kind().String()
}
