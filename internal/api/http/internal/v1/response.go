package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type errorStruct struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func errorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorStruct{Error: message})
}

func unauthorizedResponse(c *gin.Context) {
	errorResponse(c, http.StatusUnauthorized, "unauthorized")
}

type validationErrorStruct struct {
	Error  string            `json:"error"`
	Fields []validationError `json:"validation_errors"`
}

type validationError struct {
	FieldKey     string `json:"field_key"`
	ErrorMessage string `json:"error_message"`
}

func validationErrorResponse(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		out := make([]validationError, len(verr))
		for i, ferr := range verr {
			out[i] = validationError{ferr.Field(), msgForTag(ferr.Tag(), ferr.Param())}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, validationErrorStruct{
			Error:  "validation error",
			Fields: out,
		})
		return
	}

	errorResponse(c, http.StatusBadRequest, "malformed request body")
}

func msgForTag(tag string, value string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "min":
		return fmt.Sprintf("minimum length is %v", value)
	case "max":
		return fmt.Sprintf("maximum length is %v", value)
	case "nickname":
		return "nickname must be printable without surrounding whitespace"
	}
	return tag
}
