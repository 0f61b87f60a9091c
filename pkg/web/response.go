// Package web defines common components for a web application.
package web

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// Response holds the common response type for all APIs.
type Response struct {
	AccessToken          string     `json:"access_token,omitempty"`
	AccessTokenExpiresAt *time.Time `json:"access_token_expires_at,omitempty"`
	Data                 any        `json:"data,omitempty"`
	Error                string     `json:"error,omitempty"`
}

// Error wraps a given err into json friendly struct.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// BindError converts a request binding error into a response.
//
// Validation errors are reported for the first failed field in plain words.
func BindError(err error) Response {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return Response{Error: GetErrorMsg(ve[0])}
	}

	return Error(err)
}

// GetErrorMsg returns a human readable message for the failed field validation.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " field is required"
	case "required_if":
		return fe.Field() + " field is required for " + fe.Param()
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "alphanum":
		return fe.Field() + " must contain letters and digits only"
	case "transactiontype":
		return fe.Field() + " is not supported"
	case "datetime":
		return fe.Field() + " must match layout " + fe.Param()
	}

	return fe.Field() + " is invalid"
}
