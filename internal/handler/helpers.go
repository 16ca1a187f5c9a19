package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	internal_errors "github.com/KareemHegazy123/WikiApp/internal/errors"
	"github.com/KareemHegazy123/WikiApp/internal/logger"

	"github.com/go-playground/validator/v10"
)

// writeErrorAndStatusCode resolves the HTTP status from the error's kind.
// Errors that carry no status map to 500.
func writeErrorAndStatusCode(w http.ResponseWriter, err error) {
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		http.Error(w, err.Error(), sc.StatusCode())
		return
	}
	// default error is 500
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func decodeValidate(r io.Reader, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Warn("request body is invalid json", "error", err)
		return &internal_errors.ValidationError{Message: "body is invalid json"}
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(body); err != nil {
		logger.Log.Warn("request body failed validation", "error", err)
		return &internal_errors.ValidationError{Message: "required fields missing"}
	}
	return nil
}

// parseIdParam parses an integer path parameter and returns a meaningful error
func parseIdParam(param string, paramName string) (int64, error) {
	val, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", paramName)
	}
	return val, nil
}
