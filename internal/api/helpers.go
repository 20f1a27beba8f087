package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"vocapsule/internal/errors"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON parses the request body into v and validates it.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewBadRequestError("invalid JSON body")
	}
	return validateStruct(v)
}

// validateStruct runs struct tag validation and converts the first failure
// into a VALIDATION_ERROR.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.NewValidationError(fe.Field(), "failed on '"+fe.Tag()+"' rule")
	}
	return errors.NewBadRequestError("invalid request")
}
