package handler

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
)

type errorResponse struct {
	Message string `json:"message"`
}

// Colombian mobile numbers: ten digits starting with 3.
var coMobileRegexp = regexp.MustCompile(`^3\d{9}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// es-CO mobile format, not covered by the built-in rules.
	_ = v.RegisterValidation("co_mobile", func(fl validator.FieldLevel) bool {
		return coMobileRegexp.MatchString(fl.Field().String())
	})
	return v
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Message: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"Internal Server Error"}`)) // Fallback response
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
