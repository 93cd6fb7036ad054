package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func pathID(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(key))
	return strconv.ParseInt(raw, 10, 64)
}

// validationDetails flattens validator failures into a field -> rule map for
// the problem document's errors member.
func validationDetails(errs validator.ValidationErrors) map[string]interface{} {
	details := make(map[string]interface{}, len(errs))
	for _, fieldError := range errs {
		details[strings.ToLower(fieldError.Field())] = fieldError.Tag()
	}
	return details
}
