package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"pulse/internal/apperr"
)

var validate = validator.New()

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondErr(w http.ResponseWriter, err error) {
	respond(w, apperr.Status(err), map[string]any{"error": apperr.Message(err)})
}

// decode parses the JSON body and runs struct validation.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.BadRequest("invalid json body")
	}
	if err := validate.Struct(dst); err != nil {
		return apperr.BadRequest(err.Error())
	}
	return nil
}

func pathID(r *http.Request, name string) (uint64, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, apperr.BadRequest("invalid " + name)
	}
	return id, nil
}
