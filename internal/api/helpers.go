package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/vytor/phishdefense/internal/errors"
	"github.com/vytor/phishdefense/internal/logger"
	"github.com/vytor/phishdefense/internal/models"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// requestInput holds the fields accepted by the round and answer endpoints,
// either as a JSON body or as form values.
type requestInput struct {
	Hard    *bool  `json:"hard"`
	Verdict string `json:"verdict"`
}

func readInput(r *http.Request) (requestInput, error) {
	var in requestInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if r.ContentLength == 0 {
			return in, nil
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return in, errors.NewBadRequestError("invalid JSON body")
		}
		return in, nil
	}

	if err := r.ParseForm(); err != nil {
		return in, errors.NewBadRequestError("invalid form body")
	}
	if v := r.Form.Get("hard"); v != "" {
		hard := parseFlag(v)
		in.Hard = &hard
	}
	in.Verdict = r.Form.Get("verdict")
	return in, nil
}

// parseFlag understands checkbox values as well as booleans.
func parseFlag(v string) bool {
	if strings.EqualFold(v, "on") || strings.EqualFold(v, "yes") {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

func parseVerdict(raw string) (bool, error) {
	if raw == "" {
		return false, errors.NewValidationError("verdict", "required")
	}
	verdict, err := models.ParseVerdict(raw)
	if err != nil {
		return false, errors.NewValidationError("verdict", "must be 'phish' or 'legit'")
	}
	return verdict, nil
}

func parseLimit(raw string, def, max int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.NewValidationError("limit", "must be a non-negative integer")
	}
	if n > max {
		n = max
	}
	return n, nil
}
