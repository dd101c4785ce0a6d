package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/akushnir/contactbook-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
)

// ParsePathUint reads a numeric identifier from a chi route parameter.
func ParsePathUint(r *http.Request, key string) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter is required").WithDetails(map[string]any{"field": key})
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a positive integer").WithDetails(map[string]any{"field": key})
	}
	return uint(value), nil
}
