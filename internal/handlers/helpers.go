package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/models"
)

// maxBodyBytes bounds the size of a product payload
const maxBodyBytes = 1 << 20

const invalidIDMessage = "Invalid product ID format"

// parseProductID parses a path segment as a base-10 int64
func parseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q: %w", raw, err)
	}
	return id, nil
}

// decodeProductInput decodes a product body.
// The returned issues are nil when the body is well formed JSON of the
// right types; required fields are checked later by the service.
func decodeProductInput(w http.ResponseWriter, r *http.Request) (models.ProductInput, []string) {
	var in models.ProductInput

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		return in, []string{describeDecodeError(err)}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return in, []string{"body: must contain a single JSON object"}
	}
	return in, nil
}

func describeDecodeError(err error) string {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
	)

	switch {
	case errors.Is(err, io.EOF):
		return "body: field required"
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return "body: must be a JSON object"
		}
		return fmt.Sprintf("%s: value is not a valid %s", typeErr.Field, typeName(typeErr.Type.String()))
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("body: invalid JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &maxErr):
		return fmt.Sprintf("body: must not exceed %d bytes", maxErr.Limit)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "body: invalid JSON"
	default:
		return "body: " + err.Error()
	}
}

func typeName(goType string) string {
	switch goType {
	case "string", "*string":
		return "string"
	case "float64", "*float64":
		return "float"
	default:
		return goType
	}
}

// parseListParams reads skip, limit and category from the query string.
// Range checks are left to the service.
func parseListParams(q url.Values) (models.ListParams, []string) {
	params := models.ListParams{
		Skip:     models.DefaultSkip,
		Limit:    models.DefaultLimit,
		Category: q.Get("category"),
	}

	var issues []string
	if raw := q.Get("skip"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			issues = append(issues, "skip: value is not a valid integer")
		}
		params.Skip = v
	}
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			issues = append(issues, "limit: value is not a valid integer")
		}
		params.Limit = v
	}
	return params, issues
}
