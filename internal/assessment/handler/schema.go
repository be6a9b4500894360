package handler

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"htb-gateway/internal/assessment"
	dErrors "htb-gateway/pkg/domain-errors"
	"htb-gateway/pkg/platform/httputil"
)

const maxBodyBytes = 4 << 20

//go:embed schema/application.json
var applicationSchemaJSON string

var (
	applicationSchema = mustSchema(applicationSchemaJSON)
	batchSchema       = mustSchema(fmt.Sprintf(`{
  "type": "object",
  "additionalProperties": false,
  "required": ["applications"],
  "properties": {
    "applications": {"type": "array", "minItems": 1, "maxItems": %d, "items": %s}
  }
}`, assessment.MaxBatchSize, applicationSchemaJSON))
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded schema: %v", err))
	}
	return s
}

// decodeWithSchema checks the raw body against schema before decoding it into
// T and running its Validate method.
func decodeWithSchema[T any, PT interface {
	*T
	httputil.Validatable
}](r *http.Request, schema *gojsonschema.Schema) (*T, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read request body")
	}
	if len(body) > maxBodyBytes {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request body too large")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid JSON body")
	}
	if !res.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, schemaMessage(res.Errors()))
	}

	var v T
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, dErrors.Newf(dErrors.CodeValidation, "%s has the wrong type", typeErr.Field)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid JSON body")
	}
	if err := PT(&v).Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// schemaMessage joins the first few schema violations into one line.
func schemaMessage(errs []gojsonschema.ResultError) string {
	const limit = 5
	parts := make([]string, 0, limit)
	for i, e := range errs {
		if i == limit {
			parts = append(parts, fmt.Sprintf("and %d more", len(errs)-limit))
			break
		}
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "; ")
}
