// internal/server/schema.go
package server

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	cerrors "loan-risk-advisor/internal/common/errors"
	"loan-risk-advisor/internal/risk/extract"
)

// assessRequestSchema shapes the assess request body. Fields may arrive as
// strings or numbers since the form layer sends raw text; presence and
// range checks belong to the validator, not the schema.
const assessRequestSchema = `{
	"type": "object",
	"properties": {
		"loanAmount":        {"type": ["string", "number"]},
		"annualIncome":      {"type": ["string", "number"]},
		"interestRate":      {"type": ["string", "number"]},
		"debtToIncomeRatio": {"type": ["string", "number"]},
		"employmentLength":  {"type": ["string", "number"]},
		"ficoScore":         {"type": ["string", "number"]},
		"openAccounts":      {"type": ["string", "number"]},
		"term":              {"type": "string"},
		"homeOwnership":     {"type": "string"}
	},
	"additionalProperties": false
}`

var assessSchema = gojsonschema.NewStringLoader(assessRequestSchema)

// parseAssessRequest validates the body against the schema and flattens it
// into the raw field values the extractor binds from.
func parseAssessRequest(body []byte) (extract.Values, error) {
	result, err := gojsonschema.Validate(assessSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, cerrors.NewRequestSchemaInvalidError(err.Error())
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return nil, cerrors.NewRequestSchemaInvalidError(strings.Join(reasons, "; "))
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, cerrors.NewRequestSchemaInvalidError(err.Error())
	}

	values := make(extract.Values, len(raw))
	for name, v := range raw {
		switch t := v.(type) {
		case string:
			values[name] = t
		case float64:
			values[name] = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			values[name] = fmt.Sprintf("%v", t)
		}
	}
	return values, nil
}
