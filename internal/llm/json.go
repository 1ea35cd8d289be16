package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSON returns the JSON object in raw. Output that is not valid JSON
// as a whole is searched for the outermost {...} block, which covers models
// that wrap JSON in prose or markdown fences.
func ExtractJSON(raw string) ([]byte, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty content", ErrMalformedResponse)
	}
	if json.Valid([]byte(trimmed)) {
		return []byte(trimmed), nil
	}
	match := objectPattern.FindString(trimmed)
	if match == "" {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	if !json.Valid([]byte(match)) {
		return nil, fmt.Errorf("%w: invalid JSON object", ErrMalformedResponse)
	}
	return []byte(match), nil
}

// ValidateSchema checks doc against a JSON schema.
func ValidateSchema(schema string, doc []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: schema validation failed: %v", ErrMalformedResponse, errs)
	}
	return nil
}

// DecodeJSON extracts, validates and decodes model output into v.
// An empty schema skips validation.
func DecodeJSON(raw, schema string, v any) error {
	doc, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	if schema != "" {
		if err := ValidateSchema(schema, doc); err != nil {
			return err
		}
	}
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
