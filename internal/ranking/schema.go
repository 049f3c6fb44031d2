package ranking

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/rank_response.json
var responseSchemaJSON string

var (
	schemaOnce     sync.Once
	responseSchema *gojsonschema.Schema
	schemaErr      error
)

func loadResponseSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		responseSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchemaJSON))
	})
	return responseSchema, schemaErr
}

// validateResponse checks shape only; index ranges and ordering are the
// service's responsibility.
func validateResponse(body []byte) error {
	schema, err := loadResponseSchema()
	if err != nil {
		return fmt.Errorf("load ranking response schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result.Valid() {
		return nil
	}
	parts := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		parts = append(parts, field+": "+desc.Description())
	}
	return fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(parts, "; "))
}
