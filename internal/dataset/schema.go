package dataset

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed intervals.schema.json
var schemaJSON []byte

// ErrSchema is returned when a document does not match the dataset schema.
var ErrSchema = errors.New("dataset does not match schema")

// SchemaViolation is one schema error with the offending field.
type SchemaViolation struct {
	Field       string
	Description string
}

// SchemaError carries every violation found in a document.
type SchemaError struct {
	Violations []SchemaViolation
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("%s: %d violation(s)", ErrSchema, len(e.Violations))
	if len(e.Violations) > 0 {
		msg += fmt.Sprintf(", first: %s: %s", e.Violations[0].Field, e.Violations[0].Description)
	}

	return msg
}

// Unwrap makes errors.Is(err, ErrSchema) hold.
func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// Schema returns the embedded JSON schema document.
func Schema() []byte {
	return schemaJSON
}

// Validate checks a generically decoded document (maps, slices, numbers)
// against the embedded schema. Violations are returned as *SchemaError.
func Validate(doc any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Violations: make([]SchemaViolation, 0, len(result.Errors()))}
	for _, resultErr := range result.Errors() {
		schemaErr.Violations = append(schemaErr.Violations, SchemaViolation{
			Field:       resultErr.Field(),
			Description: resultErr.Description(),
		})
	}

	return schemaErr
}
