package gemini

import (
	"embed"
	"fmt"
	"strings"

	"github.com/spigell/hr-assist/internal/ai"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// ValidationError lists every schema violation found in a model reply.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError is a single violation at a JSON path.
type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s reply failed schema validation:", e.Schema)
	for i, fe := range e.Errors {
		fmt.Fprintf(&sb, " %d. %s: %s;", i+1, fe.Field, fe.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Is makes every ValidationError match ai.ErrMalformedResponse.
func (e *ValidationError) Is(target error) bool {
	return target == ai.ErrMalformedResponse
}

var (
	resumeSchema  = mustLoadSchema("resume")
	cultureSchema = mustLoadSchema("culture")
	talentSchema  = mustLoadSchema("talent")
)

func mustLoadSchema(name string) *gojsonschema.Schema {
	data, err := schemaFiles.ReadFile("schemas/" + name + ".json")
	if err != nil {
		panic(fmt.Sprintf("read %s schema: %v", name, err))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(string(data)))
	if err != nil {
		panic(fmt.Sprintf("compile %s schema: %v", name, err))
	}
	return schema
}

func validatePayload(name string, schema *gojsonschema.Schema, payload string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		return fmt.Errorf("%w: load %s reply: %w", ai.ErrMalformedResponse, name, err)
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
