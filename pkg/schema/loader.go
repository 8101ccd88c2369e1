package schema

import (
	"embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed v1/*.schema.json
var schemaFS embed.FS

const (
	Index          = "index.schema.json"
	OpenAIResponse = "openai_response.schema.json"
	OpenAIImages   = "openai_images.schema.json"
	GeminiGenerate = "gemini_generate.schema.json"
)

// Validate checks a Go value against one of the embedded schemas and returns
// the list of violations. A non-nil error means the schema itself could not
// be loaded or the document could not be read.
func Validate(name string, doc any) ([]string, error) {
	return validate(name, gojsonschema.NewGoLoader(doc))
}

// ValidateJSON is Validate for a raw JSON document.
func ValidateJSON(name string, raw []byte) ([]string, error) {
	return validate(name, gojsonschema.NewBytesLoader(raw))
}

func validate(name string, docLoader gojsonschema.JSONLoader) ([]string, error) {
	raw, err := schemaFS.ReadFile("v1/" + name)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", name, err)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(raw), docLoader)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", name, err)
	}
	if result.Valid() {
		return nil, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return errs, nil
}
