package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed schema/config.schema.json
var schemaJSON []byte

const schemaURL = "config.schema.json"

// compiledSchema компилирует встроенную JSON Schema один раз на процесс.
var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("разбор JSON Schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("регистрация JSON Schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// ValidateDocument проверяет YAML документ конфигурации по встроенной JSON Schema.
// Пустой документ валиден.
func ValidateDocument(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("разбор YAML: %w", err)
	}
	if doc == nil {
		return nil
	}

	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	return schema.Validate(normalize(doc))
}

// normalize приводит результат yaml.v3 к типам JSON модели:
// ключи map-ов к строкам (yaml допускает нестроковые ключи).
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	default:
		return v
	}
}
