package config

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/argo-signal/pkg/errors"
	"github.com/rxtech-lab/argo-signal/pkg/marketdata/provider"
)

// SchemaTitle is the title of the generated configuration schema.
const SchemaTitle = "argo-signal-config"

// GenerateSchema reflects Config into a JSON schema keyed by the YAML field names.
func GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		FieldNameTag:              "yaml",
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case reflect.TypeFor[time.Duration]():
				return &jsonschema.Schema{
					Type:        "string",
					Description: "Go duration, for example 30s or 5m",
				}
			case reflect.TypeFor[provider.ProviderType]():
				enum := make([]any, 0, len(provider.GetSupportedProviders()))
				for _, info := range provider.GetSupportedProviders() {
					enum = append(enum, info.Name)
				}

				return &jsonschema.Schema{
					Type: "string",
					Enum: enum,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(&Config{})
	schema.Title = SchemaTitle
	schema.Description = "Configuration schema for argo-signal"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON renders GenerateSchema as indented JSON.
func GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(GenerateSchema(), "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal config schema", err)
	}

	return string(schemaBytes), nil
}

// SampleYAML renders Default as YAML, prefixed with a yaml-language-server schema reference.
func SampleYAML(schemaName string) ([]byte, error) {
	body, err := yaml.Marshal(Default())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal sample config", err)
	}

	return append([]byte(SchemaReference(schemaName)), body...), nil
}

// SchemaReference is the first line of a config file that points editors at schemaName.
func SchemaReference(schemaName string) string {
	return "# yaml-language-server: $schema=" + schemaName + "\n"
}
