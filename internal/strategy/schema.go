package strategy

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// configSchema reflects a registration's default configuration into the schema clients
// use to build a params bag. The schema is titled with the strategy name and rejects unknown keys.
func configSchema(name types.StrategyName, registration Registration) (string, error) {
	if registration.DefaultConfig == nil {
		return "", errors.Newf(errors.ErrCodeStrategyConfigError, "strategy %s does not declare a configuration", name)
	}

	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}

	schema := reflector.Reflect(registration.DefaultConfig)
	schema.Title = string(name)
	schema.Description = registration.Description

	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to marshal schema for %s", name)
	}

	return string(schemaBytes), nil
}
