// Package registry maps step types to connector factories and their
// configuration schemas.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/zapline/zapline/pkg/protocol"
)

// ErrUnsupportedStepType indicates a step type no factory is registered for.
var ErrUnsupportedStepType = errors.New("unsupported step type")

type Registry struct {
	logger    *slog.Logger
	factories map[string]protocol.ConnectorFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		factories: make(map[string]protocol.ConnectorFactory),
	}
}

func (r *Registry) RegisterConnector(factory protocol.ConnectorFactory) {
	r.factories[factory.ID()] = factory
	r.logger.Debug("Registered connector", "type", factory.ID())
}

// CreateConnector resolves the factory for the step type, validates the raw
// config against the factory's schema, and builds the connector. This runs
// at dispatch time, so a malformed config fails the step it belongs to, not
// the definition it was persisted with.
func (r *Registry) CreateConnector(stepType string, config map[string]any) (protocol.Connector, error) {
	factory, ok := r.factories[stepType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStepType, stepType)
	}

	if err := validateConfig(factory.Schema(), config); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", stepType, err)
	}

	return factory.Create(config)
}

// ConnectorTypes returns the registered step type tags.
func (r *Registry) ConnectorTypes() []string {
	types := make([]string, 0, len(r.factories))
	for stepType := range r.factories {
		types = append(types, stepType)
	}

	return types
}

// HealthCheck reports whether the registry is usable.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.factories) == 0 {
		return "No connectors registered", false
	}

	return fmt.Sprintf("%d connectors registered", len(r.factories)), true
}

func validateConfig(schema map[string]any, config map[string]any) error {
	if config == nil {
		config = map[string]any{}
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	configLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, configLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		descriptions := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			descriptions = append(descriptions, desc.String())
		}

		return fmt.Errorf("validation errors: %s", strings.Join(descriptions, "; "))
	}

	return nil
}
