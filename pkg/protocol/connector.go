// Package protocol defines the interfaces and contracts for pluggable connectors.
package protocol

import "context"

// Connector executes one step of a run: given the run context it returns an
// updated context to merge back, or fails.
type Connector interface {
	Execute(ctx context.Context, runContext map[string]any) (map[string]any, error)
}

// ConnectorFactory creates connector instances and declares the JSON schema
// their configuration is validated against before Create is called.
type ConnectorFactory interface {
	// Create builds a connector from an already schema-validated config map.
	Create(config map[string]any) (Connector, error)

	// ID returns the step type tag this factory serves.
	ID() string

	// Schema returns the JSON schema for this connector's configuration.
	Schema() map[string]any
}
