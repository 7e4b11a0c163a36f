package registry

import (
	"log/slog"

	"github.com/zapline/zapline/pkg/connectors/delay"
	"github.com/zapline/zapline/pkg/connectors/webhook"
)

// NewDefaultRegistry builds a registry with the built-in connectors
// registered. Callers extend it with RegisterConnector before handing it to
// the engine.
func NewDefaultRegistry(logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	r.RegisterConnector(delay.NewFactory())
	r.RegisterConnector(webhook.NewFactory())

	return r
}
