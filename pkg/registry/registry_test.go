package registry

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateConnector_UnknownType(t *testing.T) {
	r := NewRegistry(slog.Default())

	_, err := r.CreateConnector("nope", map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedStepType)
}

func TestRegistry_CreateConnector_ValidatesConfigAgainstSchema(t *testing.T) {
	r := NewDefaultRegistry(slog.Default())

	_, err := r.CreateConnector("delay", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid delay config")

	_, err = r.CreateConnector("delay", map[string]any{"seconds": 0})
	require.Error(t, err)

	_, err = r.CreateConnector("delay", map[string]any{"seconds": "two"})
	require.Error(t, err)
}

func TestRegistry_CreateConnector_BuildsConnector(t *testing.T) {
	r := NewDefaultRegistry(slog.Default())

	connector, err := r.CreateConnector("delay", map[string]any{"seconds": 2})
	require.NoError(t, err)
	assert.NotNil(t, connector)

	connector, err = r.CreateConnector("webhook", map[string]any{"url": "http://example.com/hook"})
	require.NoError(t, err)
	assert.NotNil(t, connector)
}

func TestRegistry_ConnectorTypes(t *testing.T) {
	r := NewDefaultRegistry(slog.Default())

	types := r.ConnectorTypes()
	assert.ElementsMatch(t, []string{"delay", "webhook"}, types)
}

func TestRegistry_HealthCheck(t *testing.T) {
	empty := NewRegistry(slog.Default())
	_, ok := empty.HealthCheck()
	assert.False(t, ok)

	msg, ok := NewDefaultRegistry(slog.Default()).HealthCheck()
	assert.True(t, ok)
	assert.Contains(t, msg, "2 connectors")
}
