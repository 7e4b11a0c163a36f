package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_SubstitutesContextValues(t *testing.T) {
	ctx := map[string]any{"name": "Ada", "count": 3}

	assert.Equal(t, "Hello Ada", Render("Hello {name}", ctx))
	assert.Equal(t, "3 items", Render("{count} items", ctx))
}

func TestRender_MissingKeyLeavesPlaceholder(t *testing.T) {
	ctx := map[string]any{"name": "Ada"}

	assert.Equal(t, "Hello {missing}", Render("Hello {missing}", ctx))
	assert.Equal(t, "Ada and {other}", Render("{name} and {other}", ctx))
}

func TestRender_NoPlaceholders(t *testing.T) {
	assert.Equal(t, "plain text", Render("plain text", map[string]any{"name": "Ada"}))
	assert.Equal(t, "", Render("", nil))
}

func TestRenderAny_WalksNestedStructures(t *testing.T) {
	ctx := map[string]any{"email": "c@example.com", "id": "INV-1"}

	value := map[string]any{
		"to":   "{email}",
		"tags": []any{"{id}", 7},
		"meta": map[string]any{"ref": "invoice {id}"},
	}

	rendered, ok := RenderAny(value, ctx).(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "c@example.com", rendered["to"])
	assert.Equal(t, []any{"INV-1", 7}, rendered["tags"])
	assert.Equal(t, "invoice INV-1", rendered["meta"].(map[string]any)["ref"])
}

func TestRenderStringMap(t *testing.T) {
	ctx := map[string]any{"token": "secret"}

	rendered := RenderStringMap(map[string]string{
		"Authorization": "Bearer {token}",
		"Accept":        "application/json",
	}, ctx)

	assert.Equal(t, "Bearer secret", rendered["Authorization"])
	assert.Equal(t, "application/json", rendered["Accept"])
}
