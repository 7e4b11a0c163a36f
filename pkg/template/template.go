// Package template renders {name}-style placeholders against a run context.
package template

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Render substitutes every {name} occurrence in input with the matching
// context value. Substitution is tolerant: a key missing from the context
// leaves the original placeholder text in place rather than failing.
func Render(input string, runContext map[string]any) string {
	if !strings.Contains(input, "{") {
		return input
	}

	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		key := match[1 : len(match)-1]

		value, ok := runContext[key]
		if !ok {
			return match
		}

		return stringify(value)
	})
}

// RenderAny walks maps, slices and strings, rendering every string it finds.
// Non-string leaves pass through untouched.
func RenderAny(value any, runContext map[string]any) any {
	switch v := value.(type) {
	case string:
		return Render(v, runContext)
	case map[string]any:
		rendered := make(map[string]any, len(v))
		for key, item := range v {
			rendered[key] = RenderAny(item, runContext)
		}

		return rendered
	case []any:
		rendered := make([]any, len(v))
		for i, item := range v {
			rendered[i] = RenderAny(item, runContext)
		}

		return rendered
	default:
		return value
	}
}

// RenderStringMap renders every value of a string-to-string map.
func RenderStringMap(values map[string]string, runContext map[string]any) map[string]string {
	rendered := make(map[string]string, len(values))
	for key, value := range values {
		rendered[key] = Render(value, runContext)
	}

	return rendered
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", value)
}
