package webhook

import "github.com/zapline/zapline/pkg/protocol"

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(config map[string]any) (protocol.Connector, error) {
	return NewConnector(config)
}

func (f *Factory) ID() string {
	return "webhook"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"url"},
		"properties": map[string]any{
			"url": map[string]any{
				"type":      "string",
				"minLength": 1,
				"format":    "uri",
			},
			"method": map[string]any{
				"type": "string",
			},
			"headers": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type": "string",
				},
			},
			"body": map[string]any{
				"type": "object",
			},
		},
	}
}
