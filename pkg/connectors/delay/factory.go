package delay

import "github.com/zapline/zapline/pkg/protocol"

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(config map[string]any) (protocol.Connector, error) {
	return NewConnector(config)
}

func (f *Factory) ID() string {
	return "delay"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"seconds"},
		"properties": map[string]any{
			"seconds": map[string]any{
				"type":             "integer",
				"exclusiveMinimum": 0,
				"description":      "Number of seconds to suspend the run",
			},
		},
	}
}
