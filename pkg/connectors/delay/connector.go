// Package delay provides a connector that suspends a run for a fixed
// number of seconds and returns the context unchanged.
package delay

import (
	"context"
	"errors"
	"time"
)

type Connector struct {
	Seconds int
}

func NewConnector(config map[string]any) (*Connector, error) {
	seconds, err := secondsFromConfig(config)
	if err != nil {
		return nil, err
	}

	return &Connector{Seconds: seconds}, nil
}

func (c *Connector) Execute(ctx context.Context, runContext map[string]any) (map[string]any, error) {
	timer := time.NewTimer(time.Duration(c.Seconds) * time.Second)
	defer timer.Stop()

	select {
	case <-timer.C:
		return runContext, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func secondsFromConfig(config map[string]any) (int, error) {
	raw, ok := config["seconds"]
	if !ok {
		return 0, errors.New("delay config requires 'seconds'")
	}

	var seconds int

	switch v := raw.(type) {
	case int:
		seconds = v
	case float64:
		// JSON numbers decode as float64.
		seconds = int(v)
	default:
		return 0, errors.New("delay 'seconds' must be an integer")
	}

	if seconds <= 0 {
		return 0, errors.New("delay 'seconds' must be strictly positive")
	}

	return seconds, nil
}
