// Package webhook provides a connector that calls an HTTP endpoint with
// placeholder-interpolated headers and body.
//
// The connector never fails its step: any transport, status, or
// serialization error is folded into the returned context under an "error"
// key and the run moves on. This asymmetry with the engine's failure
// handling is intended product behavior.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zapline/zapline/pkg/template"
)

const requestTimeout = 30 * time.Second

type Connector struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    map[string]any

	client *http.Client
}

func NewConnector(config map[string]any) (*Connector, error) {
	url, _ := config["url"].(string)
	if url == "" {
		return nil, errors.New("webhook config requires 'url'")
	}

	method, _ := config["method"].(string)
	if method == "" {
		method = http.MethodPost
	}

	headers := make(map[string]string)
	if headersConfig, ok := config["headers"].(map[string]any); ok {
		for key, value := range headersConfig {
			if strVal, ok := value.(string); ok {
				headers[key] = strVal
			} else {
				headers[key] = fmt.Sprintf("%v", value)
			}
		}
	}

	body, _ := config["body"].(map[string]any)

	return &Connector{
		URL:     url,
		Method:  strings.ToUpper(method),
		Headers: headers,
		Body:    body,
		client:  &http.Client{Timeout: requestTimeout},
	}, nil
}

func (c *Connector) Execute(ctx context.Context, runContext map[string]any) (map[string]any, error) {
	response, err := c.send(ctx, runContext)
	if err != nil {
		result := copyContext(runContext)
		result["error"] = err.Error()

		return result, nil
	}

	result := copyContext(runContext)
	result["response"] = response

	return result, nil
}

func (c *Connector) send(ctx context.Context, runContext map[string]any) (map[string]any, error) {
	var bodyReader io.Reader

	if c.Body != nil {
		rendered := template.RenderAny(c.Body, runContext)

		payload, err := json.Marshal(rendered)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize webhook body: %w", err)
		}

		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, c.Method, c.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %w", err)
	}

	for key, value := range template.RenderStringMap(c.Headers, runContext) {
		req.Header.Set(key, value)
	}

	if c.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("webhook request returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}

	body, err := parseBody(resp.Header.Get("Content-Type"), raw)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"status_code": resp.StatusCode,
		"headers":     flattenHeaders(resp.Header),
		"body":        body,
	}, nil
}

func parseBody(contentType string, raw []byte) (any, error) {
	if !strings.Contains(contentType, "application/json") {
		return string(raw), nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse webhook response body: %w", err)
	}

	return parsed, nil
}

func flattenHeaders(header http.Header) map[string]string {
	flat := make(map[string]string, len(header))
	for key := range header {
		flat[key] = header.Get(key)
	}

	return flat
}

func copyContext(runContext map[string]any) map[string]any {
	result := make(map[string]any, len(runContext)+1)
	for k, v := range runContext {
		result[k] = v
	}

	return result
}
