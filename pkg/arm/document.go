// Package arm extracts a normalized relational model from a
// deployment-template document describing a data-orchestration
// factory. It flattens the nested resource properties into flat rows
// and records the raw dependency tokens that pkg/dag later resolves
// into per-pipeline graphs.
package arm

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Parameter is one document-level parameter, in document order.
type Parameter struct {
	Name    string
	Type    string
	Default any
}

// Resource is one entry of the template's resources list. Properties
// hold the raw nested tree; numbers are preserved as json.Number.
type Resource struct {
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	DependsOn  []any          `json:"dependsOn"`
	Properties map[string]any `json:"properties"`
}

// Document is the decoded deployment template.
type Document struct {
	ContentVersion string
	Parameters     []Parameter
	Resources      []Resource
}

// ParseDocument decodes and validates a template document. A missing
// or malformed resources list is a hard failure; extraction never
// starts on such a document.
func ParseDocument(data []byte) (*Document, error) {
	var raw struct {
		ContentVersion string          `json:"contentVersion"`
		Parameters     json.RawMessage `json:"parameters"`
		Resources      json.RawMessage `json:"resources"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	if len(raw.Resources) == 0 || string(raw.Resources) == "null" {
		return nil, fmt.Errorf("invalid template: missing resources list")
	}

	var resources []Resource
	dec := json.NewDecoder(bytes.NewReader(raw.Resources))
	dec.UseNumber()
	if err := dec.Decode(&resources); err != nil {
		return nil, fmt.Errorf("invalid template: resources is not a list: %w", err)
	}

	params, err := parseParameters(raw.Parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template parameters: %w", err)
	}

	return &Document{
		ContentVersion: raw.ContentVersion,
		Parameters:     params,
		Resources:      resources,
	}, nil
}

// parseParameters walks the parameters object token by token so the
// document's declaration order survives the decode. Row order of the
// factory and global-parameter tables depends on it.
func parseParameters(raw json.RawMessage) ([]Parameter, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parameters is not an object")
	}

	var params []Parameter
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := keyTok.(string)

		var body struct {
			Type         string `json:"type"`
			DefaultValue any    `json:"defaultValue"`
		}
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		params = append(params, Parameter{Name: name, Type: body.Type, Default: body.DefaultValue})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return params, nil
}

// Parameter lookup by name; second result reports presence.
func (d *Document) parameter(name string) (Parameter, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}
