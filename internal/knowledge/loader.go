// Package knowledge loads the static document the assistant answers from.
package knowledge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is returned when the document is missing or malformed.
// It is fatal at startup.
var ErrInvalidDocument = errors.New("invalid knowledge document")

// Document is a parsed knowledge document. It is read-only after Load.
type Document struct {
	// Data is the decoded key/value tree.
	Data map[string]interface{}

	rendered string
}

// Load reads the document at path. JSON is the default format; files ending
// in .yaml or .yml are decoded as YAML.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(raw)
	default:
		return parseJSON(raw)
	}
}

// Parse decodes a JSON document held in memory.
func Parse(raw []byte) (*Document, error) {
	return parseJSON(raw)
}

func parseJSON(raw []byte) (*Document, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: document is empty", ErrInvalidDocument)
	}

	// Re-indent the original bytes so the rendered block keeps the file's key order.
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &Document{Data: data, rendered: buf.String()}, nil
}

func parseYAML(raw []byte) (*Document, error) {
	var data map[string]interface{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: document is empty", ErrInvalidDocument)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &Document{Data: data, rendered: string(out)}, nil
}

// Render returns the document as indented JSON.
func (d *Document) Render() string {
	return d.rendered
}
