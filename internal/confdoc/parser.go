package confdoc

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse parses rendered configuration text into a Document. Parsing is
// safe: YAML tags never execute anything, and a malformed document
// fails with a ParseError carrying location information.
func Parse(data []byte) (Document, error) {
	// Decode into a plain map: yaml.v3 reuses the target map type for
	// nested mappings, and everything downstream expects
	// map[string]any all the way down.
	var raw map[string]any
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&raw); err != nil {
		return nil, wrapYAMLError(err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return Document(raw), nil
}

// ParseFile parses a configuration file into a Document. No template
// rendering is applied here.
func ParseFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewParseError(0, 0, fmt.Sprintf("failed to read file: %s", path), err)
	}
	return Parse(data)
}

// wrapYAMLError converts a YAML error to a ParseError with line information.
func wrapYAMLError(err error) error {
	if err == nil {
		return nil
	}
	errStr := err.Error()
	line, column := extractLineColumn(errStr)
	return NewParseError(line, column, cleanYAMLErrorMessage(errStr), err)
}

// extractLineColumn attempts to extract line and column from a YAML
// error message.
func extractLineColumn(errStr string) (int, int) {
	var line, column int

	if idx := strings.Index(errStr, "line "); idx != -1 {
		fmt.Sscanf(errStr[idx:], "line %d", &line)
	}
	if idx := strings.Index(errStr, "column "); idx != -1 {
		fmt.Sscanf(errStr[idx:], "column %d", &column)
	}

	return line, column
}

// cleanYAMLErrorMessage creates a cleaner error message.
func cleanYAMLErrorMessage(errStr string) string {
	errStr = strings.TrimPrefix(errStr, "yaml: ")
	if len(errStr) > 0 {
		errStr = strings.ToUpper(errStr[:1]) + errStr[1:]
	}
	return errStr
}
