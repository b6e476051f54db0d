package confdoc

import (
	"errors"
	"fmt"

	"github.com/ohler55/ojg/jp"
	"gopkg.in/yaml.v3"
)

// Document is a parsed configuration: a nested mapping of string keys
// to scalars, sequences, or further mappings. Treat it as immutable
// once constructed; only merging produces new documents.
type Document map[string]any

// Has reports whether a top-level key is present.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Lookup resolves a dot-separated path ("task.model.kwargs") into the
// document. A path that resolves to nothing returns a MissingKeyError.
func (d Document) Lookup(path string) (any, error) {
	expr, err := jp.ParseString("$." + path)
	if err != nil {
		return nil, fmt.Errorf("invalid config path '%s': %w", path, err)
	}
	results := expr.Get(map[string]any(d))
	if len(results) == 0 {
		return nil, NewMissingKeyError(path)
	}
	return results[0], nil
}

// String resolves path to a string value.
func (d Document) String(path string) (string, error) {
	v, err := d.Lookup(path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("config key '%s' is %T, want string", path, v)
	}
	return s, nil
}

// Map resolves path to a nested mapping.
func (d Document) Map(path string) (map[string]any, error) {
	v, err := d.Lookup(path)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config key '%s' is %T, want mapping", path, v)
	}
	return m, nil
}

// Strings resolves path to a list of strings. A scalar string is
// treated as a single-element list. A missing path is an empty list,
// not an error.
func (d Document) Strings(path string) ([]string, error) {
	v, err := d.Lookup(path)
	if err != nil {
		var missing *MissingKeyError
		if errors.As(err, &missing) {
			return nil, nil
		}
		return nil, err
	}
	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []any:
		out := make([]string, 0, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("config key '%s[%d]' is %T, want string", path, i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("config key '%s' is %T, want string or list of strings", path, v)
	}
}

// Serialize serializes the document to YAML bytes with stable key order.
func (d Document) Serialize() ([]byte, error) {
	return yaml.Marshal(map[string]any(d))
}

// Clone creates a deep copy of the document via a YAML round-trip.
func (d Document) Clone() (Document, error) {
	data, err := d.Serialize()
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Truthy reports whether a document value should be treated as a set
// boolean flag: boolean true, a non-zero number, or the strings
// "true"/"True".
func Truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case int:
		return val != 0
	case float64:
		return val != 0
	case string:
		return val == "true" || val == "True"
	default:
		return false
	}
}
