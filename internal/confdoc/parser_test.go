package confdoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc, err := Parse([]byte("a: 1\nb:\n  c: two\n"))

	require.NoError(t, err)
	assert.Equal(t, 1, doc["a"])
	assert.Equal(t, map[string]any{"c": "two"}, doc["b"])
}

func TestParse_NestedMappingsArePlainMaps(t *testing.T) {
	doc, err := Parse([]byte("task:\n  model:\n    kwargs:\n      lr: 0.01\n"))

	require.NoError(t, err)
	task, ok := doc["task"].(map[string]any)
	require.True(t, ok, "nested mapping is %T, want map[string]any", doc["task"])
	model, ok := task["model"].(map[string]any)
	require.True(t, ok, "nested mapping is %T, want map[string]any", task["model"])
	_, ok = model["kwargs"].(map[string]any)
	require.True(t, ok, "nested mapping is %T, want map[string]any", model["kwargs"])
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte(""))

	// An empty stream is a decode error in yaml.v3; the pipeline never
	// feeds an empty config forward.
	require.Error(t, err)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("a: 1\n  b: [unclosed\n"))

	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Greater(t, parseErr.Line, 0)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x: 7\n"), 0o644))

	doc, err := ParseFile(path)

	require.NoError(t, err)
	assert.Equal(t, 7, doc["x"])
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "failed to read file")
}
