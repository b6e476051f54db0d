package confdoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBaseResolver_NoBaseKey(t *testing.T) {
	doc := Document{"a": 1}

	resolved, err := NewBaseResolver(NewMergoMerger()).Resolve(doc, "config.yaml")

	require.NoError(t, err)
	assert.Equal(t, doc, resolved)
}

func TestBaseResolver_CwdRelative(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), "market: csi300\nbenchmark: SH000300\n")
	configPath := filepath.Join(dir, "configs", "child.yaml")
	writeFile(t, configPath, "unused: true\n")
	chdir(t, dir)

	doc := Document{BaseConfigKey: "base.yaml", "market": "csi500"}
	resolved, err := NewBaseResolver(NewMergoMerger()).Resolve(doc, configPath)

	require.NoError(t, err)
	assert.Equal(t, "csi500", resolved["market"])
	assert.Equal(t, "SH000300", resolved["benchmark"])
}

func TestBaseResolver_FallbackNextToConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "configs", "child.yaml")
	writeFile(t, configPath, "unused: true\n")
	writeFile(t, filepath.Join(dir, "configs", "base.yaml"), "market: csi300\n")
	// cwd has no base.yaml, so resolution must fall back to the
	// directory containing the child config.
	chdir(t, t.TempDir())

	doc := Document{BaseConfigKey: "base.yaml"}
	resolved, err := NewBaseResolver(NewMergoMerger()).Resolve(doc, configPath)

	require.NoError(t, err)
	assert.Equal(t, "csi300", resolved["market"])
}

func TestBaseResolver_NotFound(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "configs", "child.yaml")
	writeFile(t, configPath, "unused: true\n")
	chdir(t, t.TempDir())

	doc := Document{BaseConfigKey: "base.yaml"}
	_, err := NewBaseResolver(NewMergoMerger()).Resolve(doc, configPath)

	require.Error(t, err)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "base.yaml", notFound.Path)
	require.Len(t, notFound.Tried, 2)
	assert.Contains(t, err.Error(), "base.yaml")
	assert.Contains(t, err.Error(), filepath.Join(dir, "configs", "base.yaml"))
}

func TestBaseResolver_OneLevelOnly(t *testing.T) {
	dir := t.TempDir()
	// The base itself names another base; that second level must not
	// be resolved.
	writeFile(t, filepath.Join(dir, "base.yaml"), "BASE_CONFIG_PATH: grandparent.yaml\nmarket: csi300\n")
	writeFile(t, filepath.Join(dir, "grandparent.yaml"), "region: us\n")
	configPath := filepath.Join(dir, "child.yaml")
	writeFile(t, configPath, "unused: true\n")
	chdir(t, dir)

	doc := Document{BaseConfigKey: "base.yaml"}
	resolved, err := NewBaseResolver(NewMergoMerger()).Resolve(doc, configPath)

	require.NoError(t, err)
	assert.Equal(t, "csi300", resolved["market"])
	assert.NotContains(t, resolved, "region")
}

func TestBaseResolver_BaseNotRendered(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LAUNCHER_BASE_VAR", "expanded")
	// Placeholders in the base file stay literal: templating only
	// applies to the entry config.
	writeFile(t, filepath.Join(dir, "base.yaml"), "value: '{{ LAUNCHER_BASE_VAR }}'\n")
	configPath := filepath.Join(dir, "child.yaml")
	writeFile(t, configPath, "unused: true\n")
	chdir(t, dir)

	doc := Document{BaseConfigKey: "base.yaml"}
	resolved, err := NewBaseResolver(NewMergoMerger()).Resolve(doc, configPath)

	require.NoError(t, err)
	assert.Equal(t, "{{ LAUNCHER_BASE_VAR }}", resolved["value"])
}
