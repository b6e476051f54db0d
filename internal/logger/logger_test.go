package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_StdoutOutputWritesToStdoutSink(t *testing.T) {
	var buf bytes.Buffer
	orig := stdout
	stdout = zapcore.AddSync(&buf)
	defer func() { stdout = orig }()

	lg := newLogger(&Config{Level: "info", Format: "json", Output: "stdout"})
	lg.Info("sink check")
	require.NoError(t, lg.Sync())

	assert.Contains(t, buf.String(), "sink check")
}

func TestNewLogger_FileOnlyOutputSkipsStdoutSink(t *testing.T) {
	var buf bytes.Buffer
	orig := stdout
	stdout = zapcore.AddSync(&buf)
	defer func() { stdout = orig }()

	lg := newLogger(&Config{Level: "info", Format: "json", Output: "file", FilePath: t.TempDir() + "/launcher.log"})
	lg.Info("sink check")
	require.NoError(t, lg.Sync())

	assert.Empty(t, buf.String())
}
