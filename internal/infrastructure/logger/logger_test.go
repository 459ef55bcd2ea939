package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// jsonBufferLogger returns a JSON logger writing into the returned buffer,
// for asserting on the exact wire shape of a log line.
func jsonBufferLogger(level zapcore.Level) (*zap.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			MessageKey:     "msg",
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
		}),
		zapcore.AddSync(&buf),
		level,
	)
	return zap.New(core), &buf
}

func TestConfigs(t *testing.T) {
	dev := DefaultConfig()
	assert.Equal(t, "info", dev.Level)
	assert.Equal(t, "console", dev.Format)
	assert.Equal(t, "stdout", dev.Output)
	assert.NotEmpty(t, dev.TimeFormat)

	prod := ProductionConfig()
	assert.Equal(t, "info", prod.Level)
	assert.Equal(t, "json", prod.Format)
	assert.Equal(t, "stdout", prod.Output)
	assert.NotEmpty(t, prod.TimeFormat)
}

func TestNew(t *testing.T) {
	configs := map[string]*Config{
		"default config":    DefaultConfig(),
		"production config": ProductionConfig(),
		"debug console": {
			Level:      "debug",
			Format:     "console",
			Output:     "stdout",
			TimeFormat: "2006-01-02T15:04:05Z07:00",
		},
		"info json": {
			Level:      "info",
			Format:     "json",
			Output:     "stdout",
			TimeFormat: "2006-01-02T15:04:05Z07:00",
		},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			logger, err := New(cfg)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production", "staging"} {
		t.Run(env, func(t *testing.T) {
			logger, err := NewForEnvironment(env)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestParseLevel(t *testing.T) {
	expected := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"unknown": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}

	for level, want := range expected {
		assert.Equal(t, want, parseLevel(level), "level %q", level)
	}
}

func TestWithAndNamed(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	child := With(logger, zap.String("component", "dashboard"))
	assert.NotNil(t, child)
	assert.NotEqual(t, logger, child)

	named := Named(logger, "notification")
	assert.NotNil(t, named)
	assert.NotEqual(t, logger, named)
}

func TestSync(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	// stdout may reject Sync on some platforms; just make sure it doesn't panic
	_ = Sync(logger)
}

func TestCreateWriter(t *testing.T) {
	for _, output := range []string{"stdout", "stderr", "STDOUT"} {
		t.Run(output, func(t *testing.T) {
			assert.NotNil(t, createWriter(output))
		})
	}

	t.Run("file", func(t *testing.T) {
		path := t.TempDir() + "/pulse.log"
		assert.NotNil(t, createWriter(path))
		_, err := os.Stat(path)
		assert.NoError(t, err)
	})
}

func TestCreateEncoder(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		t.Run(format, func(t *testing.T) {
			encoder := createEncoder(&Config{
				Level:      "info",
				Format:     format,
				Output:     "stdout",
				TimeFormat: "2006-01-02T15:04:05Z07:00",
			})
			assert.NotNil(t, encoder)
		})
	}
}

func TestLogOutput(t *testing.T) {
	logger, buf := jsonBufferLogger(zapcore.InfoLevel)

	logger.Info("quote received", zap.String("quoteId", "q-123"))

	var output map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	assert.Equal(t, "quote received", output["msg"])
	assert.Equal(t, "info", output["level"])
	assert.Equal(t, "q-123", output["quoteId"])
}

func TestLogLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	logger.Debug("debug message")
	assert.Equal(t, 0, logs.Len(), "debug should be filtered at info level")

	logger.Info("info message")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "info message", logs.All()[0].Message)

	core, logs = observer.New(zapcore.DebugLevel)
	logger = zap.New(core)

	logger.Debug("debug message")
	assert.Equal(t, 1, logs.FilterMessage("debug message").Len())
}
