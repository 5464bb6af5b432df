package logger

import (
	"testing"

	"github.com/aleister1102/visualreg/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultConfig(t *testing.T) {
	logger, err := New(config.NewDefaultLogConfig())
	require.NoError(t, err)

	logger.Info().Msg("logger smoke test")
}

func TestLogLevelParser(t *testing.T) {
	parser := NewLogLevelParser()

	level, err := parser.ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	_, err = parser.ParseLevel("shout")
	assert.Error(t, err)
}

func TestLogFormatParser(t *testing.T) {
	parser := NewLogFormatParser()

	assert.Equal(t, FormatJSON, parser.ParseFormat("json"))
	assert.Equal(t, FormatText, parser.ParseFormat("TEXT"))
	assert.Equal(t, FormatConsole, parser.ParseFormat("unknown"))
}

func TestConfigConverter_Fallbacks(t *testing.T) {
	converter := NewConfigConverter()

	cfg, err := converter.ConvertConfig(config.LogConfig{LogLevel: "bogus", LogFormat: "json"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, config.DefaultMaxLogSizeMB, cfg.MaxSizeMB)
	assert.False(t, cfg.EnableFile)
}

func TestDefaultLoggerConfig_SingleSourcedDefaults(t *testing.T) {
	cfg := DefaultLoggerConfig()

	expectedLevel, err := zerolog.ParseLevel(config.DefaultLogLevel)
	require.NoError(t, err)
	assert.Equal(t, expectedLevel, cfg.Level)
	assert.Equal(t, config.DefaultLogFormat, cfg.Format.String())
	assert.Equal(t, config.DefaultMaxLogSizeMB, cfg.MaxSizeMB)
	assert.Equal(t, config.DefaultMaxLogBackups, cfg.MaxBackups)
	assert.Equal(t, config.DefaultLogFile != "", cfg.EnableFile)
}
