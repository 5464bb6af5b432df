package logger

import (
	"github.com/aleister1102/visualreg/internal/config"
	"github.com/rs/zerolog"
)

// LoggerConfig is the resolved logger setup derived from config.LogConfig.
// Rotation fields apply only when file output is enabled.
type LoggerConfig struct {
	Level         zerolog.Level
	Format        LogFormat
	EnableConsole bool
	EnableFile    bool
	FilePath      string
	MaxSizeMB     int
	MaxBackups    int
}

// LogFormat selects the encoding of emitted log records
type LogFormat int

const (
	FormatJSON LogFormat = iota
	FormatConsole
	FormatText
)

// String returns string representation of LogFormat
func (lf LogFormat) String() string {
	switch lf {
	case FormatJSON:
		return "json"
	case FormatConsole:
		return "console"
	case FormatText:
		return "text"
	default:
		return "console"
	}
}

// DefaultLoggerConfig resolves the engine-wide logging defaults. Values come
// from internal/config constants so the defaults are declared once.
func DefaultLoggerConfig() LoggerConfig {
	level, err := NewLogLevelParser().ParseLevel(config.DefaultLogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return LoggerConfig{
		Level:         level,
		Format:        NewLogFormatParser().ParseFormat(config.DefaultLogFormat),
		EnableConsole: true,
		EnableFile:    config.DefaultLogFile != "",
		FilePath:      config.DefaultLogFile,
		MaxSizeMB:     config.DefaultMaxLogSizeMB,
		MaxBackups:    config.DefaultMaxLogBackups,
	}
}
