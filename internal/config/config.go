package config

import "time"

// History backends.
const (
	HistoryFile   = "file"
	HistorySQLite = "sqlite"
	HistoryNone   = "none"
)

// Config holds server configuration values.
type Config struct {
	TCPAddr           string        `mapstructure:"tcp_addr" yaml:"tcp_addr"`
	HTTPAddr          string        `mapstructure:"http_addr" yaml:"http_addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	HistoryBackend    string        `mapstructure:"history_backend" yaml:"history_backend"`
	HistoryDir        string        `mapstructure:"history_dir" yaml:"history_dir"`
	HistoryDBPath     string        `mapstructure:"history_db_path" yaml:"history_db_path"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		TCPAddr:           ":8000",
		HTTPAddr:          ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		LogLevel:          "info",
		ShutdownTimeout:   5 * time.Second,
		HistoryBackend:    HistoryFile,
		HistoryDir:        "history",
		HistoryDBPath:     "history.db",
	}
}
