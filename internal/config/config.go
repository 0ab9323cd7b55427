// Package config provides configuration structures and defaults for caskdb.
package config

import (
	"os"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
)

const defaultFileMode = os.FileMode(0644)

// Config holds the tunable parameters for a caskdb store.
type Config struct {
	// Logger receives structured events from the store. Defaults to a
	// nop logger.
	Logger log.Logger
	// Registerer collects the store's metrics. Defaults to a private
	// registry so unconfigured stores never collide on the global one.
	Registerer prometheus.Registerer
	// FileMode is the permission used when the log file is created.
	FileMode os.FileMode
	// SyncOnSet forces an fsync after every append. Off by default:
	// appended data may sit in OS buffers until Sync or Close.
	SyncOnSet bool
}

// DefaultConfig returns a Config struct populated with default values.
func DefaultConfig() *Config {
	return &Config{
		Logger:     log.NewNopLogger(),
		Registerer: prometheus.NewRegistry(),
		FileMode:   defaultFileMode,
	}
}

// FillDefaults sets any zero-value fields in the Config to their default values.
func (c *Config) FillDefaults() {
	if c.Logger == nil {
		c.Logger = log.NewNopLogger()
	}
	if c.Registerer == nil {
		c.Registerer = prometheus.NewRegistry()
	}
	if c.FileMode == 0 {
		c.FileMode = defaultFileMode
	}
}
