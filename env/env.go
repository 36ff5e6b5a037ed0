//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Package env implements the runtime environment for the two-party
// computation.
package env

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/markkurossi/gcpsi/p2p"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// Default configuration values.
const (
	DefaultPort        = 8100
	DefaultOTBatchSize = 15000000
)

// Config defines the system configuration. Config must not be
// modified after being passed to the protocol roles. The Rand source
// is owned by the configuration's user and must not be shared between
// concurrent protocol runs.
type Config struct {
	Rand        io.Reader   `yaml:"-"`
	Logger      *zap.Logger `yaml:"-"`
	Network     Network     `yaml:"network"`
	OTBatchSize int         `yaml:"ot_batch_size"`
	Verbose     bool        `yaml:"verbose"`
	Debug       bool        `yaml:"debug"`
}

// Network defines the transport configuration.
type Network struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ConnectRetries int           `yaml:"connect_retries"`
	RetryDelay     time.Duration `yaml:"retry_delay"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Network: Network{
			Host:           "127.0.0.1",
			Port:           DefaultPort,
			ConnectRetries: p2p.DefaultConnectRetries,
			RetryDelay:     p2p.DefaultRetryDelay,
			ConnectTimeout: p2p.DefaultConnectTimeout,
		},
		OTBatchSize: DefaultOTBatchSize,
	}
}

// LoadConfig loads the YAML configuration file. Settings missing from
// the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	config := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if config.OTBatchSize <= 0 {
		return nil, errors.Errorf("invalid ot_batch_size %d",
			config.OTBatchSize)
	}
	if config.Network.Port <= 0 || config.Network.Port > 0xffff {
		return nil, errors.Errorf("invalid port %d", config.Network.Port)
	}
	return config, nil
}

// GetRandom returns the source of entropy for garbling, OT, and other
// cryptography operations.
func (config *Config) GetRandom() io.Reader {
	if config.Rand != nil {
		return config.Rand
	}
	return rand.Reader
}

// GetLogger returns the configured logger or a no-op logger.
func (config *Config) GetLogger() *zap.Logger {
	if config.Logger != nil {
		return config.Logger
	}
	return zap.NewNop()
}

// GetOTBatchSize returns the maximum number of OTs in one batch.
func (config *Config) GetOTBatchSize() int {
	if config.OTBatchSize > 0 {
		return config.OTBatchSize
	}
	return DefaultOTBatchSize
}

// Address returns the network address for the configured host and
// port.
func (config *Config) Address() string {
	return fmt.Sprintf("%s:%d", config.Network.Host, config.Network.Port)
}

// Dialer creates a dialer using the configured retry parameters.
func (config *Config) Dialer() *p2p.Dialer {
	d := p2p.NewDialer(config.GetLogger())
	if config.Network.ConnectRetries > 0 {
		d.Retries = config.Network.ConnectRetries
	}
	if config.Network.RetryDelay > 0 {
		d.Delay = config.Network.RetryDelay
	}
	if config.Network.ConnectTimeout > 0 {
		d.Timeout = config.Network.ConnectTimeout
	}
	return d
}

// NewLogger creates a development logger if debug is set and a
// production logger otherwise.
func NewLogger(debug bool) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, errors.Wrap(err, "create logger")
	}
	return logger, nil
}
