package config

import (
	"os"
	"strconv"

	"github.com/ekisa-team/leafsense/internal/envvar"
	"github.com/ekisa-team/leafsense/internal/xfs"
)

// Config holds the main configuration for the application.
type Config struct {
	Version string       `json:"version" yaml:"version"`
	Server  ServerConfig `json:"server"  yaml:"server"`
	Model   ModelConfig  `json:"model"   yaml:"model"`
	Upload  UploadConfig `json:"upload"  yaml:"upload"`
}

// ServerConfig holds the HTTP listener configuration.
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// ModelConfig locates the model artifacts on disk.
type ModelConfig struct {
	// Dir contains the manifest and its weight shards.
	Dir string `json:"dir" yaml:"dir"`

	// Manifest is the manifest file name inside Dir.
	Manifest string `json:"manifest" yaml:"manifest"`

	// Labels is the path of the class-index to label mapping.
	Labels string `json:"labels" yaml:"labels"`

	// Remedies is the path of the optional remedy catalog.
	Remedies string `json:"remedies,omitempty" yaml:"remedies,omitempty"`
}

// UploadConfig holds upload handling configuration.
type UploadConfig struct {
	Dir      string `json:"dir"       yaml:"dir"`
	MaxBytes int64  `json:"max_bytes" yaml:"max_bytes"`
}

// ResolveModelDir returns the model artifact directory.
// Precedence:
// 1. LEAFSENSE_MODEL_DIR environment variable.
// 2. Model.Dir field in the config.
func (c *Config) ResolveModelDir() string {
	if p := os.Getenv(envvar.LeafsenseModelDir); p != "" {
		return xfs.ExpandTilde(p)
	}
	return xfs.ExpandTilde(c.Model.Dir)
}

// ResolveUploadDir returns the upload deposit directory.
func (c *Config) ResolveUploadDir() string {
	if p := os.Getenv(envvar.LeafsenseUploadDir); p != "" {
		return xfs.ExpandTilde(p)
	}
	return xfs.ExpandTilde(c.Upload.Dir)
}

// ResolveHTTPPort returns the HTTP port, preferring the environment
// variable over the config value.
func (c *Config) ResolveHTTPPort() int {
	if p := os.Getenv(envvar.LeafsenseServerHTTPPort); p != "" {
		if port, err := strconv.Atoi(p); err == nil {
			return port
		}
	}
	if c.Server.Port != 0 {
		return c.Server.Port
	}
	return DefaultHTTPPort()
}
