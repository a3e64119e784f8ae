// Package config provides configuration management for the joingraph CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	InputDir  string `koanf:"input_dir"`
	OutputDir string `koanf:"output_dir"`
	Prefix    string `koanf:"prefix"`
	ServePort int    `koanf:"serve_port"`
	Verbose   bool   `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultInputDir  = "input"
	DefaultOutputDir = "output"
	DefaultPrefix    = "joingraph"
	DefaultServePort = 8765
)
