// Package config provides configuration management for the naevtools CLI.
//
// Settings come from four layers, lowest to highest precedence: built-in
// defaults, a naevtools.yaml config file, NAEVTOOLS_-prefixed environment
// variables, and command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	DataDir      string `koanf:"data_dir"`
	Database     string `koanf:"database"`
	OutputFormat string `koanf:"output"`
	Verbose      bool   `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultDataDir  = "dat"
	DefaultDatabase = "naev.db"
	DefaultOutput   = "table"
)
