// Package config loads domundo engine options from YAML configuration files.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Options mirrors domundo.Options for file-based configuration.
type Options struct {
	// NoMutationObserver forces the snapshot-diff observer even when a live
	// observer is available.
	NoMutationObserver bool `yaml:"no_mutation_observer"`

	// MaxCombineChars stops typing coalescing once an entry's text has
	// reached this many characters (only the existing entry's length is
	// checked).
	MaxCombineChars int `yaml:"max_combine_chars"`

	// MaxHistory bounds the number of retained change-sets.
	MaxHistory int `yaml:"max_history"`

	// Server configures the optional HTTP command entrypoint.
	Server ServerOptions `yaml:"server"`
}

// ServerOptions configures cmd/domundo-server.
type ServerOptions struct {
	// Addr is the HTTP listen address for domundo-server.
	Addr string `yaml:"addr"`

	// JWTSecretEnv names the environment variable holding the HMAC secret
	// used to validate bearer tokens. Never stored inline in the file.
	JWTSecretEnv string `yaml:"jwt_secret_env"`
}

func (o *Options) applyDefaults() {
	if o.MaxCombineChars <= 0 {
		o.MaxCombineChars = 20
	}
	if o.MaxHistory <= 0 {
		o.MaxHistory = 1000
	}
	if o.Server.Addr == "" {
		o.Server.Addr = ":8085"
	}
	if o.Server.JWTSecretEnv == "" {
		o.Server.JWTSecretEnv = "DOMUNDO_SESSION_SECRET"
	}
}

// Default returns an Options value with every field at its default,
// for callers that have no YAML file to load (e.g. a config flag left
// unset).
func Default() *Options {
	opts := &Options{}
	opts.applyDefaults()
	return opts
}

// LoadFile reads a YAML configuration file and applies defaults for any
// zero-valued field, the way domwatch's internal config loader does.
func LoadFile(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, err
	}

	opts.applyDefaults()
	return &opts, nil
}
