// Package config loads actionviz settings.
//
// Values are layered, highest priority last:
//
//  1. built-in defaults
//  2. actionviz.yaml (or actionviz.yml) in the working directory, or the
//     file named by --config
//  3. ACTIONVIZ_* environment variables (ACTIONVIZ_JS_URL -> js_url)
//  4. command-line flags that were explicitly set (--js-url -> js_url)
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/actionviz/pkg/errors"
	"github.com/matzehuels/actionviz/pkg/render"
	"github.com/matzehuels/actionviz/pkg/render/cytoscape"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ACTIONVIZ_"

// Defaults.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8765
)

// FileNames are searched in the working directory, in order.
var FileNames = []string{"actionviz.yaml", "actionviz.yml"}

// Config holds all settings shared by the commands.
type Config struct {
	// Server
	Host  string `koanf:"host"`
	Port  int    `koanf:"port"`
	Title string `koanf:"title"`
	Watch bool   `koanf:"watch"`
	Open  bool   `koanf:"open"`

	// Rendering
	Layout string `koanf:"layout"`
	Theme  string `koanf:"theme"`
	JSURL  string `koanf:"js_url"`

	// Backends. Empty means the local default (file cache, file store).
	Redis         string `koanf:"redis"`
	Mongo         string `koanf:"mongo"`
	MongoDatabase string `koanf:"mongo_database"`
	CacheDir      string `koanf:"cache_dir"`
	NoCache       bool   `koanf:"no_cache"`

	Verbose bool `koanf:"verbose"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"host":           DefaultHost,
		"port":           DefaultPort,
		"title":          cytoscape.DefaultTitle,
		"watch":          false,
		"open":           false,
		"layout":         render.DefaultLayout,
		"theme":          "",
		"js_url":         cytoscape.DefaultCDN,
		"redis":          "",
		"mongo":          "",
		"mongo_database": "",
		"cache_dir":      "",
		"no_cache":       false,
		"verbose":        false,
	}
}

// Load builds a Config from defaults, the config file, the environment and
// the changed flags in flags (which may be nil).
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	path, err := findConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config file %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile returns explicit if set, else the first of FileNames that
// exists, else "". An explicit file that does not exist is an error.
func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", explicit)
		}
		return explicit, nil
	}
	for _, name := range FileNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}

// Validate checks values that would otherwise fail late, after the server
// has started.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.New(errors.ErrCodeInvalidInput, "port %d out of range", c.Port)
	}
	if err := errors.ValidateTitle(c.Title); err != nil {
		return err
	}
	if err := errors.ValidateURL(c.JSURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "js_url")
	}
	if c.Layout == "" {
		return errors.New(errors.ErrCodeInvalidLayout, "layout cannot be empty")
	}
	return nil
}

// Addr is the listen address host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
