// Package config loads fsq settings from defaults, fsq.yaml, FSQ_
// environment variables and command-line flags, in increasing priority.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/roach88/fsq/internal/sqlcheck"
	"github.com/roach88/fsq/pkg/flexsearch"
)

// Defaults.
const (
	DefaultFormat      = "text"
	DefaultDialect     = "flexiblesearch"
	DefaultEngine      = "mysql"
	DefaultCatalog     = "fsq.db"
	DefaultModelSuffix = "Model"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "FSQ_"

// ConfigFiles are the file names searched in the working directory when no
// explicit path is given.
var ConfigFiles = []string{"fsq.yaml", "fsq.yml"}

// Config is the resolved configuration.
type Config struct {
	Format       string `koanf:"format"`
	Verbose      bool   `koanf:"verbose"`
	Dialect      string `koanf:"dialect"`
	Engine       string `koanf:"engine"`
	Catalog      string `koanf:"catalog"`
	ModelSuffix  string `koanf:"model_suffix"`
	PluralTables bool   `koanf:"plural_tables"`

	// File is the config file that was read, empty if none.
	File string `koanf:"-"`
}

// Load resolves configuration. cfgFile may be empty; flags may be nil.
// Only flags the user changed override lower layers.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"format":        DefaultFormat,
		"verbose":       false,
		"dialect":       DefaultDialect,
		"engine":        DefaultEngine,
		"catalog":       DefaultCatalog,
		"model_suffix":  DefaultModelSuffix,
		"plural_tables": false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, err := findConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// FSQ_MODEL_SUFFIX -> model_suffix
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile returns explicit if set, else the first of ConfigFiles
// present in the working directory.
func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}
	for _, name := range ConfigFiles {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if !slices.Contains([]string{"text", "json"}, c.Format) {
		return fmt.Errorf("invalid format %q: must be one of [text json]", c.Format)
	}
	if _, err := flexsearch.DialectByName(c.Dialect); err != nil {
		return err
	}
	if _, err := sqlcheck.ParseEngine(c.Engine); err != nil {
		return err
	}
	return nil
}

// RenderDialect returns the configured dialect.
func (c *Config) RenderDialect() flexsearch.Dialect {
	d, err := flexsearch.DialectByName(c.Dialect)
	if err != nil {
		return flexsearch.FlexibleSearch
	}
	return d
}

// CheckEngine returns the configured SQL check engine.
func (c *Config) CheckEngine() sqlcheck.Engine {
	e, err := sqlcheck.ParseEngine(c.Engine)
	if err != nil {
		return sqlcheck.MySQL
	}
	return e
}

// Convention returns the naming fallback used for types absent from the
// catalog.
func (c *Config) Convention() flexsearch.ConventionResolver {
	return flexsearch.ConventionResolver{Suffix: c.ModelSuffix, Plural: c.PluralTables}
}
