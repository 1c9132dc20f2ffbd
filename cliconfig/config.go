// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

// Package cliconfig loads shparse's CLI configuration from a layered source
// (defaults, an optional config file, then command-line flags) and
// validates it against a generated JSON Schema before use.
package cliconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/invopop/jsonschema"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/pflag"

	"github.com/lucidshell/posixsh/internal/xdg"
)

// dialectSpecVersion is the version of the dialect grammar this binary
// implements, checked against any @<constraint> suffix on the configured
// dialect. Bump when the grammar gains extensions a config file might
// want to require.
var dialectSpecVersion = semver.MustParse("1.0.0")

// Config is shparse's CLI configuration, loaded from (in ascending
// precedence) built-in defaults, an optional YAML config file, and
// command-line flags.
type Config struct {
	// Dialect names the grammar a config is written for: "posix" or
	// "posix+bash". The value is validated but not passed to the lexer or
	// parser: both names parse with the same grammar, and bash extensions
	// such as [[ ]] are not recognized. An optional
	// @<semver constraint> suffix (e.g. "posix+bash@>=1.0") pins the
	// grammar version the config requires; loading fails when this binary
	// does not satisfy it.
	Dialect string `koanf:"dialect" json:"dialect" jsonschema:"required,pattern=^(posix|posix\\+bash)(@.+)?$"`

	// Output selects the result encoding: "json" (default) or "text" for
	// a human-readable tree dump.
	Output string `koanf:"output" json:"output" jsonschema:"required,enum=json,enum=text"`

	// Exclude lists glob patterns excluded when parsing a directory.
	Exclude []string `koanf:"exclude" json:"exclude,omitempty"`

	// LogFormat selects obslog's output encoding: "json" or "text".
	LogFormat string `koanf:"log_format" json:"log_format,omitempty" jsonschema:"enum=json,enum=text"`

	// PluginPath is the executable path of an external builder plugin to
	// load in place of the built-in ast.DefaultBuilder. Empty disables
	// plugin loading.
	PluginPath string `koanf:"plugin_path" json:"plugin_path,omitempty"`
}

// defaults returns the built-in configuration layer.
func defaults() map[string]any {
	return map[string]any{
		"dialect":    "posix",
		"output":     "json",
		"log_format": "json",
	}
}

// ResolvePath returns explicitPath if set, otherwise the XDG default config
// file path if it exists on disk, otherwise "" (no config file to load).
func ResolvePath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	def := xdg.ConfigFile()
	if _, err := os.Stat(def); err == nil {
		return def
	}
	return ""
}

// Load assembles a Config from defaults, an optional YAML file at path
// (skipped if path is empty; a path naming a missing file is an error),
// and any flags set on fs, then validates
// the result against the generated schema.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, oops.In("cliconfig").Hint("failed to load defaults").Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.In("cliconfig").With("path", path).Hint("failed to load config file").Wrap(err)
		}
	}

	if fs != nil {
		// Flag names use dashes (--log-format) while config keys use
		// underscores, so the flag provider maps names before merging.
		p := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
		})
		if err := k.Load(p, nil); err != nil {
			return nil, oops.In("cliconfig").Hint("failed to load flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.In("cliconfig").Hint("failed to unmarshal config").Wrap(err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against the generated JSON Schema and against
// dialectSpecVersion's supported range.
func Validate(cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return oops.In("cliconfig").Hint("failed to marshal config").Wrap(err)
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err != nil {
		return oops.In("cliconfig").Wrap(err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return oops.In("cliconfig").Hint("failed to compile schema").Wrap(err)
	}

	if err := sch.Validate(jsonData); err != nil {
		return oops.In("cliconfig").Hint("config failed schema validation").Wrap(err)
	}

	if err := dialectSupported(cfg.Dialect); err != nil {
		return oops.In("cliconfig").With("dialect", cfg.Dialect).Wrap(err)
	}

	return nil
}

// dialectSupported checks the dialect name and, for the "name@constraint"
// form, that dialectSpecVersion satisfies the requested constraint.
func dialectSupported(dialect string) error {
	name, constraint, hasConstraint := strings.Cut(dialect, "@")
	if name != "posix" && name != "posix+bash" {
		return fmt.Errorf("cliconfig: unknown dialect %q", name)
	}
	if !hasConstraint {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("cliconfig: bad dialect constraint %q: %w", constraint, err)
	}
	if !c.Check(dialectSpecVersion) {
		return fmt.Errorf("cliconfig: dialect %s requires grammar %s, this build implements %s",
			name, constraint, dialectSpecVersion)
	}
	return nil
}

// GenerateSchema generates a JSON Schema document for Config, used by the
// gen-schema command and to compile the validator compiledSchema uses.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{DoNotReference: true}
	schema := r.Reflect(&Config{})
	schema.Title = "shparse configuration"
	schema.Description = "Schema for shparse's config file and flag layer"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.In("cliconfig").Hint("failed to marshal schema").Wrap(err)
	}
	return append(data, '\n'), nil
}

var cachedSchema *jschema.Schema

func compiledSchema() (*jschema.Schema, error) {
	if cachedSchema != nil {
		return cachedSchema, nil
	}

	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, oops.In("cliconfig").Wrap(err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("config.schema.json", schemaData); err != nil {
		return nil, oops.In("cliconfig").Wrap(err)
	}

	sch, err := c.Compile("config.schema.json")
	if err != nil {
		return nil, oops.In("cliconfig").Wrap(err)
	}

	cachedSchema = sch
	return sch, nil
}
