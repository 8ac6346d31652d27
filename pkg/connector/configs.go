package connector

import (
	"fmt"
	"maps"

	"github.com/go-viper/mapstructure/v2"
)

// DefaultDriver is used when a Config leaves Driver empty.
const DefaultDriver = "mysql"

// DefaultCharset is the charset written into MySQL DSNs when none is configured.
const DefaultCharset = "utf8"

// Options holds driver-specific connection flags. Values may be nested maps;
// they are merged key by key with the driver defaults.
type Options map[string]any

// Config describes how to reach one database.
type Config struct {
	// Driver selects the dialect: "mysql", "postgres" or "sqlite".
	//
	// Default: "mysql"
	Driver string `yaml:"driver" mapstructure:"driver" envconfig:"DB_DRIVER"`

	Host string `yaml:"host" mapstructure:"host" envconfig:"DB_HOST"`

	// Port is optional; when empty the DSN carries no port segment and the
	// driver's default port is used.
	Port string `yaml:"port" mapstructure:"port" envconfig:"DB_PORT"`

	DbName string `yaml:"dbname" mapstructure:"dbname" envconfig:"DB_NAME"`

	// Charset defaults to "utf8" for MySQL.
	Charset string `yaml:"charset" mapstructure:"charset" envconfig:"DB_CHARSET"`

	Username string `yaml:"username" mapstructure:"username" envconfig:"DB_USERNAME"`
	Password string `yaml:"password" mapstructure:"password" envconfig:"DB_PASSWORD"`

	// Options are driver-specific flags, deep-merged over the driver defaults.
	Options Options `yaml:"options" mapstructure:"options"`
}

// DefaultConfig returns the built-in configuration callers are merged over.
func DefaultConfig() Config {
	return Config{
		Driver:  DefaultDriver,
		Options: Options{},
	}
}

// Merge returns base with every non-empty field of override applied.
// Options are deep-merged with MergeOptions rather than replaced.
func Merge(base, override Config) Config {
	out := base
	if override.Driver != "" {
		out.Driver = override.Driver
	}
	if override.Host != "" {
		out.Host = override.Host
	}
	if override.Port != "" {
		out.Port = override.Port
	}
	if override.DbName != "" {
		out.DbName = override.DbName
	}
	if override.Charset != "" {
		out.Charset = override.Charset
	}
	if override.Username != "" {
		out.Username = override.Username
	}
	if override.Password != "" {
		out.Password = override.Password
	}
	out.Options = MergeOptions(base.Options, override.Options)
	return out
}

// MergeOptions deep-merges src over dst into a new map. Entries of src win over
// same-named entries of dst; when both sides hold a map the two are merged
// recursively. Neither input is modified.
func MergeOptions(dst, src Options) Options {
	out := make(Options, len(dst)+len(src))
	for k, v := range dst {
		out[k] = cloneValue(v)
	}
	for k, v := range src {
		srcMap, srcIsMap := asMap(v)
		dstMap, dstIsMap := asMap(out[k])
		if srcIsMap && dstIsMap {
			out[k] = map[string]any(MergeOptions(dstMap, srcMap))
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}

func asMap(v any) (Options, bool) {
	switch m := v.(type) {
	case Options:
		return m, true
	case map[string]any:
		return Options(m), true
	default:
		return nil, false
	}
}

func cloneValue(v any) any {
	if m, ok := asMap(v); ok {
		out := make(map[string]any, len(m))
		for k, inner := range m {
			out[k] = cloneValue(inner)
		}
		return out
	}
	return v
}

// FromMap decodes the map form of a configuration, as found in YAML or JSON
// config files:
//
//	cfg, err := connector.FromMap(map[string]any{
//	    "driver":   "mysql",
//	    "host":     "localhost",
//	    "port":     3306,
//	    "dbname":   "app",
//	    "username": "app",
//	    "options":  map[string]any{"timeout": "5s"},
//	})
//
// Scalars are converted weakly (a numeric port becomes a string). Unknown keys
// are rejected.
func FromMap(raw map[string]any) (Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if err := decoder.Decode(maps.Clone(raw)); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return cfg, nil
}

// scalarOptions returns the non-map options rendered as strings.
func scalarOptions(opts Options) map[string]string {
	out := make(map[string]string, len(opts))
	for k, v := range opts {
		if _, isMap := asMap(v); isMap || v == nil {
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}
