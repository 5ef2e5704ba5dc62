// Package config loads the temscript command configuration from defaults,
// an optional YAML file, command line flags and TEMSCRIPT_ environment
// variables, in that order of precedence.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/temscript/server"
)

// Backends.
const (
	BackendCOM  = "com"
	BackendMock = "mock"
)

const EnvPrefix = "TEMSCRIPT_"

type Config struct {
	Backend   string    `koanf:"backend"`
	Server    Server    `koanf:"server"`
	Log       Log       `koanf:"log"`
	Telemetry Telemetry `koanf:"telemetry"`
}

type Server struct {
	Host                  string `koanf:"host"`
	Port                  int    `koanf:"port"`
	AllowColumnValvesOpen bool   `koanf:"allow_column_valves_open"`
	GzipMinSize           int    `koanf:"gzip_min_size"`
}

type Log struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

type Telemetry struct {
	Tracing bool `koanf:"tracing"`
	Metrics bool `koanf:"metrics"`
}

func defaults() map[string]any {
	return map[string]any{
		"backend":                         BackendCOM,
		"server.host":                     "",
		"server.port":                     8080,
		"server.allow_column_valves_open": true,
		"server.gzip_min_size":            256,
		"log.level":                       "info",
		"log.development":                 false,
		"telemetry.tracing":               false,
		"telemetry.metrics":               false,
	}
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"backend":                  "backend",
	"host":                     "server.host",
	"port":                     "server.port",
	"allow-column-valves-open": "server.allow_column_valves_open",
	"gzip-min-size":            "server.gzip_min_size",
	"log-level":                "log.level",
	"log-development":          "log.development",
	"tracing":                  "telemetry.tracing",
	"metrics":                  "telemetry.metrics",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := defaults()
	fs.String("config", "", "path to a YAML configuration file")
	fs.String("backend", d["backend"].(string), `instrument backend, "com" or "mock"`)
	fs.String("host", d["server.host"].(string), "address to listen on")
	fs.Int("port", d["server.port"].(int), "port to listen on")
	fs.Bool("allow-column-valves-open", d["server.allow_column_valves_open"].(bool), "allow clients to open the column valves")
	fs.Int("gzip-min-size", d["server.gzip_min_size"].(int), "compress responses larger than this, -1 disables")
	fs.String("log-level", d["log.level"].(string), "debug, info, warn or error")
	fs.Bool("log-development", d["log.development"].(bool), "human readable development logging")
	fs.Bool("tracing", d["telemetry.tracing"].(bool), "export traces to stderr")
	fs.Bool("metrics", d["telemetry.metrics"].(bool), "export metrics to stderr")
}

// SearchPaths lists the files tried when no file is given explicitly.
func SearchPaths() []string {
	paths := []string{"temscript.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "temscript", "config.yaml"))
	}
	return paths
}

// Load builds the configuration. An explicit path must exist; without one
// the first existing SearchPaths entry is used. flags may be nil.
func Load(fs afero.Fs, path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	if path == "" {
		for _, p := range SearchPaths() {
			if ok, _ := afero.Exists(fs, p); ok {
				path = p
				break
			}
		}
	}
	if path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", path, err)
		}
		if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error parsing config %s: %w", path, err)
		}
	}

	if flags != nil {
		// Without a koanf instance only flags set on the command line are
		// read, so flag defaults do not mask the file.
		cb := func(key, value string) (string, any) {
			return flagKeys[key], value
		}
		if err := k.Load(posflag.ProviderWithValue(flags, ".", nil, cb), nil); err != nil {
			return nil, fmt.Errorf("error loading flags: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// envKey maps TEMSCRIPT_SERVER_GZIP_MIN_SIZE to server.gzip_min_size.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, rest, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	switch section {
	case "server", "log", "telemetry":
		return section + "." + rest
	}
	return s
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendCOM, BackendMock:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// NewLogger builds the process logger.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// ServerConfig derives the HTTP facade configuration. The OTel providers
// are left to the globals installed by the telemetry package.
func (c *Config) ServerConfig() server.Config {
	sc := server.DefaultConfig()
	sc.AllowColumnValvesOpen = c.Server.AllowColumnValvesOpen
	sc.GzipMinSize = c.Server.GzipMinSize
	sc.Tracing = c.Telemetry.Tracing
	sc.Metrics = c.Telemetry.Metrics
	return sc
}
