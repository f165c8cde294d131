package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"composegen/internal/compose"
)

// Config holds run parameters for a generation run.
// Zero values mean "unspecified" and are replaced by defaults in WithDefaults.
type Config struct {
	Cluster       string    `json:"cluster" yaml:"cluster" toml:"cluster"`
	Images        string    `json:"images" yaml:"images" toml:"images"`
	OutDir        string    `json:"out_dir" yaml:"out_dir" toml:"out_dir"`
	BasePort      int       `json:"base_port" yaml:"base_port" toml:"base_port"`
	ContainerPort int       `json:"container_port" yaml:"container_port" toml:"container_port"`
	Restart       string    `json:"restart" yaml:"restart" toml:"restart"`
	Telemetry     Telemetry `json:"telemetry" yaml:"telemetry" toml:"telemetry"`
	Secret        Secret    `json:"secret" yaml:"secret" toml:"secret"`
	LogLevel      string    `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Telemetry selects the OTLP collector generated services export to.
type Telemetry struct {
	Endpoint string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	Protocol string `json:"protocol" yaml:"protocol" toml:"protocol"`
}

// Secret describes the credential file mounted into every service.
// Disabled turns the secret off even though File has a default; nil means
// unspecified so a later source can switch it either way.
type Secret struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	File     string `json:"file" yaml:"file" toml:"file"`
	Env      string `json:"env" yaml:"env" toml:"env"`
	Disabled *bool  `json:"disabled" yaml:"disabled" toml:"disabled"`
}

// IsDisabled reports whether the secret was explicitly turned off.
func (s Secret) IsDisabled() bool { return s.Disabled != nil && *s.Disabled }

const (
	DefaultOutDir   = "."
	DefaultLogLevel = "info"
)

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// FromEnv returns a Config populated from COMPOSEGEN_* variables.
// Malformed numbers are reported rather than ignored.
func FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Config{
		Cluster:  getenv("COMPOSEGEN_CLUSTER"),
		Images:   getenv("COMPOSEGEN_IMAGES"),
		OutDir:   getenv("COMPOSEGEN_OUT_DIR"),
		Restart:  getenv("COMPOSEGEN_RESTART"),
		LogLevel: getenv("COMPOSEGEN_LOG_LEVEL"),
		Telemetry: Telemetry{
			Endpoint: getenv("COMPOSEGEN_OTEL_ENDPOINT"),
			Protocol: getenv("COMPOSEGEN_OTEL_PROTOCOL"),
		},
		Secret: Secret{
			Name: getenv("COMPOSEGEN_SECRET_NAME"),
			File: getenv("COMPOSEGEN_SECRET_FILE"),
			Env:  getenv("COMPOSEGEN_SECRET_ENV"),
		},
	}
	if v := getenv("COMPOSEGEN_BASE_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("COMPOSEGEN_BASE_PORT: %w", err)
		}
		cfg.BasePort = n
	}
	if v := getenv("COMPOSEGEN_CONTAINER_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("COMPOSEGEN_CONTAINER_PORT: %w", err)
		}
		cfg.ContainerPort = n
	}
	if v := strings.ToLower(getenv("COMPOSEGEN_SECRET_DISABLED")); v != "" {
		var off bool
		switch v {
		case "yes", "on":
			off = true
		case "no", "off":
		default:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return cfg, fmt.Errorf("COMPOSEGEN_SECRET_DISABLED: %w", err)
			}
			off = b
		}
		cfg.Secret.Disabled = &off
	}
	return cfg, nil
}

// Merge overlays every non-zero field of over onto c. An explicit
// secret.disabled, true or false, always overlays.
func (c Config) Merge(over Config) Config {
	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setStr(&c.Cluster, over.Cluster)
	setStr(&c.Images, over.Images)
	setStr(&c.OutDir, over.OutDir)
	setStr(&c.Restart, over.Restart)
	setStr(&c.LogLevel, over.LogLevel)
	setStr(&c.Telemetry.Endpoint, over.Telemetry.Endpoint)
	setStr(&c.Telemetry.Protocol, over.Telemetry.Protocol)
	setStr(&c.Secret.Name, over.Secret.Name)
	setStr(&c.Secret.File, over.Secret.File)
	setStr(&c.Secret.Env, over.Secret.Env)
	if over.BasePort != 0 {
		c.BasePort = over.BasePort
	}
	if over.ContainerPort != 0 {
		c.ContainerPort = over.ContainerPort
	}
	if over.Secret.Disabled != nil {
		v := *over.Secret.Disabled
		c.Secret.Disabled = &v
	}
	return c
}

// WithDefaults fills unspecified fields.
func (c Config) WithDefaults() Config {
	if c.OutDir == "" {
		c.OutDir = DefaultOutDir
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.BasePort == 0 {
		c.BasePort = compose.DefaultBasePort
	}
	if c.ContainerPort == 0 {
		c.ContainerPort = compose.DefaultContainerPort
	}
	if c.Restart == "" {
		c.Restart = compose.DefaultRestart
	}
	if c.Telemetry.Protocol == "" {
		c.Telemetry.Protocol = compose.DefaultOTLPProtocol
	}
	if c.Secret.Name == "" {
		c.Secret.Name = compose.DefaultSecretName
	}
	if c.Secret.File == "" && !c.Secret.IsDisabled() {
		c.Secret.File = compose.DefaultSecretFile
	}
	if c.Secret.Env == "" {
		c.Secret.Env = compose.DefaultSecretEnv
	}
	return c
}

// Validate checks ranges the generator cannot recover from.
func (c Config) Validate() error {
	if c.BasePort < 1 || c.BasePort > 65535 {
		return fmt.Errorf("base_port %d out of range 1-65535", c.BasePort)
	}
	if c.ContainerPort < 1 || c.ContainerPort > 65535 {
		return fmt.Errorf("container_port %d out of range 1-65535", c.ContainerPort)
	}
	return nil
}

// ComposeOptions converts the run parameters into assembler options.
func (c Config) ComposeOptions() compose.Options {
	opts := compose.Options{
		BasePort:      c.BasePort,
		ContainerPort: c.ContainerPort,
		Restart:       c.Restart,
		Telemetry:     compose.Telemetry{Endpoint: c.Telemetry.Endpoint, Protocol: c.Telemetry.Protocol},
		Secret:        compose.SecretRef{Name: c.Secret.Name, File: c.Secret.File, Env: c.Secret.Env},
	}
	if c.Secret.IsDisabled() {
		opts.Secret.File = ""
	}
	return opts.WithDefaults()
}
