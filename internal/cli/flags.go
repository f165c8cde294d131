package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"composegen/internal/compose"
	"composegen/internal/config"
	"composegen/internal/registry"
)

// runFlags are the generation flags shared by generate, validate and render.
type runFlags struct {
	cluster       string
	images        string
	outDir        string
	basePort      int
	containerPort int
	restart       string
	otelEndpoint  string
	otelProtocol  string
	secretName    string
	secretFile    string
	secretEnv     string
	noSecret      bool
	hosts         []string
	allowMissing  bool
}

func (f *runFlags) register(cmd *cobra.Command, withOutDir bool) {
	fl := cmd.Flags()
	fl.StringVar(&f.cluster, "cluster", "", "Cluster description file, host -> selector -> model (JSON or YAML)")
	fl.StringVar(&f.images, "images", "", "Image catalog file, model -> image (YAML or JSON)")
	if withOutDir {
		fl.StringVar(&f.outDir, "out-dir", "", "Directory for docker-compose.<host>.yml files (default .)")
	}
	fl.IntVar(&f.basePort, "base-port", 0, fmt.Sprintf("First host port on every host (default %d)", compose.DefaultBasePort))
	fl.IntVar(&f.containerPort, "container-port", 0, fmt.Sprintf("Port the inference service listens on (default %d)", compose.DefaultContainerPort))
	fl.StringVar(&f.restart, "restart", "", "Restart policy (default "+compose.DefaultRestart+")")
	fl.StringVar(&f.otelEndpoint, "otel-endpoint", "", "OTLP collector endpoint; enables telemetry variables")
	fl.StringVar(&f.otelProtocol, "otel-protocol", "", "OTLP protocol (default "+compose.DefaultOTLPProtocol+")")
	fl.StringVar(&f.secretName, "secret-name", "", "Compose secret name (default "+compose.DefaultSecretName+")")
	fl.StringVar(&f.secretFile, "secret-file", "", "Host file backing the secret (default "+compose.DefaultSecretFile+")")
	fl.StringVar(&f.secretEnv, "secret-env", "", "Variable pointing services at the mounted secret (default "+compose.DefaultSecretEnv+")")
	fl.BoolVar(&f.noSecret, "no-secret", false, "Do not emit the credential secret")
	fl.StringSliceVar(&f.hosts, "host", nil, "Only process these hosts (repeatable or comma separated)")
	fl.BoolVar(&f.allowMissing, "allow-missing-images", false, "Exit zero when hosts only skipped models without an image")
}

// overlay applies explicitly set flags on top of c.
func (f *runFlags) overlay(cmd *cobra.Command, c config.Config) config.Config {
	fl := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if fl.Changed(name) {
			*dst = v
		}
	}
	set("cluster", &c.Cluster, f.cluster)
	set("images", &c.Images, f.images)
	set("out-dir", &c.OutDir, f.outDir)
	set("restart", &c.Restart, f.restart)
	set("otel-endpoint", &c.Telemetry.Endpoint, f.otelEndpoint)
	set("otel-protocol", &c.Telemetry.Protocol, f.otelProtocol)
	set("secret-name", &c.Secret.Name, f.secretName)
	set("secret-file", &c.Secret.File, f.secretFile)
	set("secret-env", &c.Secret.Env, f.secretEnv)
	if fl.Changed("base-port") {
		c.BasePort = f.basePort
	}
	if fl.Changed("container-port") {
		c.ContainerPort = f.containerPort
	}
	if fl.Changed("no-secret") {
		off := f.noSecret
		c.Secret.Disabled = &off
	}
	return c
}

// loadConfig resolves run parameters: flag > config file > env > default.
func (a *app) loadConfig(cmd *cobra.Command, f *runFlags) (config.Config, error) {
	cfg, err := config.FromEnv(a.getenv)
	if err != nil {
		return cfg, err
	}
	path := a.cfgFile
	if path == "" {
		path = a.getenv("COMPOSEGEN_CONFIG")
	}
	if path != "" {
		fileCfg, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = cfg.Merge(fileCfg)
	}
	if f != nil {
		cfg = f.overlay(cmd, cfg)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if a.logLevel == "" && cfg.LogLevel != "" {
		if err := a.setLogger(cfg.LogLevel); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// loadInputs reads the cluster description and image catalog named by cfg.
func loadInputs(cfg config.Config) (compose.ClusterSpec, compose.ImageCatalog, error) {
	if cfg.Cluster == "" {
		return nil, nil, fmt.Errorf("no cluster description given (--cluster or COMPOSEGEN_CLUSTER)")
	}
	if cfg.Images == "" {
		return nil, nil, fmt.Errorf("no image catalog given (--images or COMPOSEGEN_IMAGES)")
	}
	spec, err := registry.LoadCluster(cfg.Cluster)
	if err != nil {
		return nil, nil, err
	}
	images, err := registry.LoadImages(cfg.Images)
	if err != nil {
		return nil, nil, err
	}
	return spec, images, nil
}

// splitCSV splits a comma separated list, trimming blanks and dropping empties.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
