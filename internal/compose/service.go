package compose

import (
	"fmt"
	"strconv"
	"strings"
)

// Defaults applied when corresponding Options fields are unset.
const (
	DefaultContainerPort = 8000
	DefaultRestart       = "unless-stopped"
	DefaultOTLPProtocol  = "grpc"
	DefaultSecretName    = "hf_token"
	DefaultSecretFile    = "./hf_token.txt"
	DefaultSecretEnv     = "HF_TOKEN_FILE"

	gpuDriver     = "nvidia"
	gpuCapability = "gpu"
	secretsMount  = "/run/secrets/"
)

// Environment variable names read by the inference services.
const (
	EnvModelID           = "MODEL_ID"
	EnvOTLPEndpoint      = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvOTLPProtocol      = "OTEL_EXPORTER_OTLP_PROTOCOL"
	EnvOTelServiceName   = "OTEL_SERVICE_NAME"
	EnvOTelTraces        = "OTEL_TRACES_EXPORTER"
	EnvOTelMetrics       = "OTEL_METRICS_EXPORTER"
	EnvOTelResourceAttrs = "OTEL_RESOURCE_ATTRIBUTES"
	otlpExporter         = "otlp"
)

// Telemetry configures OpenTelemetry export for generated services.
// An empty Endpoint disables telemetry variables entirely.
type Telemetry struct {
	Endpoint string
	Protocol string
}

// Enabled reports whether telemetry variables should be emitted.
func (t Telemetry) Enabled() bool { return strings.TrimSpace(t.Endpoint) != "" }

// SecretRef is the single credential file mounted into every service.
// An empty File disables the secret.
type SecretRef struct {
	Name string
	File string
	Env  string
}

// Enabled reports whether the secret section and mounts should be emitted.
func (s SecretRef) Enabled() bool { return strings.TrimSpace(s.File) != "" }

// MountPath is where the container runtime exposes the secret.
func (s SecretRef) MountPath() string { return secretsMount + s.Name }

// Options are the per-run knobs shared by every host.
type Options struct {
	BasePort      int
	ContainerPort int
	Restart       string
	Telemetry     Telemetry
	Secret        SecretRef
}

// WithDefaults returns a copy of o with zero fields replaced by defaults.
// Secret.File is left alone: empty means "no secret".
func (o Options) WithDefaults() Options {
	if o.BasePort == 0 {
		o.BasePort = DefaultBasePort
	}
	if o.ContainerPort == 0 {
		o.ContainerPort = DefaultContainerPort
	}
	if o.Restart == "" {
		o.Restart = DefaultRestart
	}
	if o.Telemetry.Protocol == "" {
		o.Telemetry.Protocol = DefaultOTLPProtocol
	}
	if o.Secret.Name == "" {
		o.Secret.Name = DefaultSecretName
	}
	if o.Secret.Env == "" {
		o.Secret.Env = DefaultSecretEnv
	}
	return o
}

// DefaultOptions returns Options with every default applied, including the
// default credential file.
func DefaultOptions() Options {
	o := Options{Secret: SecretRef{File: DefaultSecretFile}}
	return o.WithDefaults()
}

// ServiceName derives the compose service name for model on device:
// the last path segment with dots and other unsafe characters mapped to '-',
// suffixed with -gpu<device>. "org/Model-7B" on 2 gives "Model-7B-gpu2".
func ServiceName(model string, device int) (string, error) {
	trimmed := strings.TrimRight(model, "/")
	base := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if base == "" {
		return "", ErrInvalidModel(model)
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String() + "-gpu" + strconv.Itoa(device), nil
}

// ServiceInput carries everything BuildService needs for one descriptor.
type ServiceInput struct {
	Host     string
	Model    string
	Image    string
	Device   int
	HostPort int
}

// BuildService returns the derived name and full descriptor for in.
// opts must already have defaults applied.
func BuildService(in ServiceInput, opts Options) (string, Service, error) {
	name, err := ServiceName(in.Model, in.Device)
	if err != nil {
		return "", Service{}, err
	}
	svc := Service{
		Image:         in.Image,
		ContainerName: name,
		Restart:       opts.Restart,
		Ports:         []string{fmt.Sprintf("%d:%d", in.HostPort, opts.ContainerPort)},
		Deploy: Deploy{Resources: Resources{Reservations: Reservations{Devices: []DeviceRequest{{
			Driver:       gpuDriver,
			DeviceIDs:    []string{strconv.Itoa(in.Device)},
			Capabilities: []string{gpuCapability},
		}}}}},
		Environment: serviceEnv(name, in, opts),
	}
	if opts.Secret.Enabled() {
		svc.Secrets = []string{opts.Secret.Name}
	}
	return name, svc, nil
}

func serviceEnv(name string, in ServiceInput, opts Options) []string {
	env := []string{EnvModelID + "=" + in.Model}
	if opts.Secret.Enabled() {
		env = append(env, opts.Secret.Env+"="+opts.Secret.MountPath())
	}
	if t := opts.Telemetry; t.Enabled() {
		env = append(env,
			EnvOTLPEndpoint+"="+t.Endpoint,
			EnvOTLPProtocol+"="+t.Protocol,
			EnvOTelServiceName+"="+name,
			EnvOTelTraces+"="+otlpExporter,
			EnvOTelMetrics+"="+otlpExporter,
		)
		attrs := "gpu.device=" + strconv.Itoa(in.Device)
		if in.Host != "" {
			attrs = "host.name=" + in.Host + "," + attrs
		}
		env = append(env, EnvOTelResourceAttrs+"="+attrs)
	}
	return env
}
