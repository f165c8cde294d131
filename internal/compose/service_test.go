package compose

import (
	"reflect"
	"strings"
	"testing"
)

func TestServiceName(t *testing.T) {
	cases := []struct {
		model  string
		device int
		want   string
	}{
		{"org/Model-7B", 2, "Model-7B-gpu2"},
		{"m1", 0, "m1-gpu0"},
		{"Qwen/Qwen2.5-0.5B", 1, "Qwen2-5-0-5B-gpu1"},
		{"deepvk/GeRaCl-USER2-base", 3, "GeRaCl-USER2-base-gpu3"},
		{"org/sub/name_x/", 0, "name_x-gpu0"},
		{"org/model:rev", 4, "model-rev-gpu4"},
	}
	for _, c := range cases {
		got, err := ServiceName(c.model, c.device)
		if err != nil {
			t.Fatalf("%q: %v", c.model, err)
		}
		if got != c.want {
			t.Fatalf("ServiceName(%q, %d) = %q, want %q", c.model, c.device, got, c.want)
		}
	}
	for _, bad := range []string{"", "/", "///"} {
		if _, err := ServiceName(bad, 0); !IsInvalidModel(err) {
			t.Fatalf("%q: expected invalid model, got %v", bad, err)
		}
	}
}

func TestBuildService_Defaults(t *testing.T) {
	opts := Options{}.WithDefaults()
	name, svc, err := BuildService(ServiceInput{Model: "m1", Image: "img:latest", Device: 1, HostPort: 8101}, opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if name != "m1-gpu1" || svc.ContainerName != name {
		t.Fatalf("name=%q container=%q", name, svc.ContainerName)
	}
	if svc.Image != "img:latest" || svc.Restart != DefaultRestart {
		t.Fatalf("unexpected service: %+v", svc)
	}
	if !reflect.DeepEqual(svc.Ports, []string{"8101:8000"}) {
		t.Fatalf("ports=%v", svc.Ports)
	}
	devs := svc.Deploy.Resources.Reservations.Devices
	if len(devs) != 1 || devs[0].Driver != "nvidia" || !reflect.DeepEqual(devs[0].DeviceIDs, []string{"1"}) || !reflect.DeepEqual(devs[0].Capabilities, []string{"gpu"}) {
		t.Fatalf("devices=%+v", devs)
	}
	if !reflect.DeepEqual(svc.Environment, []string{"MODEL_ID=m1"}) {
		t.Fatalf("env=%v", svc.Environment)
	}
	if svc.Secrets != nil {
		t.Fatalf("no secret configured, got %v", svc.Secrets)
	}
}

func TestBuildService_TelemetryAndSecret(t *testing.T) {
	opts := Options{
		Telemetry: Telemetry{Endpoint: "http://collector:4317"},
		Secret:    SecretRef{File: "./token.txt"},
	}.WithDefaults()
	name, svc, err := BuildService(ServiceInput{Host: "host-a", Model: "org/m.1", Image: "i", Device: 0, HostPort: 8100}, opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []string{
		"MODEL_ID=org/m.1",
		"HF_TOKEN_FILE=/run/secrets/hf_token",
		"OTEL_EXPORTER_OTLP_ENDPOINT=http://collector:4317",
		"OTEL_EXPORTER_OTLP_PROTOCOL=grpc",
		"OTEL_SERVICE_NAME=" + name,
		"OTEL_TRACES_EXPORTER=otlp",
		"OTEL_METRICS_EXPORTER=otlp",
		"OTEL_RESOURCE_ATTRIBUTES=host.name=host-a,gpu.device=0",
	}
	if !reflect.DeepEqual(svc.Environment, want) {
		t.Fatalf("env:\n got %v\nwant %v", svc.Environment, want)
	}
	if !reflect.DeepEqual(svc.Secrets, []string{"hf_token"}) {
		t.Fatalf("secrets=%v", svc.Secrets)
	}
	for _, e := range svc.Environment {
		if strings.Contains(e, "token.txt") {
			t.Fatalf("secret file path leaked into env: %s", e)
		}
	}
}

func TestOptionsWithDefaults_KeepsExplicitValues(t *testing.T) {
	o := Options{BasePort: 9000, ContainerPort: 9001, Restart: "always", Telemetry: Telemetry{Protocol: "http/protobuf"}}.WithDefaults()
	if o.BasePort != 9000 || o.ContainerPort != 9001 || o.Restart != "always" || o.Telemetry.Protocol != "http/protobuf" {
		t.Fatalf("unexpected options: %+v", o)
	}
	if o.Secret.Enabled() {
		t.Fatalf("secret should stay disabled without a file")
	}
	if d := DefaultOptions(); !d.Secret.Enabled() || d.Secret.File != DefaultSecretFile || d.BasePort != DefaultBasePort {
		t.Fatalf("unexpected default options: %+v", d)
	}
}
