package types

import "encoding/json"

// RenderRequest is the body of POST /render.
type RenderRequest struct {
	// Cluster description: host -> selector -> model. Host and selector
	// order are significant and preserved.
	// example: {"host-a":{"cuda:0-1":"m1"}}
	Cluster json.RawMessage `json:"cluster" swaggertype:"object"`
	// Model id -> container image.
	// example: {"m1":"img:latest"}
	Images map[string]string `json:"images"`
	// First host port on every host. Defaults to 8100.
	// example: 8100
	BasePort int `json:"base_port,omitempty" example:"8100"`
	// Optional OpenTelemetry collector settings.
	Telemetry *TelemetryOptions `json:"telemetry,omitempty"`
	// Optional credential secret settings. Omit for the default hf_token secret.
	Secret *SecretOptions `json:"secret,omitempty"`
	// Restrict rendering to these hosts.
	Hosts []string `json:"hosts,omitempty"`
}

// TelemetryOptions configures OTLP export in generated services.
type TelemetryOptions struct {
	// example: http://collector:4317
	Endpoint string `json:"endpoint" example:"http://collector:4317"`
	// example: grpc
	Protocol string `json:"protocol,omitempty" example:"grpc"`
}

// SecretOptions configures the file-backed credential secret.
type SecretOptions struct {
	// example: hf_token
	Name string `json:"name,omitempty" example:"hf_token"`
	// example: ./hf_token.txt
	File string `json:"file,omitempty" example:"./hf_token.txt"`
	// example: HF_TOKEN_FILE
	Env string `json:"env,omitempty" example:"HF_TOKEN_FILE"`
	// Disable the secret section entirely.
	Disabled bool `json:"disabled,omitempty"`
}

// RenderResponse is returned by POST /render.
type RenderResponse struct {
	// Request id, also echoed in logs.
	// example: 4f8d6c1e-3b1a-4d53-9a5e-2b0c3f1a7e55
	ID string `json:"id" example:"4f8d6c1e-3b1a-4d53-9a5e-2b0c3f1a7e55"`
	// One entry per host, in cluster order.
	Hosts []HostManifest `json:"hosts"`
}

// HostManifest is the outcome for one host.
type HostManifest struct {
	// example: host-a
	Host string `json:"host" example:"host-a"`
	// ok, partial or failed.
	// example: ok
	Status string `json:"status" example:"ok"`
	// example: 2
	Services int `json:"services" example:"2"`
	// Assignments left out because their model has no image.
	Skipped []SkippedEntry `json:"skipped,omitempty"`
	// Non-fatal observations such as a device shared by two models.
	Warnings []SkippedEntry `json:"warnings,omitempty"`
	// Failure reason when status is failed.
	Error string `json:"error,omitempty"`
	// Rendered docker-compose YAML; empty when status is failed.
	Manifest string `json:"manifest,omitempty"`
}

// SkippedEntry names an assignment and why it was skipped or flagged.
type SkippedEntry struct {
	// example: cuda:2-3
	Selector string `json:"selector" example:"cuda:2-3"`
	// example: org/Model-7B
	Model string `json:"model" example:"org/Model-7B"`
	// example: no image found for model org/Model-7B
	Reason string `json:"reason" example:"no image found for model org/Model-7B"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
