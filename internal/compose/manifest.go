package compose

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ComposeVersion is written as the top-level version marker of every manifest.
const ComposeVersion = "3.9"

// Manifest is the docker-compose document generated for one host.
type Manifest struct {
	Version  string            `yaml:"version"`
	Secrets  map[string]Secret `yaml:"secrets,omitempty"`
	Services Services          `yaml:"services"`
}

// Secret is a file-backed compose secret.
type Secret struct {
	File string `yaml:"file"`
}

// Service is one deployable unit: one model on one GPU.
type Service struct {
	Image         string   `yaml:"image"`
	ContainerName string   `yaml:"container_name"`
	Restart       string   `yaml:"restart"`
	Ports         []string `yaml:"ports"`
	Deploy        Deploy   `yaml:"deploy"`
	Environment   []string `yaml:"environment"`
	Secrets       []string `yaml:"secrets,omitempty"`
}

type Deploy struct {
	Resources Resources `yaml:"resources"`
}

type Resources struct {
	Reservations Reservations `yaml:"reservations"`
}

type Reservations struct {
	Devices []DeviceRequest `yaml:"devices"`
}

// DeviceRequest reserves GPUs through the container runtime's device driver.
type DeviceRequest struct {
	Driver       string   `yaml:"driver"`
	DeviceIDs    []string `yaml:"device_ids"`
	Capabilities []string `yaml:"capabilities"`
}

// NamedService pairs a service with its key in the services mapping.
type NamedService struct {
	Name    string
	Service Service
}

// Services is the ordered services mapping. Order is the allocation order.
type Services []NamedService

// Get returns the service with the given name.
func (s Services) Get(name string) (Service, bool) {
	for _, ns := range s {
		if ns.Name == name {
			return ns.Service, true
		}
	}
	return Service{}, false
}

// Names lists service names in order.
func (s Services) Names() []string {
	out := make([]string, 0, len(s))
	for _, ns := range s {
		out = append(out, ns.Name)
	}
	return out
}

// MarshalYAML emits the services as a mapping while keeping slice order.
func (s Services) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, ns := range s {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: ns.Name}
		val := &yaml.Node{}
		if err := val.Encode(ns.Service); err != nil {
			return nil, fmt.Errorf("encode service %s: %w", ns.Name, err)
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// UnmarshalYAML reads a services mapping in document order.
func (s *Services) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: services must be a mapping", value.Line)
	}
	out := make(Services, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var svc Service
		if err := value.Content[i+1].Decode(&svc); err != nil {
			return fmt.Errorf("service %s: %w", value.Content[i].Value, err)
		}
		out = append(out, NamedService{Name: value.Content[i].Value, Service: svc})
	}
	*s = out
	return nil
}

// Encode writes m as YAML with two-space indentation.
func Encode(w io.Writer, m *Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}

// Marshal returns the YAML encoding of m.
func Marshal(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses a manifest previously produced by Marshal.
func Unmarshal(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
