package compose

import "fmt"

// Assignment maps one selector token to the model it should serve.
type Assignment struct {
	Selector string
	Model    string
}

// HostAssignment lists a host's assignments in document order; order drives
// port allocation.
type HostAssignment []Assignment

// Host is one entry of the cluster description.
type Host struct {
	Name        string
	Assignments HostAssignment
}

// ClusterSpec lists hosts in document order.
type ClusterSpec []Host

// Skipped records an assignment left out of a manifest.
type Skipped struct {
	Selector string
	Model    string
	Err      error
}

// Warning is a non-fatal observation about a host's assignments.
type Warning struct {
	Selector string
	Model    string
	Message  string
}

// Result summarizes what Assemble did for one host.
type Result struct {
	Services int
	Skipped  []Skipped
	Warnings []Warning
}

// Assemble builds the manifest for one host.
//
// A selector that fails to parse, a derived-name collision, an unusable model
// id or port exhaustion abort the host with a *HostError naming the entry.
// Models missing from the catalog are skipped and listed in Result.Skipped.
func Assemble(host string, assign HostAssignment, images ImageCatalog, opts Options) (*Manifest, Result, error) {
	var res Result
	opts = opts.WithDefaults()
	ports, err := NewPortAllocator(opts.BasePort)
	if err != nil {
		return nil, res, fmt.Errorf("host %s: %w", host, err)
	}
	m := &Manifest{Version: ComposeVersion, Services: Services{}}
	if opts.Secret.Enabled() {
		m.Secrets = map[string]Secret{opts.Secret.Name: {File: opts.Secret.File}}
	}

	owners := make(map[string]string)   // service name -> model
	deviceModel := make(map[int]string) // device -> first model placed on it
	for _, a := range assign {
		devices, err := ParseSelector(a.Selector)
		if err != nil {
			return nil, res, &HostError{Host: host, Selector: a.Selector, Model: a.Model, Err: err}
		}
		image, err := images.Resolve(a.Model)
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Selector: a.Selector, Model: a.Model, Err: err})
			continue
		}
		for _, dev := range devices {
			if prev, ok := deviceModel[dev]; ok && prev != a.Model {
				res.Warnings = append(res.Warnings, Warning{
					Selector: a.Selector,
					Model:    a.Model,
					Message:  fmt.Sprintf("device %d already serves %s", dev, prev),
				})
			} else if !ok {
				deviceModel[dev] = a.Model
			}
			name, err := ServiceName(a.Model, dev)
			if err != nil {
				return nil, res, &HostError{Host: host, Selector: a.Selector, Model: a.Model, Err: err}
			}
			if prev, ok := owners[name]; ok {
				return nil, res, &HostError{Host: host, Selector: a.Selector, Model: a.Model, Err: ErrNameCollision(name, a.Model, prev)}
			}
			port, err := ports.Next()
			if err != nil {
				return nil, res, &HostError{Host: host, Selector: a.Selector, Model: a.Model, Err: err}
			}
			_, svc, err := BuildService(ServiceInput{Host: host, Model: a.Model, Image: image, Device: dev, HostPort: port}, opts)
			if err != nil {
				return nil, res, &HostError{Host: host, Selector: a.Selector, Model: a.Model, Err: err}
			}
			owners[name] = a.Model
			m.Services = append(m.Services, NamedService{Name: name, Service: svc})
		}
	}
	res.Services = len(m.Services)
	return m, res, nil
}
