package registry

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"composegen/internal/common/fsutil"
	"composegen/internal/compose"
)

// LoadCluster reads a cluster description (JSON or YAML) from path.
func LoadCluster(path string) (compose.ClusterSpec, error) {
	b, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, compose.ErrIOFailure("read", path, err)
	}
	return ParseCluster(b)
}

// ParseCluster validates and decodes a host -> selector -> model document,
// keeping host and selector order as written. A host listed twice is an
// error; a selector listed twice within a host is kept so the assembler can
// report the resulting collision against that host alone.
func ParseCluster(data []byte) (compose.ClusterSpec, error) {
	if err := validate("cluster", clusterSchemaLoader, data); err != nil {
		return nil, err
	}
	root, err := mappingRoot(data)
	if err != nil {
		return nil, fmt.Errorf("cluster: %w", err)
	}
	spec := make(compose.ClusterSpec, 0, len(root.Content)/2)
	seen := make(map[string]bool)
	for i := 0; i+1 < len(root.Content); i += 2 {
		hostKey, hostVal := root.Content[i], root.Content[i+1]
		if seen[hostKey.Value] {
			return nil, fmt.Errorf("cluster: line %d: host %s defined twice", hostKey.Line, hostKey.Value)
		}
		seen[hostKey.Value] = true
		if hostVal.Kind == yaml.AliasNode {
			hostVal = hostVal.Alias
		}
		if hostVal.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("cluster: line %d: host %s must map selectors to models", hostVal.Line, hostKey.Value)
		}
		host := compose.Host{Name: hostKey.Value}
		for j := 0; j+1 < len(hostVal.Content); j += 2 {
			host.Assignments = append(host.Assignments, compose.Assignment{
				Selector: hostVal.Content[j].Value,
				Model:    hostVal.Content[j+1].Value,
			})
		}
		spec = append(spec, host)
	}
	return spec, nil
}

// LoadImages reads the model -> image catalog (YAML or JSON) from path.
func LoadImages(path string) (compose.ImageCatalog, error) {
	b, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, compose.ErrIOFailure("read", path, err)
	}
	return ParseImages(b)
}

// ParseImages validates and decodes an image catalog document.
func ParseImages(data []byte) (compose.ImageCatalog, error) {
	if err := validate("images", imagesSchemaLoader, data); err != nil {
		return nil, err
	}
	var images compose.ImageCatalog
	if err := yaml.Unmarshal(data, &images); err != nil {
		return nil, fmt.Errorf("images: %w", err)
	}
	if images == nil {
		images = compose.ImageCatalog{}
	}
	return images, nil
}

// mappingRoot returns the top-level mapping node of a YAML/JSON document.
func mappingRoot(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", root.Line)
	}
	return root, nil
}
