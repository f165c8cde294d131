package compose

import "strings"

// ImageCatalog maps a model identifier to its container image reference.
type ImageCatalog map[string]string

// Resolve returns the image for model. Missing and blank entries are both misses.
func (c ImageCatalog) Resolve(model string) (string, error) {
	img, ok := c[model]
	if !ok || strings.TrimSpace(img) == "" {
		return "", ErrImageNotFound(model)
	}
	return img, nil
}
