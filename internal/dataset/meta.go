package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Meta describes the dataset as a whole. It is read from an optional
// dataset.yaml at the data root; a missing file yields the zero value.
type Meta struct {
	Version  string `yaml:"version"`
	Revision string `yaml:"revision"`
}

// LoadMeta reads dataset.yaml from the data root, if present.
func LoadMeta(root string) (Meta, error) {
	var meta Meta
	raw, err := os.ReadFile(filepath.Join(root, "dataset.yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return meta, fmt.Errorf("reading dataset metadata: %w", err)
	}
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return meta, fmt.Errorf("parsing dataset metadata: %w", err)
	}
	return meta, nil
}
