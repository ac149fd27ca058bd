package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configName = ".gointersect.yaml"

// config carries defaults for the CLI flags. Pointer fields distinguish
// "not set" from a zero value.
type config struct {
	F1     string   `yaml:"f1"`
	F2     string   `yaml:"f2"`
	Xmin   *float64 `yaml:"xmin"`
	Xmax   *float64 `yaml:"xmax"`
	Points *int     `yaml:"points"`
	Tol    *float64 `yaml:"tol"`
}

// loadConfig reads .gointersect.yaml or gointersect.yaml from dir, the
// dotfile winning when both exist. A missing file is not an error: flags
// alone are a complete configuration.
func loadConfig(dir string) (*config, error) {
	for _, name := range []string{configName, "gointersect.yaml"} {
		p := filepath.Join(dir, name)
		raw, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var cfg config
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		return &cfg, nil
	}
	return &config{}, nil
}
