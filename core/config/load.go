package config

import (
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(fs afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	contents, err := afero.ReadFile(fs, filepath.Join(path, ConfigurationName))
	if err != nil {
		return nil, err
	}

	out := Default()
	if err := yaml.UnmarshalStrict(contents, out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Write stores the configuration in the directory.
func Write(fs afero.Fs, path string, c *Configuration) error {
	if err := c.Validate(); err != nil {
		return err
	}

	contents, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, filepath.Join(path, ConfigurationName), contents, 0600)
}
