// Package config holds the demo CLI's configuration file handling.
package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// ConfigurationName is the file name looked up in the config path.
	ConfigurationName = "config.yaml"
)

type Configuration struct {
	// RootPrompt labels the root session in the prompt path.
	RootPrompt string `json:"root_prompt" validate:"required"`

	// HistoryDir is the directory history files are stored under.
	HistoryDir string `json:"history_dir" validate:"required"`

	// Debug turns on session trace output.
	Debug bool `json:"debug"`
}

// Default returns the configuration used when no file exists.
func Default() *Configuration {
	return &Configuration{
		RootPrompt: "nestsh",
		HistoryDir: filepath.Join(os.TempDir(), "nestsh"),
	}
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}
