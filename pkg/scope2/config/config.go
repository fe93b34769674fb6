// Package config holds the data that drives the pipeline: the sheet
// allow-list, the column mapping, the constant columns and the buckets.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ukaji3/scope2-go/pkg/scope2/models"
	"github.com/ukaji3/scope2-go/pkg/scope2/transform"
	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadFromEnv.
const (
	EnvConfigPath   = "SCOPE2_CONFIG"
	EnvTemplatePath = "SCOPE2_TEMPLATE_PATH"
	EnvAddr         = "SCOPE2_ADDR"
)

// Config is the full pipeline configuration.
type Config struct {
	Template       TemplateConfig       `yaml:"template"`
	Sheets         []string             `yaml:"sheets"`
	Mapping        models.Mapping       `yaml:"mapping"`
	Constants      []transform.Constant `yaml:"constants"`
	DateColumn     string               `yaml:"date_column"`
	DayFirst       bool                 `yaml:"day_first"`
	FacilityColumn string               `yaml:"facility_column"`
	Buckets        []transform.Bucket   `yaml:"buckets"`
	Server         ServerConfig         `yaml:"server"`
}

// TemplateConfig locates the report template.
type TemplateConfig struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	MaxUploadSize int64  `yaml:"max_upload_size"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Template: TemplateConfig{
			Path:  "Electricity-Sample.xlsx",
			Sheet: "Electricity",
		},
		Sheets:         append([]string(nil), transform.DefaultSheets...),
		Mapping:        models.DefaultMapping(),
		Constants:      append([]transform.Constant(nil), transform.DefaultConstants...),
		DateColumn:     models.FieldResDate,
		FacilityColumn: models.FieldFacility,
		Buckets:        transform.DefaultBuckets(),
		Server: ServerConfig{
			Addr:          ":8080",
			MaxUploadSize: 32 << 20,
		},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default value; lists present in the file replace the default list.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// LoadFromEnv loads the file named by SCOPE2_CONFIG, if set, and applies
// the SCOPE2_TEMPLATE_PATH and SCOPE2_ADDR overrides.
func LoadFromEnv() (Config, error) {
	cfg := Default()
	if path := os.Getenv(EnvConfigPath); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	cfg.Template.Path = getenvDefault(EnvTemplatePath, cfg.Template.Path)
	cfg.Server.Addr = getenvDefault(EnvAddr, cfg.Server.Addr)
	return cfg, nil
}

// Validate reports every problem with the configuration.
func (c Config) Validate() error {
	var errs []error
	if c.Template.Path == "" {
		errs = append(errs, errors.New("template path required"))
	}
	if c.Template.Sheet == "" {
		errs = append(errs, errors.New("template sheet required"))
	}
	if len(c.Sheets) == 0 {
		errs = append(errs, errors.New("sheet allow-list is empty"))
	}
	if c.FacilityColumn == "" {
		errs = append(errs, errors.New("facility column required"))
	}
	if err := c.Mapping.Validate(models.TemplateFields); err != nil {
		errs = append(errs, fmt.Errorf("mapping: %w", err))
	}
	for _, k := range c.Constants {
		if k.Column == "" {
			errs = append(errs, errors.New("constant without a column name"))
		}
	}
	if len(c.Buckets) == 0 {
		errs = append(errs, errors.New("no buckets defined"))
	}
	if err := transform.ValidateBuckets(c.Buckets); err != nil {
		errs = append(errs, fmt.Errorf("buckets: %w", err))
	}
	return errors.Join(errs...)
}

// Bucket returns the bucket called name.
func (c Config) Bucket(name string) (transform.Bucket, bool) {
	for _, b := range c.Buckets {
		if b.Name == name {
			return b, true
		}
	}
	return transform.Bucket{}, false
}

// normalize converts YAML scalars into the cell value types tables use.
func (c *Config) normalize() {
	for i, k := range c.Constants {
		if n, ok := k.Value.(int); ok {
			c.Constants[i].Value = int64(n)
		}
	}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
