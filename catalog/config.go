package catalog

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the on-disk catalog definition used by the memory store.
type Config struct {
	Types   []Type   `yaml:"types"`
	Schemas []Schema `yaml:"schemas"`
}

func (c Config) Validate() error {
	if len(c.Types) == 0 {
		return fmt.Errorf("at least one type required")
	}

	for i, t := range c.Types {
		if err := validateType(t); err != nil {
			if t.ID != "" {
				return fmt.Errorf("type %q: %w", t.ID, err)
			}
			return fmt.Errorf("type %d: %w", i, err)
		}
	}

	for i, s := range c.Schemas {
		if err := validateSchema(s); err != nil {
			if s.ID != "" {
				return fmt.Errorf("schema %q: %w", s.ID, err)
			}
			return fmt.Errorf("schema %d: %w", i, err)
		}
	}

	return nil
}

func validateType(t Type) error {
	if t.ID == "" {
		return fmt.Errorf("id required")
	}
	if !ValidType(t.ID) {
		return fmt.Errorf("unknown object type")
	}
	if t.IndexName == "" {
		return fmt.Errorf("indexName required")
	}
	for i, a := range t.Attributes {
		if a.ID == "" {
			return fmt.Errorf("attribute %d: id required", i)
		}
		if err := validateKind(a.Kind); err != nil {
			return fmt.Errorf("attribute %q: %w", a.ID, err)
		}
	}
	return nil
}

func validateSchema(s Schema) error {
	if s.ID == "" {
		return fmt.Errorf("id required")
	}
	if s.Type == "" {
		return fmt.Errorf("type required")
	}
	for i, p := range s.Parameters {
		if p.ID == "" {
			return fmt.Errorf("parameter %d: id required", i)
		}
		if err := validateKind(p.Kind); err != nil {
			return fmt.Errorf("parameter %q: %w", p.ID, err)
		}
	}
	return nil
}

func validateKind(k ValueKind) error {
	switch k {
	case KindString, KindDatetime, KindNumeric:
		return nil
	}
	return fmt.Errorf("invalid data type: %s", k)
}

// LoadConfig reads and validates a YAML catalog definition.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Build constructs the catalog graph from the definition.
func (c Config) Build() (*Catalog, error) {
	return New(c.Types, c.Schemas)
}
