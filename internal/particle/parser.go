package particle

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML lets configuration files write ranges as strings ("[0.5 2]")
// or as plain numbers.
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected scalar, got kind %d", ErrInvalidRange, node.Line, node.Kind)
	}
	parsed, err := ParseRange(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*r = parsed
	return nil
}

// MarshalYAML writes the range back in the configuration syntax.
func (r Range) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// ParseConfig decodes a field configuration document. Missing keys keep the
// reference values from DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse particle config: %w", err)
	}
	if cfg.DividerWide <= 0 || cfg.DividerNarrow <= 0 {
		return Config{}, fmt.Errorf("density dividers must be positive (wide=%v narrow=%v)", cfg.DividerWide, cfg.DividerNarrow)
	}
	return cfg, nil
}
