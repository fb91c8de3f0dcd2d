package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// sectionDecoders replace one top-level section of a Config with the
// decoded YAML node. Each decodes into a zero value so fields missing from
// the overlay are reset rather than kept.
//
//nolint:gochecknoglobals // Read-only dispatch table.
var sectionDecoders = map[string]func(*Config, *yaml.Node) error{
	"solver": func(c *Config, n *yaml.Node) error {
		var s SolverConfig
		if err := n.Decode(&s); err != nil {
			return err
		}
		c.Solver = s
		return nil
	},
	"output": func(c *Config, n *yaml.Node) error {
		var o OutputConfig
		if err := n.Decode(&o); err != nil {
			return err
		}
		c.Output = o
		return nil
	},
	"logging": func(c *Config, n *yaml.Node) error {
		var l LoggingConfig
		if err := n.Decode(&l); err != nil {
			return err
		}
		c.Logging = l
		return nil
	},
	"cache": func(c *Config, n *yaml.Node) error {
		var cc CacheConfig
		if err := n.Decode(&cc); err != nil {
			return err
		}
		c.Cache = cc
		return nil
	},
}

// ShallowMergeYAML applies the YAML file at overlayPath to target one
// top-level section at a time: a section present in the overlay replaces
// the whole section of target, absent sections are kept, and unknown keys
// are ignored. target is not modified when the overlay is invalid.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("shallow merge: nil target config")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay %s: %w", overlayPath, err)
	}

	var sections map[string]yaml.Node
	if err = yaml.Unmarshal(data, &sections); err != nil {
		return fmt.Errorf("parsing overlay %s: %w", overlayPath, err)
	}

	keys := make([]string, 0, len(sections))
	for key := range sections {
		if _, ok := sectionDecoders[key]; ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	merged := *target
	for _, key := range keys {
		node := sections[key]
		if err = sectionDecoders[key](&merged, &node); err != nil {
			return fmt.Errorf("overlay section %q: %w", key, err)
		}
	}
	*target = merged
	return nil
}
