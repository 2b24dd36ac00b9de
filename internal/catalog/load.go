package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load returns the built-in catalog overlaid with the YAML file at path.
// An empty path returns the defaults untouched. Sections present in the file
// replace the corresponding default section wholesale; absent sections keep
// their defaults.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog overlay: %w", err)
	}

	var overlay struct {
		Plants   []Plant   `yaml:"plants"`
		Weather  []Weather `yaml:"weather"`
		Recipes  []Recipe  `yaml:"recipes"`
		Missions []Mission `yaml:"missions"`
		Tuning   *Tuning   `yaml:"tuning"`
	}
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return nil, fmt.Errorf("parse catalog overlay: %w", err)
	}

	if overlay.Plants != nil {
		c.Plants = overlay.Plants
	}
	if overlay.Weather != nil {
		c.Weather = overlay.Weather
	}
	if overlay.Recipes != nil {
		c.Recipes = overlay.Recipes
	}
	if overlay.Missions != nil {
		c.Missions = overlay.Missions
	}
	if overlay.Tuning != nil {
		c.Tuning = *overlay.Tuning
	}
	c.reindex()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog overlay %s: %w", path, err)
	}
	return c, nil
}
