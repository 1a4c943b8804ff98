package catalog

import (
	"fmt"
	"log"

	"github.com/spf13/viper"

	"quote-configurator/models"
)

// Load reads a catalog file (YAML, JSON or TOML, chosen by extension) and validates it
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var data models.Catalog
	if err := v.Unmarshal(&data); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	c, err := New(data)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Catalog: loaded %d items, %d categories, %d project types from %s",
		len(data.Items), len(data.Categories), len(data.ProjectTypes), path)
	return c, nil
}
