package config

import (
	"context"
	"fmt"

	"github.com/cognicore/deduce/pkg/deduce/kb"
	"github.com/cognicore/deduce/pkg/deduce/source"
	"github.com/cognicore/deduce/pkg/deduce/source/sqlite"
)

// Loader resolves configuration and reads every knowledge source it names
type Loader struct {
	ConfigPath string   // optional YAML file
	Sources    []string // appended after the configured sources
	Catalog    string   // overrides the configured catalog
}

// Components holds the loaded configuration and the items to assert, in
// assertion order: catalog statements first, then source files.
type Components struct {
	Config *Config
	Items  []kb.Item
}

// Load reads configuration and all sources
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := Default()
	if l.ConfigPath != "" {
		loaded, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = *loaded
	}
	cfg.Sources = append(cfg.Sources, l.Sources...)
	if l.Catalog != "" {
		cfg.Catalog = l.Catalog
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	comp := &Components{Config: &cfg}

	if cfg.Catalog != "" {
		cat, err := sqlite.Open(ctx, cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		items, err := cat.Items(ctx)
		cat.Close()
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		comp.Items = append(comp.Items, items...)
	}

	if len(cfg.Sources) > 0 {
		items, err := source.LoadAll(ctx, cfg.Sources...)
		if err != nil {
			return nil, fmt.Errorf("load sources: %w", err)
		}
		comp.Items = append(comp.Items, items...)
	}

	return comp, nil
}
