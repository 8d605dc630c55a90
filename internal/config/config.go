// Package config loads the YAML project file that declares collections,
// the store path, and build options, and materializes it into runtime
// collection definitions.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/foldcms/foldcms-go/internal/cms"
	"github.com/foldcms/foldcms-go/internal/loader"
	"github.com/foldcms/foldcms-go/internal/schema"
	"github.com/foldcms/foldcms-go/pkg/types"
)

// Config is the project file root.
type Config struct {
	Store            StoreConfig                 `yaml:"store"`
	Build            BuildConfig                 `yaml:"build"`
	LenientRelations bool                        `yaml:"lenient_relations,omitempty"`
	Collections      map[string]CollectionConfig `yaml:"collections"`
	Assets           *AssetsConfig               `yaml:"assets,omitempty"`
}

// StoreConfig locates the content database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// BuildConfig carries orchestrator options.
type BuildConfig struct {
	Concurrency int  `yaml:"concurrency,omitempty"`
	Incremental bool `yaml:"incremental,omitempty"`
}

// CollectionConfig declares one collection.
type CollectionConfig struct {
	Loader          LoaderConfig              `yaml:"loader"`
	Schema          []FieldConfig             `yaml:"schema"`
	Relations       map[string]RelationConfig `yaml:"relations,omitempty"`
	ContinueOnError bool                      `yaml:"continue_on_error,omitempty"`
}

// LoaderConfig selects a loader kind and its source folder.
type LoaderConfig struct {
	Kind   string `yaml:"kind"`
	Folder string `yaml:"folder"`
}

// FieldConfig declares one schema field.
type FieldConfig struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Required bool   `yaml:"required,omitempty"`
	Nullable bool   `yaml:"nullable,omitempty"`
}

// RelationConfig declares an edge to another collection.
type RelationConfig struct {
	Kind   string `yaml:"kind"`
	Target string `yaml:"target"`
}

// AssetsConfig declares the asset-sync source tree and its mirror target.
type AssetsConfig struct {
	Folder         string `yaml:"folder"`
	Target         string `yaml:"target"`
	Prefix         string `yaml:"prefix,omitempty"`
	DeleteOrphaned bool   `yaml:"delete_orphaned,omitempty"`
}

// Load reads and validates the project file. A .env alongside the process is
// applied first, and ${VAR} references in the YAML are expanded from the
// environment.
func Load(configPath string) (*Config, error) {
	// Best effort; a missing .env is not an error
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = "content.db"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Collections) == 0 {
		return fmt.Errorf("config declares no collections")
	}
	if c.Assets != nil {
		if c.Assets.Folder == "" {
			return fmt.Errorf("assets.folder is required")
		}
		if c.Assets.Target == "" {
			return fmt.Errorf("assets.target is required")
		}
	}
	for name, col := range c.Collections {
		if col.Loader.Kind == "" {
			return fmt.Errorf("collection %q: loader.kind is required", name)
		}
		if _, err := buildLoader(col.Loader); err != nil {
			return fmt.Errorf("collection %q: %w", name, err)
		}
		if col.Loader.Folder == "" {
			return fmt.Errorf("collection %q: loader.folder is required", name)
		}
		for _, f := range col.Schema {
			if f.Name == "" {
				return fmt.Errorf("collection %q: schema field with empty name", name)
			}
			if _, err := schema.ParseKind(f.Kind); err != nil {
				return fmt.Errorf("collection %q field %q: %w", name, f.Name, err)
			}
		}
		for field, rel := range col.Relations {
			if rel.Target == "" {
				return fmt.Errorf("collection %q relation %q: target is required", name, field)
			}
			if _, ok := c.Collections[rel.Target]; !ok {
				return fmt.Errorf("collection %q relation %q: target %q is not a declared collection", name, field, rel.Target)
			}
			kind := types.RelationKind(rel.Kind)
			switch kind {
			case types.RelationSingle, types.RelationArray, types.RelationMap:
			default:
				return fmt.Errorf("collection %q relation %q: invalid kind %q", name, field, rel.Kind)
			}
		}
	}
	return nil
}

// Materialize converts the declared collections into runtime definitions
// ready for the builder and the query facade.
func (c *Config) Materialize() (map[string]*cms.Collection, error) {
	out := make(map[string]*cms.Collection, len(c.Collections))
	for name, colCfg := range c.Collections {
		fields := make([]schema.Field, 0, len(colCfg.Schema))
		for _, f := range colCfg.Schema {
			kind, err := schema.ParseKind(f.Kind)
			if err != nil {
				return nil, fmt.Errorf("collection %q field %q: %w", name, f.Name, err)
			}
			fields = append(fields, schema.Field{
				Name:     f.Name,
				Kind:     kind,
				Required: f.Required,
				Nullable: f.Nullable,
			})
		}
		s := schema.New(fields...)

		l, err := buildLoader(colCfg.Loader)
		if err != nil {
			return nil, fmt.Errorf("collection %q: %w", name, err)
		}

		relations := make(map[string]types.Relation, len(colCfg.Relations))
		for field, rel := range colCfg.Relations {
			relations[field] = types.Relation{
				Kind:   types.RelationKind(rel.Kind),
				Field:  field,
				Target: rel.Target,
			}
		}

		out[name] = &cms.Collection{
			LoadingSchema:   s,
			Loader:          l,
			Relations:       relations,
			ContinueOnError: colCfg.ContinueOnError,
		}
	}
	return out, nil
}

func buildLoader(cfg LoaderConfig) (loader.Loader, error) {
	switch cfg.Kind {
	case "json":
		return &loader.JSONDir{Dir: cfg.Folder}, nil
	case "jsonl":
		return &loader.JSONLines{Dir: cfg.Folder}, nil
	case "yaml":
		return &loader.YAMLDir{Dir: cfg.Folder}, nil
	case "yaml_stream":
		return &loader.YAMLStream{Dir: cfg.Folder}, nil
	case "markdown":
		return &loader.Markdown{Dir: cfg.Folder}, nil
	default:
		return nil, fmt.Errorf("unknown loader kind %q", cfg.Kind)
	}
}
