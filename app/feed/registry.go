package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTopic    = "General News"
	DefaultMaxItems = 100
	DefaultTimeout  = 30 // seconds
)

var ErrEmptyRegistry = errors.New("feed registry has no enabled sources")

type registryFile struct {
	Defaults Source   `yaml:"defaults"`
	Sources  []Source `yaml:"sources"`
}

// Registry is the immutable set of sources a run ingests from.
type Registry struct {
	path    string
	sources []Source
	byName  map[string]int
}

func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed registry: %w", err)
	}

	r, err := ParseRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("invalid feed registry %s: %w", path, err)
	}
	r.path = path

	slog.Debug("Feed registry loaded", "path", path, "sources", len(r.sources), "enabled", len(r.EnabledSources()))

	return r, nil
}

func ParseRegistry(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	r := &Registry{
		sources: make([]Source, 0, len(file.Sources)),
		byName:  make(map[string]int, len(file.Sources)),
	}

	for i, source := range file.Sources {
		source = applyDefaults(source, file.Defaults)

		if err := validateSource(source); err != nil {
			return nil, fmt.Errorf("source at index %d: %w", i, err)
		}
		if _, dup := r.byName[source.Name]; dup {
			return nil, fmt.Errorf("source at index %d: duplicate name '%s'", i, source.Name)
		}

		r.byName[source.Name] = len(r.sources)
		r.sources = append(r.sources, source)
	}

	if len(r.EnabledSources()) == 0 {
		return nil, ErrEmptyRegistry
	}

	return r, nil
}

func (r *Registry) Path() string {
	return r.path
}

func (r *Registry) Get(name string) (Source, error) {
	i, ok := r.byName[name]
	if !ok {
		return Source{}, fmt.Errorf("source with name '%s' not found", name)
	}
	return r.sources[i], nil
}

// Sources returns every source in file order.
func (r *Registry) Sources() []Source {
	return append([]Source(nil), r.sources...)
}

func (r *Registry) EnabledSources() []Source {
	enabled := make([]Source, 0, len(r.sources))
	for _, source := range r.sources {
		if !source.Disabled {
			enabled = append(enabled, source)
		}
	}
	return enabled
}

func (r *Registry) Count() int {
	return len(r.sources)
}

func applyDefaults(source, defaults Source) Source {
	if source.Topic == "" {
		source.Topic = defaults.Topic
	}
	if source.MaxItems == 0 {
		source.MaxItems = defaults.MaxItems
	}
	if source.Timeout == 0 {
		source.Timeout = defaults.Timeout
	}
	if !source.ExtractContent {
		source.ExtractContent = defaults.ExtractContent
	}

	if source.Topic == "" {
		source.Topic = DefaultTopic
	}
	if source.MaxItems == 0 {
		source.MaxItems = DefaultMaxItems
	}
	if source.Timeout == 0 {
		source.Timeout = DefaultTimeout
	}
	return source
}

func validateSource(source Source) error {
	requiredFields := map[string]string{
		"source name": source.Name,
		"feed URL":    source.URL,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	nonNegativeFields := map[string]int{
		"max items": source.MaxItems,
		"timeout":   source.Timeout,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	u, err := url.Parse(source.URL)
	if err != nil {
		return fmt.Errorf("invalid feed URL '%s': %w", source.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("feed URL '%s' must use http or https", source.URL)
	}

	return nil
}
