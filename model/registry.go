package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrInvalidModelID is returned for identifiers not shaped "provider/model".
	ErrInvalidModelID = errors.New("model: identifier must have the form provider/model")
	// ErrUnknownProvider is returned when no factory is registered for a provider.
	ErrUnknownProvider = errors.New("model: unknown provider")
	// ErrNoResponse is returned by Collect when a model closed its channels
	// without a final response.
	ErrNoResponse = errors.New("model: no final response")
)

// Factory constructs a Model for the model name part of an identifier.
type Factory func(name string) (Model, error)

// Registry maps provider prefixes to factories. The zero value is not usable;
// use NewRegistry.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry is consulted when an agent is constructed without an explicit registry.
var DefaultRegistry = NewRegistry()

// Register adds a factory to DefaultRegistry.
func Register(provider string, f Factory) { DefaultRegistry.Register(provider, f) }

// Register installs f for provider, replacing any previous factory.
func (r *Registry) Register(provider string, f Factory) {
	if f == nil {
		panic("model: Register factory is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(provider)] = f
}

// Providers returns the registered provider names, sorted.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve constructs the model named by id ("openai/gpt-4o").
func (r *Registry) Resolve(id string) (Model, error) {
	provider, name, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	f, ok := r.factories[provider]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	return f(name)
}

// ParseID splits "provider/model" at the first slash. The model part may
// itself contain slashes.
func ParseID(id string) (provider, name string, err error) {
	provider, name, ok := strings.Cut(strings.TrimSpace(id), "/")
	if !ok || provider == "" || name == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidModelID, id)
	}
	return strings.ToLower(provider), name, nil
}
