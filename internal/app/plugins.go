package app

import (
	"errors"
	"sync"
)

// ErrPluginAlreadyRegistered indicates a plugin name is already in use.
var ErrPluginAlreadyRegistered = errors.New("plugin already registered")

// PluginKind classifies what a plugin contributes.
type PluginKind string

const (
	// PluginKindWizard marks plugins that supply modal editing dialogs.
	PluginKindWizard PluginKind = "wizard"

	// PluginKindTransform marks plugins that supply document transforms.
	PluginKindTransform PluginKind = "transform"
)

// PluginDescriptor identifies a host-side plugin. The core never executes
// plugin code; descriptors exist so state snapshots can enumerate what the
// host has loaded.
type PluginDescriptor struct {
	// Name uniquely identifies the plugin.
	Name string

	// Kind classifies the plugin's contribution.
	Kind PluginKind

	// Version is the plugin's version string.
	Version string
}

// PluginRegistry tracks registered plugin descriptors.
type PluginRegistry struct {
	mu     sync.RWMutex
	byName map[string]PluginDescriptor
	order  []string
}

// NewPluginRegistry creates an empty registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{
		byName: make(map[string]PluginDescriptor),
	}
}

// Register adds a descriptor. Names must be unique.
func (pr *PluginRegistry) Register(d PluginDescriptor) error {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if _, exists := pr.byName[d.Name]; exists {
		return NewOperationError("register plugin", d.Name, ErrPluginAlreadyRegistered)
	}

	pr.byName[d.Name] = d
	pr.order = append(pr.order, d.Name)
	return nil
}

// Unregister removes a descriptor by name.
func (pr *PluginRegistry) Unregister(name string) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if _, exists := pr.byName[name]; !exists {
		return
	}

	delete(pr.byName, name)
	for i, n := range pr.order {
		if n == name {
			pr.order = append(pr.order[:i], pr.order[i+1:]...)
			break
		}
	}
}

// Get returns a descriptor by name.
func (pr *PluginRegistry) Get(name string) (PluginDescriptor, bool) {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	d, exists := pr.byName[name]
	return d, exists
}

// All returns descriptors in registration order.
func (pr *PluginRegistry) All() []PluginDescriptor {
	pr.mu.RLock()
	defer pr.mu.RUnlock()

	out := make([]PluginDescriptor, 0, len(pr.order))
	for _, name := range pr.order {
		out = append(out, pr.byName[name])
	}
	return out
}

// Count returns the number of registered descriptors.
func (pr *PluginRegistry) Count() int {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	return len(pr.byName)
}
