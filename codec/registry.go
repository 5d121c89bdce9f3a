package codec

import "sync"

// Registry manages the available image decoder plugins
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Plugin
	ordered []Plugin
}

var defaultRegistry = &Registry{
	byName: make(map[string]Plugin),
}

// Register registers a plugin in the default registry
func Register(plugin Plugin) {
	defaultRegistry.Register(plugin)
}

// Get retrieves a plugin by format name
func Get(name string) (Plugin, error) {
	return defaultRegistry.Get(name)
}

// ForData returns the first registered plugin that sniffs the data
func ForData(data []byte) (Plugin, error) {
	return defaultRegistry.ForData(data)
}

// List returns all registered plugins
func List() []Plugin {
	return defaultRegistry.List()
}

// Register registers a plugin under its format name. Registering a second
// plugin with the same name replaces the first.
func (r *Registry) Register(plugin Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[plugin.Name()]; !exists {
		r.ordered = append(r.ordered, plugin)
	} else {
		for i, p := range r.ordered {
			if p.Name() == plugin.Name() {
				r.ordered[i] = plugin
				break
			}
		}
	}
	r.byName[plugin.Name()] = plugin
}

// Get retrieves a plugin by format name
func (r *Registry) Get(name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugin, ok := r.byName[name]
	if !ok {
		return nil, ErrPluginNotFound
	}
	return plugin, nil
}

// ForData sniffs the data against every registered plugin, in registration
// order, and returns the first match.
func (r *Registry) ForData(data []byte) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, plugin := range r.ordered {
		if plugin.Sniff(data) {
			return plugin, nil
		}
	}
	return nil, ErrUnknownFormat
}

// List returns all registered plugins in registration order
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugins := make([]Plugin, len(r.ordered))
	copy(plugins, r.ordered)
	return plugins
}
