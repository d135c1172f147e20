package registry

import "sync"

// LLMOptions is the opaque-to-the-core options bag passed to an adapter's
// Invoke call (model name, temperature, etc. are adapter-specific).
type LLMOptions map[string]any

// AsyncResult is the resolved value of an InvokeAsync call.
type AsyncResult struct {
	Value string
	Err   error
}

// LLMAdapter is the contract a registered LLM backend exposes (§6).
type LLMAdapter interface {
	Name() string
	SupportedModels() []string
	IsAvailable() bool
	Invoke(prompt string, options LLMOptions) (string, error)
	InvokeAsync(prompt string, options LLMOptions) <-chan AsyncResult
}

// LLMAdapterRegistry is a process-wide, read-mostly registry of LLMAdapters.
type LLMAdapterRegistry struct {
	mu       sync.RWMutex
	adapters map[string]LLMAdapter
	defName  string
}

// NewLLMAdapterRegistry creates an empty registry.
func NewLLMAdapterRegistry() *LLMAdapterRegistry {
	return &LLMAdapterRegistry{adapters: make(map[string]LLMAdapter)}
}

// Register adds or replaces an adapter by name.
func (r *LLMAdapterRegistry) Register(a LLMAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Name()] = a
	if r.defName == "" {
		r.defName = a.Name()
	}
}

// Find looks up an adapter by name.
func (r *LLMAdapterRegistry) Find(name string) (LLMAdapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[name]
	return a, ok
}

// GetDefault returns the registry's default adapter, if one is set.
func (r *LLMAdapterRegistry) GetDefault() (LLMAdapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.defName == "" {
		return nil, false
	}
	a, ok := r.adapters[r.defName]
	return a, ok
}

// SetDefault designates name as the registry's default adapter.
func (r *LLMAdapterRegistry) SetDefault(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defName = name
}
