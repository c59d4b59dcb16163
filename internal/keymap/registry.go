// Package keymap maps key strings to command IDs per input context.
package keymap

import (
	"sort"
	"strings"
	"sync"
)

// Binding maps a key to a command in a context.
type Binding struct {
	Key     string
	Command string
	Context string
}

// Registry holds default bindings plus user overrides.
type Registry struct {
	mu        sync.RWMutex
	bindings  []Binding
	overrides map[string]string // "context:key" or "key" -> command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{overrides: make(map[string]string)}
}

// RegisterBinding adds a binding.
func (r *Registry) RegisterBinding(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = append(r.bindings, b)
}

// SetUserOverride binds key to command. key may be qualified with a
// context ("list:d"); an unqualified key applies wherever command is
// bound. An empty command unbinds the key.
func (r *Registry) SetUserOverride(key, command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[key] = command
}

// Lookup resolves key in context. Context bindings shadow global ones.
func (r *Registry) Lookup(key, context string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ctx := range []string{context, ContextGlobal} {
		if cmd, ok := r.overrides[ctx+":"+key]; ok {
			return cmd, cmd != ""
		}
		if cmd, ok := r.overrides[key]; ok && r.hasCommand(cmd, ctx) {
			return cmd, true
		}
		for _, b := range r.bindings {
			if b.Context == ctx && b.Key == key && !r.overridden(b) {
				return b.Command, true
			}
		}
		if ctx == ContextGlobal {
			break
		}
	}
	return "", false
}

// BindingsForContext returns the effective bindings of context sorted by
// command, with overrides applied.
func (r *Registry) BindingsForContext(context string) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Binding
	for _, b := range r.bindings {
		if b.Context == context && !r.overridden(b) {
			out = append(out, b)
		}
	}
	for key, cmd := range r.overrides {
		if cmd == "" {
			continue
		}
		if ctx, k, ok := strings.Cut(key, ":"); ok && ctx == context {
			out = append(out, Binding{Key: k, Command: cmd, Context: context})
			continue
		}
		if !strings.Contains(key, ":") && r.hasCommand(cmd, context) {
			out = append(out, Binding{Key: key, Command: cmd, Context: context})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Command != out[j].Command {
			return out[i].Command < out[j].Command
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// KeysFor returns the keys bound to command in context, for hints.
func (r *Registry) KeysFor(command, context string) []string {
	var keys []string
	for _, b := range r.BindingsForContext(context) {
		if b.Command == command {
			keys = append(keys, b.Key)
		}
	}
	return keys
}

// overridden reports whether a user override replaced b's key.
func (r *Registry) overridden(b Binding) bool {
	if _, ok := r.overrides[b.Context+":"+b.Key]; ok {
		return true
	}
	cmd, ok := r.overrides[b.Key]
	return ok && (cmd == "" || r.hasCommand(cmd, b.Context))
}

func (r *Registry) hasCommand(cmd, context string) bool {
	for _, b := range r.bindings {
		if b.Command == cmd && b.Context == context {
			return true
		}
	}
	return false
}
