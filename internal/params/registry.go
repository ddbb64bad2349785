package params

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/zclconf/go-cty/cty"
)

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Key identifies a parameter.
type Key struct {
	Namespace string
	Name      string
}

func (k Key) String() string {
	return k.Namespace + "." + k.Name
}

// Entry is one registered parameter.
type Entry struct {
	Key   Key
	Value Value
}

// Registry is the namespaced parameter table. The zero value is not usable;
// construct it with New.
type Registry struct {
	mu      sync.RWMutex
	entries *orderedmap.OrderedMap[Key, Value]
	frozen  bool
}

// New creates an empty, writable registry.
func New() *Registry {
	return &Registry{entries: orderedmap.NewOrderedMap[Key, Value]()}
}

// Register inserts name into namespace. It never overwrites: a second
// registration of the same key fails with *DuplicateParameterError.
func (r *Registry) Register(namespace, name string, v Value) error {
	if !identRegex.MatchString(namespace) {
		return fmt.Errorf("invalid parameter namespace %q", namespace)
	}
	if !identRegex.MatchString(name) {
		return fmt.Errorf("invalid parameter name %q", name)
	}
	if v.Kind() == KindInvalid {
		return fmt.Errorf("parameter %s.%s: invalid value", namespace, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("register %s.%s: %w", namespace, name, ErrFrozen)
	}
	key := Key{Namespace: namespace, Name: name}
	if existing, ok := r.entries.Get(key); ok {
		return &DuplicateParameterError{Key: key, Existing: existing, Rejected: v}
	}
	r.entries.Set(key, v)
	return nil
}

// Lookup returns the value registered under namespace and name.
func (r *Registry) Lookup(namespace, name string) (Value, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries.Get(Key{Namespace: namespace, Name: name})
}

func (r *Registry) mustLookup(namespace, name string) (Value, error) {
	v, ok := r.Lookup(namespace, name)
	if !ok {
		return Value{}, fmt.Errorf("%s.%s: %w", namespace, name, ErrNotFound)
	}
	return v, nil
}

// Float returns a numeric parameter.
func (r *Registry) Float(namespace, name string) (float64, error) {
	v, err := r.mustLookup(namespace, name)
	if err != nil {
		return 0, err
	}
	f, err := v.AsFloat()
	if err != nil {
		return 0, fmt.Errorf("%s.%s: %w", namespace, name, err)
	}
	return f, nil
}

// Bool returns a boolean parameter.
func (r *Registry) Bool(namespace, name string) (bool, error) {
	v, err := r.mustLookup(namespace, name)
	if err != nil {
		return false, err
	}
	b, err := v.AsBool()
	if err != nil {
		return false, fmt.Errorf("%s.%s: %w", namespace, name, err)
	}
	return b, nil
}

// String returns a string parameter.
func (r *Registry) String(namespace, name string) (string, error) {
	v, err := r.mustLookup(namespace, name)
	if err != nil {
		return "", err
	}
	s, err := v.AsString()
	if err != nil {
		return "", fmt.Errorf("%s.%s: %w", namespace, name, err)
	}
	return s, nil
}

// Len returns the number of registered parameters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries.Len()
}

// Entries returns all parameters in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, r.entries.Len())
	for el := r.entries.Front(); el != nil; el = el.Next() {
		out = append(out, Entry{Key: el.Key, Value: el.Value})
	}
	return out
}

// Namespaces returns the namespaces in order of first registration.
func (r *Registry) Namespaces() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range r.Entries() {
		if _, ok := seen[e.Key.Namespace]; ok {
			continue
		}
		seen[e.Key.Namespace] = struct{}{}
		out = append(out, e.Key.Namespace)
	}
	return out
}

// Object returns the namespace as a cty object value. With no names it
// contains every parameter of the namespace; otherwise exactly the listed
// names, each of which must exist.
func (r *Registry) Object(namespace string, names ...string) (cty.Value, error) {
	attrs := make(map[string]cty.Value)
	if len(names) == 0 {
		for _, e := range r.Entries() {
			if e.Key.Namespace == namespace {
				attrs[e.Key.Name] = e.Value.Cty()
			}
		}
	} else {
		for _, name := range names {
			v, err := r.mustLookup(namespace, name)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[name] = v.Cty()
		}
	}
	if len(attrs) == 0 {
		return cty.EmptyObjectVal, nil
	}
	return cty.ObjectVal(attrs), nil
}

// Snapshot returns a plain nested map suitable for JSON or YAML encoding.
func (r *Registry) Snapshot() map[string]map[string]any {
	out := make(map[string]map[string]any)
	for _, e := range r.Entries() {
		ns, ok := out[e.Key.Namespace]
		if !ok {
			ns = make(map[string]any)
			out[e.Key.Namespace] = ns
		}
		ns[e.Key.Name] = e.Value.Interface()
	}
	return out
}

// Freeze closes the registration window.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}
