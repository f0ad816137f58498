package command

import "fmt"

// Registry maps command names to specs, preserving registration order.
type Registry struct {
	specs []*Spec
	index map[string]int
}

// NewRegistry creates a registry holding specs in the given order.
func NewRegistry(specs ...*Spec) *Registry {
	r := &Registry{index: make(map[string]int)}
	for _, s := range specs {
		r.Register(s)
	}
	return r
}

// Register appends s. It panics if s is malformed or its name already exists.
func (r *Registry) Register(s *Spec) {
	if err := s.validate(); err != nil {
		panic(err.Error())
	}
	if _, exists := r.index[s.Name]; exists {
		panic(fmt.Sprintf("command %s already registered", s.Name))
	}
	r.index[s.Name] = len(r.specs)
	r.specs = append(r.specs, s)
}

// Lookup returns the spec and whether it exists.
func (r *Registry) Lookup(name string) (*Spec, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.specs[i], true
}

// Specs returns the registered specs in registration order.
func (r *Registry) Specs() []*Spec {
	return append([]*Spec(nil), r.specs...)
}
