package container

import (
	"reflect"
)

// registry maps declared types to the ordered set of descriptors capable of
// producing them. It is populated through Register and consumed read-only by
// the resolver. Abstract (interface) types are recorded with an empty
// descriptor list and are resolved purely via settings overrides.
type registry struct {
	entries map[reflect.Type][]*Descriptor
}

func newRegistry() *registry {
	return &registry{
		entries: make(map[reflect.Type][]*Descriptor),
	}
}

// register classifies and inserts each item. Items may be constructor
// functions, type tokens (Of[T]()), pre-built *Descriptor values or Module
// manifests. Multiple factories per type are a normal state: entries are
// appended, never overwritten.
func (r *registry) register(items ...any) error {
	for _, item := range items {
		if err := r.registerOne(item); err != nil {
			return err
		}
	}
	return nil
}

func (r *registry) registerOne(item any) error {
	switch v := item.(type) {
	case nil:
		return RegistrationError{Item: item, Cause: ErrNotRegisterable}

	case *Descriptor:
		if v == nil {
			return RegistrationError{Item: item, Cause: ErrNotRegisterable}
		}
		r.add(v.Type, v)
		return nil

	case Module:
		for _, sub := range v.items {
			if err := r.registerOne(sub); err != nil {
				return ModuleError{Module: v.name, Cause: err}
			}
		}
		return nil

	case reflect.Type:
		return r.registerType(v)
	}

	rv := reflect.ValueOf(item)
	if rv.Kind() == reflect.Func {
		d, err := NewDescriptor(item)
		if err != nil {
			return err
		}
		r.add(d.Type, d)
		return nil
	}

	return RegistrationError{Item: item, Cause: ErrNotRegisterable}
}

// registerType handles a bare type token. Interfaces become abstract entries
// with no factories. Concrete struct types get their implicit descriptor,
// keyed by the pointer type it produces. Anything else becomes a bare key,
// to be satisfied through settings.
func (r *registry) registerType(t reflect.Type) error {
	if t == nil {
		return RegistrationError{Item: t, Cause: ErrTargetNil}
	}

	if t.Kind() == reflect.Struct ||
		(t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct) {
		d, err := newStructDescriptor(t)
		if err != nil {
			return err
		}
		r.add(d.Type, d)
		return nil
	}

	r.ensure(t)
	return nil
}

// add appends a descriptor under the given key, skipping exact duplicates.
func (r *registry) add(t reflect.Type, d *Descriptor) {
	existing := r.entries[t]
	for _, e := range existing {
		if e == d {
			return
		}
		if e.Constructor.IsValid() && d.Constructor.IsValid() &&
			e.Constructor.Pointer() == d.Constructor.Pointer() {
			return
		}
		if e.structType != nil && e.structType == d.structType {
			return
		}
	}
	r.entries[t] = append(existing, d)
}

// ensure records t as a key with no factories, unless already present.
func (r *registry) ensure(t reflect.Type) {
	if _, ok := r.entries[t]; !ok {
		r.entries[t] = nil
	}
}

// candidates returns the descriptors registered for t. nil means the type
// was never registered at all; an empty non-nil result cannot be
// distinguished from it and both resolve to NoImplementation.
func (r *registry) candidates(t reflect.Type) []*Descriptor {
	return r.entries[t]
}

func (r *registry) contains(t reflect.Type) bool {
	_, ok := r.entries[t]
	return ok
}

func (r *registry) count() int {
	return len(r.entries)
}
