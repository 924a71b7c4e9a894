package container

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

const defaultMaxDepth = 100

// Container is an IoC container: it holds the factory registry, the
// per-type settings and the singleton cache, and builds requested types
// together with their transitive dependencies.
//
// There is no ambient default container; create one and pass it to whoever
// needs resolution:
//
//	c := container.New()
//	if err := c.Register(NewConfigLoader, NewPool, NewUserService); err != nil {
//	    ...
//	}
//	svc, err := container.Resolve[*UserService](c)
//
// All methods are safe for concurrent use. One mutex serializes Register,
// AddSettings, Reset and Resolve, which makes Reset a barrier: it can never
// interleave with an in-flight resolution. Calling Reset or Resolve on the
// container from inside a factory deadlocks; factories that need nested
// resolution take a Resolver parameter instead.
type Container struct {
	id       string
	mu       sync.Mutex
	registry *registry
	settings SettingsMap
	cache    *instanceCache
	maxDepth int
}

// Option configures a Container.
type Option interface {
	applyContainer(*Container)
}

type optionFunc func(*Container)

func (f optionFunc) applyContainer(c *Container) {
	f(c)
}

// WithMaxDepth sets the resolution depth guard. The guard fails fast on
// dependency graphs deeper than n, which in practice means an accidental
// cycle that slipped past direct detection.
func WithMaxDepth(n int) Option {
	return optionFunc(func(c *Container) {
		if n > 0 {
			c.maxDepth = n
		}
	})
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		id:       uuid.NewString(),
		registry: newRegistry(),
		settings: make(SettingsMap),
		cache:    newInstanceCache(),
		maxDepth: defaultMaxDepth,
	}

	for _, opt := range opts {
		if opt != nil {
			opt.applyContainer(c)
		}
	}

	return c
}

// ID returns the container's unique identifier, used in diagnostics.
func (c *Container) ID() string {
	return c.id
}

// String implements fmt.Stringer.
func (c *Container) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("Container(%s, %d types, %d cached)", c.id, c.registry.count(), c.cache.size())
}

// Register inserts items into the registry. Items may be factory functions
// (the produced type is the first return value), type tokens from Of[T]()
// (interfaces become abstract entries, structs get an implicit
// field-injection factory), pre-built *Descriptor values and Module
// manifests. Registering a second factory for the same type appends - the
// ambiguity is surfaced at resolution, never at registration.
func (c *Container) Register(items ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.register(items...)
}

// AddSettings merges settings into the store. Existing settings for a type
// are replaced whole, last write wins; callers combining several fields for
// one type must chain them onto one Settings value beforehand. Every key is
// also registered, so configuring a type is enough to make it resolvable.
// A bare struct key is rewritten to the pointer type its implicit factory
// produces, so the settings apply to the type Resolve actually returns.
func (c *Container) AddSettings(m SettingsMap) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := validateSettings(m); err != nil {
		return err
	}

	for t, s := range normalizeSettings(m) {
		c.settings[t] = s
		if !c.registry.contains(t) {
			if err := c.registry.registerType(t); err != nil {
				return err
			}
		}
	}

	return nil
}

// Reset clears the settings store and the singleton cache. The registry is
// preserved. Must not be called from inside a factory.
func (c *Container) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settings = make(SettingsMap)
	c.cache.reset()
}

// Resolve builds an instance of the target type with its whole dependency
// tree. The result is either a fully built object graph or a single
// structured error carrying the complete attempted path - never a partially
// constructed object.
func (c *Container) Resolve(target reflect.Type) (any, error) {
	return c.ResolveWith(target, nil)
}

// ResolveWith is Resolve with a one-shot settings map that replaces the
// container settings for this call. Instances whose settings come from the
// overlay are cached in an ephemeral layer and discarded with the call;
// the persistent singleton cache is still consulted and fed for types the
// overlay does not touch.
func (c *Container) ResolveWith(target reflect.Type, overrides SettingsMap) (any, error) {
	if target == nil {
		return nil, SettingsError{Cause: ErrTargetNil}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	b := &builder{
		container: c,
		settings:  c.settings,
		cache:     c.cache,
		session:   newSession(c.maxDepth),
	}

	if overrides != nil {
		if err := validateSettings(overrides); err != nil {
			return nil, err
		}
		b = &builder{
			container: c,
			settings:  normalizeSettings(overrides),
			cache:     newInstanceCache(),
			previous:  b,
			session:   b.session,
		}
	}

	return b.build(target)
}

// Contains reports whether the type is present in the registry, either with
// factories or as an abstract entry.
func (c *Container) Contains(t reflect.Type) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.contains(t)
}

// Resolve builds an instance of T from the container.
func Resolve[T any](c *Container) (T, error) {
	return ResolveWith[T](c, nil)
}

// ResolveWith builds an instance of T with a one-shot settings overlay.
func ResolveWith[T any](c *Container, overrides SettingsMap) (T, error) {
	var zero T

	target := Of[T]()
	v, err := c.ResolveWith(target, overrides)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}

	typed, ok := v.(T)
	if !ok {
		return zero, TypeMismatchError{
			Expected: target,
			Actual:   reflect.TypeOf(v),
			Context:  "resolved instance",
		}
	}

	return typed, nil
}
