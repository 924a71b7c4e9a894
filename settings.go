package container

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Values holds Init literals: factory parameter name to the value injected in
// place of recursive resolution.
type Values map[string]any

// SettingsMap maps declared types to their resolution settings. Keys are
// type tokens obtained with Of[T]().
type SettingsMap map[reflect.Type]*Settings

// Settings is the per-type override bundle consulted at every node of the
// dependency graph. The four fields are independent and composable, with one
// exception: an instance short-circuits resolution entirely, so it cannot be
// combined with init, factory or a transient scope.
//
// Settings are built with the chainable methods or the top-level combinators
// Init, Factory, Scope and Instance:
//
//	c.AddSettings(container.SettingsMap{
//	    container.Of[Cache]():    container.Factory(NewRedisCache),
//	    container.Of[*Worker]():  container.Scope(container.Transient),
//	    container.Of[*Config]():  container.Instance(cfg),
//	    container.Of[*Server]():  container.Init(container.Values{"arg0": ":8080"}),
//	})
type Settings struct {
	init        Values
	factory     *Descriptor
	scope       Lifetime
	scopeSet    bool
	instance    any
	instanceSet bool
	err         error
}

// NewSettings returns empty settings: default scope, no overrides.
func NewSettings() *Settings {
	return &Settings{}
}

// Init sets literal values for the target's factory parameters, keyed by
// parameter name. A literal wins over recursive resolution even when the
// parameter's type is also registered. The most common use is supplying
// simple values (numbers, strings) a factory needs.
func (s *Settings) Init(values Values) *Settings {
	if s.instanceSet {
		return s.fail(ErrInstanceExclusive)
	}
	s.init = values
	return s
}

// Factory sets the factory used for the target, overriding registry lookup
// and ambiguity handling. fn may be a constructor function or a pre-built
// *Descriptor.
func (s *Settings) Factory(fn any, opts ...DescriptorOption) *Settings {
	if s.instanceSet {
		return s.fail(ErrInstanceExclusive)
	}

	if d, ok := fn.(*Descriptor); ok {
		s.factory = d
		return s
	}

	d, err := NewDescriptor(fn, opts...)
	if err != nil {
		return s.fail(err)
	}
	s.factory = d
	return s
}

// Scope sets the lifecycle of the target: Singleton (the default) or
// Transient.
func (s *Settings) Scope(lifetime Lifetime) *Settings {
	if !lifetime.IsValid() {
		return s.fail(LifetimeError{Value: lifetime})
	}
	if s.instanceSet && lifetime != Singleton {
		return s.fail(ErrInstanceExclusive)
	}
	s.scope = lifetime
	s.scopeSet = true
	return s
}

// Instance supplies a ready-made object for the target. Resolution returns
// it as is; factory and scope are never consulted.
func (s *Settings) Instance(obj any) *Settings {
	if obj == nil {
		return s.fail(ErrInstanceNil)
	}
	if s.init != nil || s.factory != nil || (s.scopeSet && s.scope != Singleton) {
		return s.fail(ErrInstanceExclusive)
	}
	s.instance = obj
	s.instanceSet = true
	return s
}

// String renders the non-default fields, for debugging.
func (s *Settings) String() string {
	var rows []string
	if s.scopeSet {
		rows = append(rows, "scope="+s.scope.String())
	}
	if len(s.init) > 0 {
		names := make([]string, 0, len(s.init))
		for name := range s.init {
			names = append(names, name)
		}
		sort.Strings(names)
		rows = append(rows, "init="+strings.Join(names, ","))
	}
	if s.factory != nil {
		rows = append(rows, "factory="+s.factory.Name())
	}
	if s.instanceSet {
		rows = append(rows, fmt.Sprintf("instance=%T", s.instance))
	}
	return "Settings(" + strings.Join(rows, ", ") + ")"
}

func (s *Settings) fail(err error) *Settings {
	if s.err == nil {
		s.err = err
	}
	return s
}

func (s *Settings) validate() error {
	return s.err
}

// effectiveScope returns the configured scope, defaulting to Singleton.
func (s *Settings) effectiveScope() Lifetime {
	if !s.scopeSet {
		return Singleton
	}
	return s.scope
}

// emptySettings stands in when a type has no configured settings.
var emptySettings = &Settings{}

// Init is a combinator for Settings with literal factory arguments.
func Init(values Values) *Settings {
	return NewSettings().Init(values)
}

// Factory is a combinator for Settings with an explicit factory.
func Factory(fn any, opts ...DescriptorOption) *Settings {
	return NewSettings().Factory(fn, opts...)
}

// Scope is a combinator for Settings with a lifecycle.
func Scope(lifetime Lifetime) *Settings {
	return NewSettings().Scope(lifetime)
}

// Instance is a combinator for Settings with a ready-made object.
func Instance(obj any) *Settings {
	return NewSettings().Instance(obj)
}
