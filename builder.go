package container

import (
	"reflect"
)

// Resolver is the handle a factory can take as a parameter to perform nested
// resolution within the in-flight session. The handle spawns an overlay
// layer per call, so instances settled by per-call overrides never leak into
// the container's persistent cache:
//
//	func makeTransport(r container.Resolver) (http.RoundTripper, error) {
//	    v, err := r.Resolve(container.Of[*retryTransport]())
//	    ...
//	}
type Resolver interface {
	// Resolve builds the target within the current session. An optional
	// settings map overrides the container settings for this call only.
	Resolve(target reflect.Type, overrides ...SettingsMap) (any, error)
}

// session is the state shared by every builder layer of one top-level
// Resolve call: the in-progress set for cycle detection, the depth guard and
// the resolution trail.
type session struct {
	resolving map[reflect.Type]struct{}
	trail     Trail
	depth     int
	maxDepth  int
}

func newSession(maxDepth int) *session {
	return &session{
		resolving: make(map[reflect.Type]struct{}),
		maxDepth:  maxDepth,
	}
}

func (s *session) push(f Frame) int {
	s.trail = append(s.trail, f)
	return len(s.trail) - 1
}

func (s *session) pop() {
	s.trail = s.trail[:len(s.trail)-1]
}

// builder assembles object graphs. Builders form a chain: each overlay
// (a per-call settings map, a nested Resolver call) pushes a new layer whose
// settings and cache shadow the previous ones. Lookups walk the chain; an
// instance is cached in the layer whose settings decided its scope, so
// overlay-configured instances die with the overlay while untouched types
// land in the container's persistent cache at the root of the chain.
type builder struct {
	container *Container
	settings  SettingsMap
	cache     *instanceCache
	previous  *builder
	session   *session
}

var _ Resolver = (*builder)(nil)

// Resolve implements the Resolver handle injected into factories.
func (b *builder) Resolve(target reflect.Type, overrides ...SettingsMap) (any, error) {
	var settings SettingsMap
	if len(overrides) > 0 && overrides[0] != nil {
		if err := validateSettings(overrides[0]); err != nil {
			return nil, err
		}
		settings = normalizeSettings(overrides[0])
	}

	child := &builder{
		container: b.container,
		settings:  settings,
		cache:     newInstanceCache(),
		previous:  b,
		session:   b.session,
	}

	return child.build(target)
}

// lookupSettings finds settings for the target, walking the layer chain.
// It returns the settings together with the layer they came from, so the
// built instance can be cached in that same layer. With nothing configured
// anywhere it returns empty settings and the root layer.
func (b *builder) lookupSettings(target reflect.Type) (*Settings, *builder) {
	if s, ok := b.settings[target]; ok && s != nil {
		return s, b
	}
	if b.previous != nil {
		return b.previous.lookupSettings(target)
	}
	return emptySettings, b
}

// lookupCached finds a cached instance for the target. The walk stops at the
// layer owning the target's settings: instances in older layers were built
// under different settings and must not shadow an overlay binding.
func (b *builder) lookupCached(target reflect.Type, owner *builder) (any, bool) {
	for l := b; l != nil; l = l.previous {
		if v, ok := l.cache.get(target); ok {
			return v, true
		}
		if l == owner {
			break
		}
	}
	return nil, false
}

// build constructs an instance of the target type, recursing into every
// dependency of the chosen factory. One recursive step:
//
//  1. an instance setting short-circuits everything;
//  2. a cached instance is returned when the effective scope is Singleton;
//  3. the factory is selected: explicit setting, else the registry entry -
//     zero candidates or more than one fail the whole resolve;
//  4. parameters are filled in declaration order: Init literal first, then
//     recursion for declared types; simple and func-typed parameters are
//     never recursed;
//  5. the factory is invoked;
//  6. Singleton results are cached in the layer that supplied the settings.
func (b *builder) build(target reflect.Type) (any, error) {
	if target == nil {
		return nil, SettingsError{Cause: ErrTargetNil}
	}

	s := b.session
	s.depth++
	defer func() { s.depth-- }()

	if s.depth > s.maxDepth {
		return nil, &ResolutionError{
			Kind:   DepthExceeded,
			Target: target,
			Depth:  s.maxDepth,
			Trail:  s.trail.clone(),
		}
	}

	settings, layer := b.lookupSettings(target)

	if settings.instanceSet {
		return settings.instance, nil
	}

	scope := settings.effectiveScope()
	if scope == Singleton {
		if cached, ok := b.lookupCached(target, layer); ok {
			return cached, nil
		}
	}

	idx := s.push(Frame{Target: target})

	if _, busy := s.resolving[target]; busy {
		return nil, &ResolutionError{
			Kind:   CircularDependency,
			Target: target,
			Trail:  s.trail.clone(),
		}
	}
	s.resolving[target] = struct{}{}
	defer delete(s.resolving, target)

	descriptor := settings.factory
	if descriptor == nil {
		candidates := b.container.registry.candidates(target)
		switch len(candidates) {
		case 0:
			return nil, &ResolutionError{
				Kind:   NoImplementation,
				Target: target,
				Trail:  s.trail.clone(),
			}
		case 1:
			descriptor = candidates[0]
		default:
			names := make([]string, len(candidates))
			for i, c := range candidates {
				names[i] = c.Name()
			}
			return nil, &ResolutionError{
				Kind:       AmbiguousImplementation,
				Target:     target,
				Candidates: names,
				Trail:      s.trail.clone(),
			}
		}
	}
	s.trail[idx].Factory = descriptor.Name()

	args := make([]reflect.Value, len(descriptor.Params))
	for i, p := range descriptor.Params {
		if literal, ok := settings.init[p.Name]; ok {
			v, err := literalValue(literal, p.Type)
			if err != nil {
				return nil, SettingsError{Target: target, Cause: err}
			}
			args[i] = v
			continue
		}

		switch p.Kind {
		case ParamResolver:
			args[i] = reflect.ValueOf(b)

		case ParamSimple, ParamFunc:
			if p.Optional {
				if descriptor.structType == nil {
					args[i] = reflect.Zero(p.Type)
				}
				continue
			}
			s.trail[idx].Arg = p.Name
			return nil, &ResolutionError{
				Kind:    MissingRequiredArgument,
				Target:  target,
				Factory: descriptor.Name(),
				Arg:     p.Name,
				Trail:   s.trail.clone(),
			}

		case ParamService:
			s.trail[idx].Arg = p.Name
			instance, err := b.build(p.Type)
			if err != nil {
				return nil, err
			}

			if isNilValue(instance) {
				if p.Optional {
					if descriptor.structType == nil {
						args[i] = reflect.Zero(p.Type)
					}
					s.trail[idx].Arg = ""
					continue
				}
				return nil, &ResolutionError{
					Kind:    NullFactoryResult,
					Target:  target,
					Factory: descriptor.Name(),
					Arg:     p.Name,
					Trail:   s.trail.clone(),
				}
			}

			v := reflect.ValueOf(instance)
			if !v.Type().AssignableTo(p.Type) {
				return nil, SettingsError{Target: target, Cause: TypeMismatchError{
					Expected: p.Type,
					Actual:   v.Type(),
					Context:  "argument " + p.Name + " of " + descriptor.Name(),
				}}
			}
			args[i] = v
			s.trail[idx].Arg = ""
		}
	}

	instance, err := descriptor.invoke(args)
	if err != nil {
		if panicErr, ok := err.(*FactoryPanicError); ok {
			panicErr.Trail = s.trail.clone()
			return nil, panicErr
		}
		return nil, &FactoryError{
			Factory: descriptor.Name(),
			Target:  target,
			Cause:   err,
			Trail:   s.trail.clone(),
		}
	}

	if scope == Singleton && !isNilValue(instance) {
		layer.cache.set(target, instance)
	}

	s.pop()
	return instance, nil
}

// literalValue adapts an Init literal to the parameter type.
func literalValue(literal any, t reflect.Type) (reflect.Value, error) {
	if literal == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, TypeMismatchError{
			Expected: t,
			Actual:   nil,
			Context:  "init value",
		}
	}

	v := reflect.ValueOf(literal)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	// Numeric literals convert freely (untyped constants arrive as int);
	// everything else must match exactly.
	if isNumericKind(v.Kind()) && isNumericKind(t.Kind()) && v.Type().ConvertibleTo(t) {
		return v.Convert(t), nil
	}

	return reflect.Value{}, TypeMismatchError{
		Expected: t,
		Actual:   v.Type(),
		Context:  "init value",
	}
}

// normalizeSettings rewrites bare struct keys to the pointer type their
// implicit descriptor produces, so the settings key and the registry key for
// a concrete struct are always the same type. Maps without struct keys are
// returned as is.
func normalizeSettings(m SettingsMap) SettingsMap {
	needed := false
	for t := range m {
		if t != nil && t.Kind() == reflect.Struct {
			needed = true
			break
		}
	}
	if !needed {
		return m
	}

	out := make(SettingsMap, len(m))
	for t, s := range m {
		if t != nil && t.Kind() == reflect.Struct {
			t = reflect.PointerTo(t)
		}
		out[t] = s
	}
	return out
}

func validateSettings(m SettingsMap) error {
	for t, s := range m {
		if t == nil {
			return SettingsError{Cause: ErrTargetNil}
		}
		if s == nil {
			return SettingsError{Target: t, Cause: ErrSettingsNil}
		}
		if err := s.validate(); err != nil {
			return SettingsError{Target: t, Cause: err}
		}
	}
	return nil
}
