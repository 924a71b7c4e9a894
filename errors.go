package container

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// These are base errors that are wrapped in typed errors when returned.
// Match against them with errors.Is.

var (
	// Resolution errors.
	ErrNoImplementation        = errors.New("type does not have registered implementations")
	ErrAmbiguousImplementation = errors.New("type has more than one registered implementation")
	ErrMissingRequiredArgument = errors.New("missing required argument")
	ErrNullFactoryResult       = errors.New("factory returned nil for a required argument")
	ErrCircularDependency      = errors.New("circular dependency detected")
	ErrDepthExceeded           = errors.New("maximum resolution depth exceeded")

	// Registration errors.
	ErrFactoryNil        = errors.New("factory cannot be nil")
	ErrNotAFunction      = errors.New("factory must be a function")
	ErrNoProducedType    = errors.New("factory must return a value (optionally with an error)")
	ErrNotRegisterable   = errors.New("item must be a factory function, type token, descriptor or module")
	ErrParamNameCount    = errors.New("parameter name count does not match factory signature")
	ErrUnknownParamName  = errors.New("option names a parameter the factory does not have")
	ErrNotAStruct        = errors.New("implicit descriptors require a struct or pointer-to-struct type")

	// Settings errors.
	ErrTargetNil         = errors.New("target type cannot be nil")
	ErrSettingsNil       = errors.New("settings cannot be nil")
	ErrInstanceNil       = errors.New("instance cannot be nil")
	ErrInstanceExclusive = errors.New("instance cannot be combined with init, factory or a transient scope")
)

var (
	_ error = LifetimeError{}
	_ error = &ResolutionError{}
	_ error = RegistrationError{}
	_ error = ModuleError{}
	_ error = SettingsError{}
	_ error = TypeMismatchError{}
	_ error = &FactoryError{}
	_ error = &FactoryPanicError{}
)

// LifetimeError indicates an invalid lifetime value.
type LifetimeError struct {
	Value any
}

func (e LifetimeError) Error() string {
	return fmt.Sprintf("invalid lifetime: %v", e.Value)
}

// FailureKind distinguishes the resolution failure states the engine can
// reach on its own (as opposed to faults raised inside a factory body).
type FailureKind int

const (
	// NoImplementation - the requested type has zero usable factories.
	NoImplementation FailureKind = iota

	// AmbiguousImplementation - more than one factory and no disambiguating
	// settings. The container never guesses among candidates.
	AmbiguousImplementation

	// MissingRequiredArgument - a factory parameter was not supplied by
	// recursion or an Init setting and has no default.
	MissingRequiredArgument

	// NullFactoryResult - a dependency factory produced nil where a
	// non-optional argument needed a value.
	NullFactoryResult

	// CircularDependency - the dependency graph loops back onto a type that
	// is already being built.
	CircularDependency

	// DepthExceeded - the resolution recursed past the configured depth
	// guard.
	DepthExceeded
)

// String returns the string representation of the FailureKind.
func (k FailureKind) String() string {
	switch k {
	case NoImplementation:
		return "NoImplementation"
	case AmbiguousImplementation:
		return "AmbiguousImplementation"
	case MissingRequiredArgument:
		return "MissingRequiredArgument"
	case NullFactoryResult:
		return "NullFactoryResult"
	case CircularDependency:
		return "CircularDependency"
	case DepthExceeded:
		return "DepthExceeded"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

func (k FailureKind) sentinel() error {
	switch k {
	case NoImplementation:
		return ErrNoImplementation
	case AmbiguousImplementation:
		return ErrAmbiguousImplementation
	case MissingRequiredArgument:
		return ErrMissingRequiredArgument
	case NullFactoryResult:
		return ErrNullFactoryResult
	case CircularDependency:
		return ErrCircularDependency
	case DepthExceeded:
		return ErrDepthExceeded
	default:
		return nil
	}
}

// ResolutionError is the single failure taxonomy of the resolver. It carries
// the failure kind, the type the engine was working on when it failed and the
// full resolution trail accumulated up to that point.
//
// The caller receives either a fully built object graph or one
// ResolutionError - never a partially constructed object.
type ResolutionError struct {
	Kind       FailureKind
	Target     reflect.Type
	Factory    string   // factory under consideration, "" when none was chosen
	Arg        string   // offending argument, "" when the failure is not argument-level
	Candidates []string // factory names, for AmbiguousImplementation
	Depth      int      // reached depth, for DepthExceeded
	Trail      Trail
}

func (e *ResolutionError) Error() string {
	var b strings.Builder

	switch e.Kind {
	case NoImplementation:
		b.WriteString(fmt.Sprintf("%s does not have registered implementations", formatType(e.Target)))
	case AmbiguousImplementation:
		b.WriteString(fmt.Sprintf("cannot resolve %s, implementations are: [%s]",
			formatType(e.Target), strings.Join(e.Candidates, ", ")))
		b.WriteString("\n\nRegister exactly one implementation or disambiguate with a Factory setting.")
	case MissingRequiredArgument:
		b.WriteString(fmt.Sprintf("cannot resolve argument %q of %s: no Init value supplied and the argument has no default",
			e.Arg, e.Factory))
	case NullFactoryResult:
		b.WriteString(fmt.Sprintf("argument %q of %s received nil and has no default; maybe the factory forgot to return a value",
			e.Arg, e.Factory))
	case CircularDependency:
		b.WriteString(fmt.Sprintf("circular reference detected on %s", formatType(e.Target)))
	case DepthExceeded:
		b.WriteString(fmt.Sprintf("resolution of %s exceeded the maximum depth of %d", formatType(e.Target), e.Depth))
	default:
		b.WriteString(fmt.Sprintf("resolution of %s failed", formatType(e.Target)))
	}

	if len(e.Trail) > 0 {
		b.WriteString("\n")
		b.WriteString(e.Trail.String())
	}

	return b.String()
}

func (e *ResolutionError) Unwrap() error {
	return e.Kind.sentinel()
}

// RegistrationError wraps errors raised while registering items.
type RegistrationError struct {
	Item  any
	Cause error
}

func (e RegistrationError) Error() string {
	return fmt.Sprintf("cannot register %T: %v", e.Item, e.Cause)
}

func (e RegistrationError) Unwrap() error {
	return e.Cause
}

// ModuleError wraps a registration error with the name of the module that
// contained the offending item.
type ModuleError struct {
	Module string
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// SettingsError indicates an invalid Settings value passed to AddSettings or
// ResolveWith.
type SettingsError struct {
	Target reflect.Type
	Cause  error
}

func (e SettingsError) Error() string {
	if e.Target != nil {
		return fmt.Sprintf("settings for %s: %v", formatType(e.Target), e.Cause)
	}
	return fmt.Sprintf("settings: %v", e.Cause)
}

func (e SettingsError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError indicates a value cannot be used where another type is
// expected, e.g. an Init literal that does not fit its parameter.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
	Context  string
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Context, formatType(e.Expected), formatType(e.Actual))
}

// FactoryError wraps an error returned by a factory's own body. It is not a
// ResolutionError: the engine does not reinterpret factory-level faults, it
// only attaches the trail for diagnosability.
type FactoryError struct {
	Factory string
	Target  reflect.Type
	Cause   error
	Trail   Trail
}

func (e *FactoryError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("call of %s for %s failed: %v", e.Factory, formatType(e.Target), e.Cause))

	if len(e.Trail) > 0 {
		b.WriteString("\n")
		b.WriteString(e.Trail.String())
	}

	return b.String()
}

func (e *FactoryError) Unwrap() error {
	return e.Cause
}

// FactoryPanicError indicates a factory panicked during invocation. It
// captures the panic value and stack trace for debugging.
type FactoryPanicError struct {
	Factory string
	Panic   any
	Stack   []byte
	Trail   Trail
}

func (e *FactoryPanicError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("factory %s panicked: %v", e.Factory, e.Panic))

	if len(e.Trail) > 0 {
		b.WriteString("\n")
		b.WriteString(e.Trail.String())
	}

	if len(e.Stack) > 0 {
		b.WriteString("\n\nStack trace:\n")
		b.Write(e.Stack)
	}

	return b.String()
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	case reflect.Interface, reflect.Struct:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
