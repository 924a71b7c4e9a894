package container

import (
	"fmt"
	"reflect"
	"runtime"
	"runtime/debug"
	"strings"
)

// ParamKind classifies a factory parameter at registration time. All
// signature analysis happens once, when the descriptor is created; resolution
// only walks the precomputed parameter list.
type ParamKind int

const (
	// ParamService - a declared type the container resolves recursively.
	ParamService ParamKind = iota

	// ParamSimple - a primitive-like value (see isSimpleType). Never
	// resolved recursively; must come from an Init setting or a default.
	ParamSimple

	// ParamFunc - a function-typed value. Treated like ParamSimple.
	ParamFunc

	// ParamResolver - the container injects a Resolver handle bound to the
	// in-flight resolution session.
	ParamResolver
)

// Param is one analyzed factory parameter.
type Param struct {
	// Name keys Init literals and appears in resolution trails. For
	// function factories it defaults to arg0..argN unless WithParamNames is
	// used; for implicit struct descriptors it is the field name.
	Name string

	// Type of the parameter.
	Type reflect.Type

	// Kind determines how the parameter is filled.
	Kind ParamKind

	// Optional parameters fall back to their zero value instead of failing
	// with MissingRequiredArgument or NullFactoryResult.
	Optional bool

	fieldIndex int // field position, for struct descriptors
}

// Descriptor is an analyzed factory: a callable producing exactly one
// instance of a declared type, with a typed parameter list. Descriptors are
// built once at registration; the resolver treats them as read-only.
type Descriptor struct {
	// Type is the declared type this descriptor produces.
	Type reflect.Type

	// Constructor is the reflected factory function. Invalid for implicit
	// struct descriptors.
	Constructor reflect.Value

	// ConstructorType is the type of the factory function.
	ConstructorType reflect.Type

	// Params are the analyzed parameters, in declaration order. A trailing
	// variadic parameter is excluded: the container never supplies variadic
	// arguments.
	Params []Param

	name         string
	returnsError bool
	structType   reflect.Type // set for implicit struct descriptors
}

// Name returns the factory identifier used in trails and error messages.
func (d *Descriptor) Name() string {
	return d.name
}

// DescriptorOption configures descriptor analysis.
type DescriptorOption interface {
	applyDescriptor(*descriptorOptions)
}

type descriptorOptions struct {
	paramNames []string
	optional   []string
}

type descriptorOptionFunc func(*descriptorOptions)

func (f descriptorOptionFunc) applyDescriptor(opts *descriptorOptions) {
	f(opts)
}

// WithParamNames assigns names to a function factory's parameters, in
// declaration order. Names are what Init settings and trails refer to;
// without this option parameters are named arg0..argN.
func WithParamNames(names ...string) DescriptorOption {
	return descriptorOptionFunc(func(opts *descriptorOptions) {
		opts.paramNames = names
	})
}

// WithOptional marks the named parameters as optional: when the container
// cannot supply a value they receive their zero value instead of failing the
// resolution.
func WithOptional(names ...string) DescriptorOption {
	return descriptorOptionFunc(func(opts *descriptorOptions) {
		opts.optional = append(opts.optional, names...)
	})
}

// NewDescriptor analyzes fn as a factory. The produced type is the first
// return value; an optional second return value must be an error. Signature
// analysis is done here, at registration time - resolution never inspects
// the function again.
func NewDescriptor(fn any, opts ...DescriptorOption) (*Descriptor, error) {
	if fn == nil {
		return nil, RegistrationError{Item: fn, Cause: ErrFactoryNil}
	}

	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, RegistrationError{Item: fn, Cause: ErrNotAFunction}
	}
	if v.IsNil() {
		return nil, RegistrationError{Item: fn, Cause: ErrFactoryNil}
	}

	t := v.Type()

	produced, returnsError, err := producedType(t)
	if err != nil {
		return nil, RegistrationError{Item: fn, Cause: err}
	}

	options := &descriptorOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt.applyDescriptor(options)
		}
	}

	numIn := t.NumIn()
	if t.IsVariadic() {
		numIn--
	}

	if options.paramNames != nil && len(options.paramNames) != numIn {
		return nil, RegistrationError{Item: fn, Cause: ErrParamNameCount}
	}

	params := make([]Param, numIn)
	for i := 0; i < numIn; i++ {
		pt := t.In(i)

		name := fmt.Sprintf("arg%d", i)
		if options.paramNames != nil {
			name = options.paramNames[i]
		}

		params[i] = Param{
			Name: name,
			Type: pt,
			Kind: paramKind(pt),
		}
	}

	for _, name := range options.optional {
		found := false
		for i := range params {
			if params[i].Name == name {
				params[i].Optional = true
				found = true
			}
		}
		if !found {
			return nil, RegistrationError{Item: fn, Cause: fmt.Errorf("%w: %q", ErrUnknownParamName, name)}
		}
	}

	return &Descriptor{
		Type:            produced,
		Constructor:     v,
		ConstructorType: t,
		Params:          params,
		name:            funcName(v),
		returnsError:    returnsError,
	}, nil
}

// newStructDescriptor builds the implicit descriptor for a concrete struct
// type: the Go rendition of "a concrete type's own constructor". It produces
// *T by filling the exported fields; field names are the parameter names.
//
// Fields tagged `container:"-"` are skipped entirely; fields tagged
// `container:"optional"` are optional. Simple-typed fields are always
// optional - their zero value plays the role of a default.
func newStructDescriptor(t reflect.Type) (*Descriptor, error) {
	elem := t
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return nil, RegistrationError{Item: t, Cause: ErrNotAStruct}
	}

	var params []Param
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("container")
		if tag == "-" {
			continue
		}

		kind := paramKind(field.Type)
		params = append(params, Param{
			Name:       field.Name,
			Type:       field.Type,
			Kind:       kind,
			Optional:   tag == "optional" || kind == ParamSimple || kind == ParamFunc,
			fieldIndex: i,
		})
	}

	produced := reflect.PointerTo(elem)

	return &Descriptor{
		Type:       produced,
		Params:     params,
		name:       "new(" + formatType(produced) + ")",
		structType: elem,
	}, nil
}

// invoke calls the factory with the assembled arguments. args is parallel to
// Params; an invalid value means "omitted" and is only legal for struct
// descriptors, where the field keeps its zero value. A panic inside the
// factory body is captured as a FactoryPanicError.
func (d *Descriptor) invoke(args []reflect.Value) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &FactoryPanicError{
				Factory: d.name,
				Panic:   r,
				Stack:   debug.Stack(),
			}
		}
	}()

	if d.structType != nil {
		v := reflect.New(d.structType)
		elem := v.Elem()
		for i, p := range d.Params {
			if args[i].IsValid() {
				elem.Field(p.fieldIndex).Set(args[i])
			}
		}
		return v.Interface(), nil
	}

	outs := d.Constructor.Call(args)
	if d.returnsError {
		if e, ok := outs[1].Interface().(error); ok && e != nil {
			return nil, e
		}
	}

	return outs[0].Interface(), nil
}

func producedType(t reflect.Type) (reflect.Type, bool, error) {
	switch t.NumOut() {
	case 1:
		if t.Out(0) == errorType {
			return nil, false, ErrNoProducedType
		}
		return t.Out(0), false, nil
	case 2:
		if t.Out(1) != errorType || t.Out(0) == errorType {
			return nil, false, ErrNoProducedType
		}
		return t.Out(0), true, nil
	default:
		return nil, false, ErrNoProducedType
	}
}

func paramKind(t reflect.Type) ParamKind {
	switch {
	case t == resolverType:
		return ParamResolver
	case t.Kind() == reflect.Func:
		return ParamFunc
	case isSimpleType(t):
		return ParamSimple
	default:
		return ParamService
	}
}

// funcName extracts a readable identifier for a factory function.
func funcName(v reflect.Value) string {
	if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
		name := fn.Name()
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
		name = strings.TrimSuffix(name, "-fm")
		if name != "" {
			return name
		}
	}
	return v.Type().String()
}
