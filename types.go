package container

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Of returns the type token for T. It is the way callers name a declared
// type when talking to the container:
//
//	svc, err := c.Resolve(container.Of[*UserService]())
//
// For interfaces the token is the interface type itself, not a pointer.
func Of[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	uuidType     = reflect.TypeOf(uuid.UUID{})
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
	resolverType = reflect.TypeOf((*Resolver)(nil)).Elem()
)

// isSimpleType reports whether t is a value type the container never builds
// on its own: primitives, time.Time, time.Duration and uuid.UUID. Such
// parameters must come from an Init setting or be optional.
func isSimpleType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	}

	switch t {
	case timeType, durationType, uuidType:
		return true
	}

	return false
}

// isNumericKind reports whether k is an integer or float kind.
func isNumericKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}

// isNilValue reports whether v is nil in the sense relevant to resolution:
// either a nil interface or a nil-able value holding nil.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}

	return false
}
