package container

import (
	"reflect"
	"strings"
)

// Frame is one step of a resolution trail: the type being built, the factory
// chosen for it and the argument being descended into. Factory and Arg are
// empty until the corresponding step of the algorithm reaches them and render
// as "-".
type Frame struct {
	Target  reflect.Type
	Factory string
	Arg     string
}

// Trail is the ordered diagnostic record of the build steps attempted during
// one top-level Resolve call, outermost request first. It is discarded on
// success and attached verbatim to the failure otherwise.
type Trail []Frame

// String renders the trail, one line per frame:
//
//	Target: <type>, Factory: <name or "-">, Arg: <name or "-">
func (t Trail) String() string {
	var b strings.Builder
	for i, f := range t {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Target: ")
		b.WriteString(formatType(f.Target))
		b.WriteString(", Factory: ")
		b.WriteString(orDash(f.Factory))
		b.WriteString(", Arg: ")
		b.WriteString(orDash(f.Arg))
	}
	return b.String()
}

func (t Trail) clone() Trail {
	if len(t) == 0 {
		return nil
	}
	out := make(Trail, len(t))
	copy(out, t)
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
