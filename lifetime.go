package container

import (
	"encoding/json"
	"fmt"
)

// Lifetime specifies how long an instance built by the container lives.
// The lifetime determines whether instances are cached between Resolve calls.
type Lifetime int

const (
	// Singleton specifies that a single instance is created on first request
	// and cached for the lifetime of the container (or until Reset).
	// This is the default when no scope setting is present.
	Singleton Lifetime = iota

	// Transient specifies that a new instance is built on every request.
	// Transient instances are never cached.
	Transient
)

// String returns the string representation of the Lifetime.
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "Singleton"
	case Transient:
		return "Transient"
	default:
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
}

// IsValid checks if the lifetime is one of the known values.
func (l Lifetime) IsValid() bool {
	return l >= Singleton && l <= Transient
}

// MarshalText implements encoding.TextMarshaler.
func (l Lifetime) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Lifetime) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Singleton", "singleton", "SINGLETON":
		*l = Singleton
	case "Transient", "transient", "TRANSIENT":
		*l = Transient
	default:
		return LifetimeError{Value: string(text)}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l Lifetime) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Lifetime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	return l.UnmarshalText([]byte(s))
}
