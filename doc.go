// Package container provides a classic IoC container for Go applications.
// Given a requested type it recursively constructs that type and everything
// it transitively depends on, selecting factories from a registry and
// applying per-type settings.
//
// # Overview
//
// The container keeps three stores:
//   - a registry mapping declared types to the factories able to produce them;
//   - a settings store with per-type overrides (literal arguments, explicit
//     factory, lifecycle scope, ready-made instance);
//   - a singleton cache of already-built instances.
//
// # Basic Usage
//
// Create a container, register factories, resolve:
//
//	c := container.New()
//
//	err := c.Register(
//	    NewPostgresPool,   // func(cfg *Config) (*pgx.Pool, error)
//	    NewUserRepository, // func(pool *pgx.Pool) *UserRepository
//	    NewUserService,    // func(repo *UserRepository) *UserService
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	svc, err := container.Resolve[*UserService](c)
//
// A factory's produced type is its first return value; a second return value
// must be an error. Registering a struct type token records an implicit
// factory that fills the exported fields:
//
//	err := c.Register(container.Of[UserService]())
//
// # Settings
//
// Settings customize how a single type is resolved. The four fields are
// init (literal arguments), factory (explicit choice), scope (lifecycle)
// and instance (ready-made object):
//
//	err := c.AddSettings(container.SettingsMap{
//	    container.Of[Storage]():  container.Factory(NewS3Storage),
//	    container.Of[*Worker]():  container.Scope(container.Transient),
//	    container.Of[*Config]():  container.Instance(cfg),
//	})
//
// When several factories are registered for one type, the container never
// guesses: resolution fails until a Factory setting disambiguates.
//
// # Lifecycle
//
// Singleton (the default) builds once and caches until Reset; Transient
// builds on every request. Reset clears settings and cached singletons but
// keeps the registry.
//
// # Thread Safety
//
// All container operations are safe for concurrent use. A single mutex
// serializes registration, settings changes, Reset and resolution, so Reset
// acts as a barrier and can never observe a half-built graph.
//
// # Error Handling
//
// Resolution failures are reported as a *ResolutionError carrying a failure
// kind (NoImplementation, AmbiguousImplementation, MissingRequiredArgument,
// NullFactoryResult, CircularDependency, DepthExceeded) and the full
// resolution trail - one line per attempted build step. Errors returned by a
// factory's own body propagate unchanged, wrapped in *FactoryError with the
// trail attached. Sentinel errors (ErrNoImplementation, ...) support
// errors.Is.
package container
