package container

// Module is an explicit manifest of registerable items: a named group of
// factories, type tokens and nested modules that is registered as a unit.
// Modules replace runtime package walking - the caller lists the contents
// directly:
//
//	var storage = container.NewModule("storage",
//	    NewPostgresPool,
//	    NewUserRepository,
//	    container.Of[TxManager](),
//	)
//
//	var app = container.NewModule("app",
//	    storage,
//	    NewHTTPServer,
//	)
//
//	err := c.Register(app)
//
// A failing item aborts registration with a ModuleError naming the module.
type Module struct {
	name  string
	items []any
}

// NewModule creates a module with the given name and items.
func NewModule(name string, items ...any) Module {
	return Module{name: name, items: items}
}

// Name returns the module name used in error reporting.
func (m Module) Name() string {
	return m.name
}
