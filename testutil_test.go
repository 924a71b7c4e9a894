package container_test

import (
	"reflect"

	container "github.com/variasov/classic-container"
)

// ============================================================================
// Shared Test Types
// ============================================================================

// Database is the abstract dependency used across tests. It has no implicit
// factory; implementations are bound through registration or settings.
type Database interface {
	Ping() string
}

type sqlDatabase struct{ dsn string }

func (d *sqlDatabase) Ping() string { return "sql" }

func newSQLDatabase() Database { return &sqlDatabase{dsn: "postgres://localhost"} }

type memoryDatabase struct{}

func (d *memoryDatabase) Ping() string { return "memory" }

func newMemoryDatabase() Database { return &memoryDatabase{} }

// Repository depends on the abstract Database.
type Repository struct {
	DB Database
}

func newRepository(db Database) *Repository { return &Repository{DB: db} }

// Service sits on top of Repository, giving a three-level chain
// Service -> Repository -> Database for trail tests.
type Service struct {
	Repo *Repository
}

func newService(repo *Repository) *Service { return &Service{Repo: repo} }

// Engine / Car / Garage form a diamond: Garage depends on Car and Engine,
// Car depends on Engine. Built via implicit struct descriptors. Engine
// carries a field so that distinct instances have distinct addresses and
// identity assertions actually compare something.
type Engine struct {
	Displacement int
}

type Car struct {
	Engine *Engine
}

type Garage struct {
	Engine *Engine
	Car    *Car
}

// Cyclic graphs for cycle detection.
type cycleA struct {
	B *cycleB
}

type cycleB struct {
	A *cycleA
}

type selfReferenced struct {
	Self *selfReferenced
}

// chainDescriptors returns named descriptors for the Service chain so trail
// assertions can use readable argument names.
func chainDescriptors() (svc, repo *container.Descriptor, err error) {
	svc, err = container.NewDescriptor(newService, container.WithParamNames("repo"))
	if err != nil {
		return nil, nil, err
	}
	repo, err = container.NewDescriptor(newRepository, container.WithParamNames("db"))
	if err != nil {
		return nil, nil, err
	}
	return svc, repo, nil
}

func typeOf[T any]() reflect.Type {
	return container.Of[T]()
}
