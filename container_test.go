package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	container "github.com/variasov/classic-container"
)

func TestContainer_New(t *testing.T) {
	t.Run("creates empty container", func(t *testing.T) {
		t.Parallel()

		c := container.New()

		assert.NotNil(t, c)
		assert.NotEmpty(t, c.ID())
		assert.Contains(t, c.String(), c.ID())
	})

	t.Run("two containers have distinct identities", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t, container.New().ID(), container.New().ID())
	})
}

func TestContainer_Register(t *testing.T) {
	tests := []struct {
		name     string
		items    []any
		wantErr  assert.ErrorAssertionFunc
		validate func(t *testing.T, c *container.Container)
	}{
		{
			name:    "factory function keyed by produced type",
			items:   []any{newSQLDatabase},
			wantErr: assert.NoError,
			validate: func(t *testing.T, c *container.Container) {
				assert.True(t, c.Contains(typeOf[Database]()))
			},
		},
		{
			name:    "interface token becomes abstract entry",
			items:   []any{typeOf[Database]()},
			wantErr: assert.NoError,
			validate: func(t *testing.T, c *container.Container) {
				assert.True(t, c.Contains(typeOf[Database]()))
			},
		},
		{
			name:    "struct token gets implicit factory keyed by pointer",
			items:   []any{typeOf[Engine]()},
			wantErr: assert.NoError,
			validate: func(t *testing.T, c *container.Container) {
				assert.True(t, c.Contains(typeOf[*Engine]()))
			},
		},
		{
			name:    "rejects nil",
			items:   []any{nil},
			wantErr: assert.Error,
		},
		{
			name:    "rejects plain value",
			items:   []any{42},
			wantErr: assert.Error,
		},
		{
			name:    "rejects struct instance",
			items:   []any{Engine{}},
			wantErr: assert.Error,
		},
		{
			name:    "rejects factory without produced type",
			items:   []any{func() {}},
			wantErr: assert.Error,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := container.New()
			err := c.Register(tt.items...)

			tt.wantErr(t, err)
			if tt.validate != nil {
				tt.validate(t, c)
			}
		})
	}

	t.Run("non-registerable item reports sentinel", func(t *testing.T) {
		t.Parallel()

		err := container.New().Register(42)
		assert.ErrorIs(t, err, container.ErrNotRegisterable)
	})
}

func TestContainer_Resolve_StructGraph(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, c.Register(typeOf[Engine](), typeOf[Car](), typeOf[Garage]()))

	resolved, err := container.Resolve[*Garage](c)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.NotNil(t, resolved.Car)
	require.NotNil(t, resolved.Engine)
	require.NotNil(t, resolved.Car.Engine)

	// Diamond dependency shares the singleton.
	assert.Same(t, resolved.Engine, resolved.Car.Engine)
}

func TestContainer_Resolve_Interface(t *testing.T) {
	t.Run("single implementation resolves", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Register(newSQLDatabase))

		db, err := container.Resolve[Database](c)
		require.NoError(t, err)
		assert.IsType(t, &sqlDatabase{}, db)
	})

	t.Run("no implementation fails", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Register(typeOf[Database]()))

		_, err := container.Resolve[Database](c)
		assert.ErrorIs(t, err, container.ErrNoImplementation)
	})

	t.Run("unregistered type fails the same way", func(t *testing.T) {
		t.Parallel()

		_, err := container.Resolve[Database](container.New())
		assert.ErrorIs(t, err, container.ErrNoImplementation)
	})

	t.Run("two implementations are ambiguous", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Register(newSQLDatabase, newMemoryDatabase))

		_, err := container.Resolve[Database](c)
		require.ErrorIs(t, err, container.ErrAmbiguousImplementation)

		var resErr *container.ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, container.AmbiguousImplementation, resErr.Kind)
		assert.Len(t, resErr.Candidates, 2)
	})

	t.Run("factory setting disambiguates", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Register(newSQLDatabase, newMemoryDatabase))
		require.NoError(t, c.AddSettings(container.SettingsMap{
			typeOf[Database](): container.Factory(newMemoryDatabase),
		}))

		db, err := container.Resolve[Database](c)
		require.NoError(t, err)
		assert.IsType(t, &memoryDatabase{}, db)
	})

	t.Run("dependent service receives the bound implementation", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Register(newSQLDatabase, newRepository, newService))

		svc, err := container.Resolve[*Service](c)
		require.NoError(t, err)
		require.NotNil(t, svc.Repo)
		assert.Equal(t, "sql", svc.Repo.DB.Ping())
	})
}

func TestContainer_Resolve_Instance(t *testing.T) {
	t.Parallel()

	ready := &memoryDatabase{}

	c := container.New()
	require.NoError(t, c.Register(newSQLDatabase))
	require.NoError(t, c.AddSettings(container.SettingsMap{
		typeOf[Database](): container.Instance(ready),
	}))

	// The instance wins over any registered factory.
	db, err := container.Resolve[Database](c)
	require.NoError(t, err)
	assert.Same(t, ready, any(db))
}

func TestContainer_Resolve_Init(t *testing.T) {
	t.Run("literal wins over recursive resolution", func(t *testing.T) {
		t.Parallel()

		literal := &sqlDatabase{dsn: "literal"}

		c := container.New()
		// Database is registered and resolvable, but the literal takes
		// precedence for this argument.
		require.NoError(t, c.Register(newMemoryDatabase))

		repo, err := container.NewDescriptor(newRepository, container.WithParamNames("db"))
		require.NoError(t, err)
		require.NoError(t, c.Register(repo))

		require.NoError(t, c.AddSettings(container.SettingsMap{
			typeOf[*Repository](): container.Init(container.Values{"db": literal}),
		}))

		resolved, err := container.Resolve[*Repository](c)
		require.NoError(t, err)
		assert.Same(t, literal, resolved.DB)
	})

	t.Run("settings key is auto-registered", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.AddSettings(container.SettingsMap{
			typeOf[Car](): container.NewSettings(),
		}))

		assert.True(t, c.Contains(typeOf[*Car]()))
	})

	t.Run("bare struct key applies to the produced pointer type", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Register(typeOf[Engine]()))

		// The implicit factory for Engine produces *Engine; settings keyed
		// by the bare struct follow it there.
		require.NoError(t, c.AddSettings(container.SettingsMap{
			typeOf[Engine](): container.Scope(container.Transient),
		}))

		first, err := container.Resolve[*Engine](c)
		require.NoError(t, err)
		second, err := container.Resolve[*Engine](c)
		require.NoError(t, err)
		assert.NotSame(t, first, second)
	})
}

func TestContainer_Lifetime(t *testing.T) {
	t.Run("singleton idempotence", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Register(newSQLDatabase))

		first, err := container.Resolve[Database](c)
		require.NoError(t, err)
		second, err := container.Resolve[Database](c)
		require.NoError(t, err)

		assert.Same(t, any(first), any(second))
	})

	t.Run("transient distinctness", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Register(newSQLDatabase))
		require.NoError(t, c.AddSettings(container.SettingsMap{
			typeOf[Database](): container.Scope(container.Transient),
		}))

		first, err := container.Resolve[Database](c)
		require.NoError(t, err)
		second, err := container.Resolve[Database](c)
		require.NoError(t, err)

		assert.NotSame(t, any(first), any(second))
	})

	t.Run("reset breaks singleton identity and drops settings", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Register(typeOf[Engine]()))
		require.NoError(t, c.AddSettings(container.SettingsMap{
			typeOf[Database](): container.Factory(newSQLDatabase),
		}))

		_, err := container.Resolve[Database](c)
		require.NoError(t, err)

		first, err := container.Resolve[*Engine](c)
		require.NoError(t, err)

		c.Reset()

		second, err := container.Resolve[*Engine](c)
		require.NoError(t, err)
		assert.NotSame(t, first, second)

		// Settings were dropped; the abstract Database is unresolvable
		// again. The registry survives: Engine still resolves.
		_, err = container.Resolve[Database](c)
		assert.ErrorIs(t, err, container.ErrNoImplementation)
	})
}

func TestContainer_AddSettings_Validation(t *testing.T) {
	tests := []struct {
		name     string
		settings *container.Settings
		wantErr  error
	}{
		{
			name:     "instance then factory conflicts",
			settings: container.Instance(&memoryDatabase{}).Factory(newSQLDatabase),
			wantErr:  container.ErrInstanceExclusive,
		},
		{
			name:     "instance then init conflicts",
			settings: container.Instance(&memoryDatabase{}).Init(container.Values{"a": 1}),
			wantErr:  container.ErrInstanceExclusive,
		},
		{
			name:     "transient then instance conflicts",
			settings: container.Scope(container.Transient).Instance(&memoryDatabase{}),
			wantErr:  container.ErrInstanceExclusive,
		},
		{
			name:     "nil instance",
			settings: container.Instance(nil),
			wantErr:  container.ErrInstanceNil,
		},
		{
			name:     "nil settings",
			settings: nil,
			wantErr:  container.ErrSettingsNil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := container.New()
			err := c.AddSettings(container.SettingsMap{
				typeOf[Database](): tt.settings,
			})

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var setErr container.SettingsError
			assert.True(t, errors.As(err, &setErr))
		})
	}

	t.Run("last write wins per key", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Register(newSQLDatabase, newMemoryDatabase))

		require.NoError(t, c.AddSettings(container.SettingsMap{
			typeOf[Database](): container.Factory(newSQLDatabase),
		}))
		require.NoError(t, c.AddSettings(container.SettingsMap{
			typeOf[Database](): container.Factory(newMemoryDatabase),
		}))

		db, err := container.Resolve[Database](c)
		require.NoError(t, err)
		assert.IsType(t, &memoryDatabase{}, db)
	})
}
