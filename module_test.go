package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	container "github.com/variasov/classic-container"
)

func TestModule_Register(t *testing.T) {
	t.Run("registers every item", func(t *testing.T) {
		t.Parallel()

		storage := container.NewModule("storage",
			newSQLDatabase,
			newRepository,
			typeOf[Engine](),
		)

		c := container.New()
		require.NoError(t, c.Register(storage))

		assert.True(t, c.Contains(typeOf[Database]()))
		assert.True(t, c.Contains(typeOf[*Repository]()))
		assert.True(t, c.Contains(typeOf[*Engine]()))
	})

	t.Run("modules nest", func(t *testing.T) {
		t.Parallel()

		storage := container.NewModule("storage", newSQLDatabase, newRepository)
		app := container.NewModule("app", storage, newService)

		c := container.New()
		require.NoError(t, c.Register(app))

		svc, err := container.Resolve[*Service](c)
		require.NoError(t, err)
		assert.Equal(t, "sql", svc.Repo.DB.Ping())
	})

	t.Run("failing item names the module", func(t *testing.T) {
		t.Parallel()

		broken := container.NewModule("broken", newSQLDatabase, 42)

		err := container.New().Register(broken)
		require.Error(t, err)
		require.ErrorIs(t, err, container.ErrNotRegisterable)

		var modErr container.ModuleError
		require.ErrorAs(t, err, &modErr)
		assert.Equal(t, "broken", modErr.Module)
		assert.Contains(t, err.Error(), `module "broken"`)
	})

	t.Run("nested failure reports the whole path", func(t *testing.T) {
		t.Parallel()

		inner := container.NewModule("inner", 42)
		outer := container.NewModule("outer", inner)

		err := container.New().Register(outer)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `module "outer"`)
		assert.Contains(t, err.Error(), `module "inner"`)
	})
}

func TestModule_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "storage", container.NewModule("storage").Name())
}
