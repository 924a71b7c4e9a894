package container_test

import (
	"testing"

	"go.uber.org/dig"

	container "github.com/variasov/classic-container"
)

// The chain benchmarks build the Service -> Repository -> Database graph,
// comparing cached and uncached resolution, with go.uber.org/dig on the same
// graph as the baseline.

func newChainContainer(b *testing.B) *container.Container {
	b.Helper()

	c := container.New()
	if err := c.Register(newSQLDatabase, newRepository, newService); err != nil {
		b.Fatal(err)
	}
	return c
}

func BenchmarkResolve_SingletonChain(b *testing.B) {
	c := newChainContainer(b)

	// Warm the cache so the loop measures the cached path.
	if _, err := container.Resolve[*Service](c); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := container.Resolve[*Service](c); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolve_TransientChain(b *testing.B) {
	c := newChainContainer(b)
	if err := c.AddSettings(container.SettingsMap{
		typeOf[*Service]():    container.Scope(container.Transient),
		typeOf[*Repository](): container.Scope(container.Transient),
		typeOf[Database]():    container.Scope(container.Transient),
	}); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := container.Resolve[*Service](c); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolve_StructGraph(b *testing.B) {
	c := container.New()
	if err := c.Register(typeOf[Engine](), typeOf[Car](), typeOf[Garage]()); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := container.Resolve[*Garage](c); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDig_SingletonChain(b *testing.B) {
	c := dig.New()
	for _, fn := range []any{newSQLDatabase, newRepository, newService} {
		if err := c.Provide(fn); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.Invoke(func(*Service) {}); err != nil {
			b.Fatal(err)
		}
	}
}
