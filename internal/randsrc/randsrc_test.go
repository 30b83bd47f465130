package randsrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForIsReproducible(t *testing.T) {
	t.Parallel()

	f := NewFactory(42)
	a, b := f.For("WASP-121 b"), f.For("WASP-121 b")
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
	assert.Equal(t, uint64(42), f.Seed())
}

func TestForSeparatesKeysAndSeeds(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, NewFactory(1).For("a").Uint64(), NewFactory(1).For("b").Uint64())
	assert.NotEqual(t, NewFactory(1).For("a").Uint64(), NewFactory(2).For("a").Uint64())
}
