package mathexpr

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	c := NewCache(2)
	calls := 0
	compile := func(src string) func() (*Expr, error) {
		return func() (*Expr, error) {
			calls++
			return Compile(src)
		}
	}
	a, err := c.GetOrCompile("1+1", compile("1+1"))
	require.NoError(t, err)
	b, err := c.GetOrCompile("1+1", compile("1+1"))
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)

	_, err = c.GetOrCompile("2", compile("2"))
	require.NoError(t, err)
	// Touch 1+1 so that 2 is least recently used.
	_, ok := c.Get("1+1")
	require.True(t, ok)
	_, err = c.GetOrCompile("3", compile("3"))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get("2")
	assert.False(t, ok, "least recently used entry survived")
	_, ok = c.Get("1+1")
	assert.True(t, ok)

	c.Purge()
	assert.Equal(t, 0, c.Len())
	_, ok = c.Get("3")
	assert.False(t, ok)
}

func TestCacheErrors(t *testing.T) {
	c := NewCache(0)
	calls := 0
	bad := func() (*Expr, error) {
		calls++
		return Compile("1+")
	}
	for i := 0; i < 2; i++ {
		e, err := c.GetOrCompile("1+", bad)
		assert.Nil(t, e)
		assert.True(t, errors.As(err, new(*SyntaxError)))
	}
	assert.Equal(t, 2, calls, "errors were cached")
	assert.Equal(t, 0, c.Len())
}

func TestCacheSet(t *testing.T) {
	c := NewCache(1)
	a := MustCompile("1")
	b := MustCompile("2")
	c.Set("k", a)
	c.Set("k", b)
	e, ok := c.Get("k")
	require.True(t, ok)
	assert.Same(t, b, e)
	assert.Equal(t, 1, c.Len())
}

func TestCacheConcurrent(t *testing.T) {
	c := NewCache(4)
	srcs := []string{"1", "2", "3", "4", "5", "6"}
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				src := srcs[(w+i)%len(srcs)]
				e, err := c.GetOrCompile(src, func() (*Expr, error) { return Compile(src) })
				if assert.NoError(t, err) {
					assert.Equal(t, src, e.Source())
				}
			}
		}(w)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 4)
}

func TestCacheKey(t *testing.T) {
	assert.NotEqual(t, cacheKey("'a\x00b'", []string{"a\x00b"}), cacheKey("'a", []string{"b'", "a", "b"}))
	assert.NotEqual(t, cacheKey("ab", []string{"c"}), cacheKey("a", []string{"bc"}))
	assert.NotEqual(t, cacheKey("a", []string{""}), cacheKey("a", nil))
	assert.NotEqual(t, cacheKey("'x'", []string{"x", "y"}), cacheKey("'x'", []string{"y", "x"}))
	assert.NotEqual(t, cacheKey("'x'", []string{"x"}), cacheKey("'x'", nil))
}

func TestCacheKeyCollision(t *testing.T) {
	c := NewCache(0)
	a, err := c.GetOrCompile(cacheKey("'a\x00b'", []string{"a\x00b"}), func() (*Expr, error) {
		return Compile("'a\x00b'", Vars("a\x00b"))
	})
	require.NoError(t, err)
	// This one fails to compile, so it must not find a's entry.
	b, err := c.GetOrCompile(cacheKey("'a", []string{"b'", "a", "b"}), func() (*Expr, error) {
		return Compile("'a", Vars("b'", "a", "b"))
	})
	assert.Error(t, err)
	assert.Nil(t, b)
	assert.NotNil(t, a)
}

func TestEvalStringCaches(t *testing.T) {
	defaultCache.Purge()
	_, err := EvalString("'a' + 1", Var{"a", 1})
	require.NoError(t, err)
	_, ok := defaultCache.Get(cacheKey("'a' + 1", []string{"a"}))
	assert.True(t, ok)
	r, err := EvalString("'a' + 1", Var{"a", 41})
	require.NoError(t, err)
	assert.Equal(t, 42.0, r)
}
