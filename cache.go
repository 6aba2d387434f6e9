package mathexpr

import (
	"container/list"
	"strconv"
	"strings"
	"sync"
)

// DefaultCacheSize is the capacity of the cache used by EvalString.
const DefaultCacheSize = 256

var defaultCache = NewCache(DefaultCacheSize)

type cacheEntry struct {
	key  string
	expr *Expr
}

// Cache is an LRU cache of compiled expressions. Once the capacity is
// reached, the least recently used entry is evicted. It is safe for
// concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

// NewCache creates a cache holding up to capacity expressions. A capacity
// less than 1 means DefaultCacheSize.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached expression for key, if any, and marks it most
// recently used.
func (c *Cache) Get(key string) (*Expr, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).expr, true
}

// Set caches an expression, evicting the least recently used entry if the
// cache is full.
func (c *Cache) Set(key string, e *Expr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).expr = e
		c.ll.MoveToFront(el)
		return
	}
	if c.ll.Len() >= c.capacity {
		if el := c.ll.Back(); el != nil {
			c.ll.Remove(el)
			delete(c.items, el.Value.(*cacheEntry).key)
		}
	}
	c.items[key] = c.ll.PushFront(&cacheEntry{key: key, expr: e})
}

// GetOrCompile returns the cached expression for key or calls compile and
// caches its result. Errors are not cached. Concurrent misses on one key may
// each call compile; the last result wins.
func (c *Cache) GetOrCompile(key string, compile func() (*Expr, error)) (*Expr, error) {
	if e, ok := c.Get(key); ok {
		return e, nil
	}
	e, err := compile()
	if err != nil {
		return nil, err
	}
	c.Set(key, e)
	return e, nil
}

// Len returns the number of cached expressions.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Purge removes all entries.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// cacheKey encodes an expression and its variable names. Each part is
// prefixed by its length so that no two inputs share a key.
func cacheKey(src string, names []string) string {
	var b strings.Builder
	for _, s := range append([]string{src}, names...) {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	return b.String()
}
