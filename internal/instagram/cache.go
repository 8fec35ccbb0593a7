package instagram

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Loader busca o valor quando a chave não está no cache.
type Loader func(ctx context.Context) (any, error)

// Cache guarda valores por chave durante o TTL. Várias requisições que
// encontram a mesma chave expirada disparam uma única busca (singleflight);
// erros nunca são guardados, então a próxima requisição tenta de novo.
type Cache struct {
	store *gocache.Cache
	group singleflight.Group
	ttl   time.Duration
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

func (c *Cache) Invalidate(key string) {
	c.store.Delete(key)
}

func (c *Cache) Flush() {
	c.store.Flush()
}

// GetOrLoad devolve o valor em cache ou chama load. hit indica se veio do
// cache. A busca compartilhada não é cancelada se um dos chamadores desistir.
func (c *Cache) GetOrLoad(ctx context.Context, key string, load Loader) (value any, hit bool, err error) {
	if v, ok := c.store.Get(key); ok {
		return v, true, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Outro chamador pode ter preenchido a chave enquanto esperávamos.
		if v, ok := c.store.Get(key); ok {
			return v, nil
		}
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v, false, nil
}
