package instagram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericoliveiras/tienda-virtual/internal/metrics"
)

const profileKey = "profile"

func postsKey(limit int) string {
	return fmt.Sprintf("posts:%d", limit)
}

// Fetcher é o que Feed precisa do cliente da Graph API.
type Fetcher interface {
	FetchPosts(ctx context.Context, token string, limit int) ([]Post, error)
	FetchProfile(ctx context.Context, token string) (*Profile, error)
}

// Feed junta cliente e cache. Publicações e perfil ficam em chaves
// separadas, cada uma com seu próprio tempo de expiração.
type Feed struct {
	token   string
	fetcher Fetcher
	cache   *Cache
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewFeed(token string, fetcher Fetcher, cache *Cache, m *metrics.Metrics, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		token:   token,
		fetcher: fetcher,
		cache:   cache,
		metrics: m,
		logger:  logger.With("component", "instagram_feed"),
	}
}

// Enabled indica se há token configurado.
func (f *Feed) Enabled() bool {
	return f.token != ""
}

// Posts devolve as publicações recentes. Sem token devolve nil sem acessar a rede.
func (f *Feed) Posts(ctx context.Context, limit int) ([]Post, error) {
	if !f.Enabled() {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	v, hit, err := f.cache.GetOrLoad(ctx, postsKey(limit), func(ctx context.Context) (any, error) {
		return f.fetcher.FetchPosts(ctx, f.token, limit)
	})
	f.record("posts", hit, err)
	if err != nil {
		return nil, err
	}
	return v.([]Post), nil
}

// Profile devolve o perfil da conta. Sem token devolve nil sem acessar a rede.
func (f *Feed) Profile(ctx context.Context) (*Profile, error) {
	if !f.Enabled() {
		return nil, nil
	}

	v, hit, err := f.cache.GetOrLoad(ctx, profileKey, func(ctx context.Context) (any, error) {
		return f.fetcher.FetchProfile(ctx, f.token)
	})
	f.record("profile", hit, err)
	if err != nil {
		return nil, err
	}
	return v.(*Profile), nil
}

// Invalidate descarta publicações e perfil em cache.
func (f *Feed) Invalidate() {
	f.cache.Flush()
}

func (f *Feed) record(kind string, hit bool, err error) {
	switch {
	case err != nil:
		f.metrics.CacheResult(kind, "miss")
		f.metrics.FetchError(kind)
		f.logger.Warn("falha ao buscar dados do instagram", "kind", kind, "error", err)
	case hit:
		f.metrics.CacheResult(kind, "hit")
	default:
		f.metrics.CacheResult(kind, "miss")
		f.logger.Debug("cache do instagram atualizado", "kind", kind)
	}
}
