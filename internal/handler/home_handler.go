package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericoliveiras/tienda-virtual/internal/catalog"
	"github.com/ericoliveiras/tienda-virtual/internal/instagram"
	"github.com/ericoliveiras/tienda-virtual/internal/logging"
)

const (
	instagramPostLimit  = 6
	defaultFeaturedName = "Artículo"
)

// SocialFeed é o feed do Instagram exibido na home.
type SocialFeed interface {
	Posts(ctx context.Context, limit int) ([]instagram.Post, error)
	Profile(ctx context.Context) (*instagram.Profile, error)
}

type HomeHandler struct {
	Catalog *catalog.Store
	Feed    SocialFeed
	Logger  *slog.Logger
}

// ShowHomePage renderiza a home com o produto em destaque, o carrossel de
// produtos e, se configurado, o feed do Instagram. Falhas no feed viram uma
// home sem feed.
func (h *HomeHandler) ShowHomePage(c *gin.Context) {
	ctx := c.Request.Context()
	log := logging.FromContext(c, h.Logger)

	featuredName := defaultFeaturedName
	featured, err := h.Catalog.Featured(ctx)
	switch {
	case err == nil:
		featuredName = featured.Name
	case !errors.Is(err, catalog.ErrProductNotFound):
		log.Error("erro ao buscar produto em destaque", "error", err)
	}

	products, err := h.Catalog.All(ctx)
	if err != nil {
		log.Error("erro ao buscar produtos da home", "error", err)
	}

	var (
		posts   []instagram.Post
		profile *instagram.Profile
	)
	if h.Feed != nil {
		if posts, err = h.Feed.Posts(ctx, instagramPostLimit); err != nil {
			log.Warn("feed do instagram indisponível", "error", err)
			posts = nil
		}
		if profile, err = h.Feed.Profile(ctx); err != nil {
			log.Warn("perfil do instagram indisponível", "error", err)
			profile = nil
		}
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"FeaturedName":     featuredName,
		"Featured":         featured,
		"Products":         products,
		"InstagramPosts":   posts,
		"InstagramProfile": profile,
	})
}
