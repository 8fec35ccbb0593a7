package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ericoliveiras/tienda-virtual/internal/catalog"
	"github.com/ericoliveiras/tienda-virtual/internal/logging"
	"github.com/ericoliveiras/tienda-virtual/internal/lookup"
	"github.com/ericoliveiras/tienda-virtual/internal/metrics"
)

// AffiliateParam é o parâmetro com o código de vendedor anexado ao redirect.
const AffiliateParam = "sale_code"

// ProductLocator encontra a página de um produto no site do revendedor.
type ProductLocator interface {
	Lookup(ctx context.Context, productName string) (string, error)
}

type ProductHandler struct {
	Catalog       *catalog.Store
	Locator       ProductLocator
	AffiliateCode string
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
}

// ShowProduct redireciona para a página do produto no revendedor. A URL
// encontrada fica gravada no produto, então a busca só acontece na primeira
// visita bem-sucedida.
func (h *ProductHandler) ShowProduct(c *gin.Context) {
	ctx := c.Request.Context()
	log := logging.FromContext(c, h.Logger)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Message": "Producto no encontrado."})
		return
	}

	product, err := h.Catalog.Get(ctx, uint(id))
	if errors.Is(err, catalog.ErrProductNotFound) {
		c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Message": "Producto no encontrado."})
		return
	}
	if err != nil {
		log.Error("erro ao buscar produto", "product_id", id, "error", err)
		c.String(http.StatusInternalServerError, "Error al cargar el producto.")
		return
	}

	if product.ExternalURL == "" && h.Locator != nil {
		externalURL, err := h.Locator.Lookup(ctx, product.Name)
		switch {
		case err == nil:
			h.Metrics.LookupResult("found")
			if err := h.Catalog.SaveExternalURL(ctx, product.ID, externalURL); err != nil {
				log.Error("erro ao salvar url externa", "product_id", product.ID, "error", err)
			}
			product.ExternalURL = externalURL
		case errors.Is(err, lookup.ErrNotFound):
			h.Metrics.LookupResult("not_found")
		default:
			h.Metrics.LookupResult("error")
			log.Warn("busca no revendedor falhou", "product_id", product.ID, "error", err)
		}
	}

	if product.ExternalURL != "" {
		c.Redirect(http.StatusFound, h.withAffiliate(product.ExternalURL))
		return
	}

	c.HTML(http.StatusOK, "product_unavailable.html", gin.H{
		"Product": product,
	})
}

func (h *ProductHandler) withAffiliate(target string) string {
	if h.AffiliateCode == "" {
		return target
	}
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set(AffiliateParam, h.AffiliateCode)
	u.RawQuery = q.Encode()
	return u.String()
}
