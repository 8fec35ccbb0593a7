package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ericoliveiras/tienda-virtual/internal/catalog"
	"github.com/ericoliveiras/tienda-virtual/internal/logging"
)

const (
	CatalogPageSize = 12
	MaxPerPage      = 100
)

type CatalogHandler struct {
	Catalog *catalog.Store
	Logger  *slog.Logger
}

// ShowCatalogPage renderiza a primeira página do catálogo. O restante chega
// pelo scroll infinito via ListProductsJSON. Um ?page= fora do intervalo é
// ajustado para a página válida mais próxima.
func (h *CatalogHandler) ShowCatalogPage(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	p, err := h.Catalog.ClampPage(c.Request.Context(), page, CatalogPageSize)
	if err != nil {
		logging.FromContext(c, h.Logger).Error("erro ao buscar catálogo", "error", err)
		c.String(http.StatusInternalServerError, "Error al cargar el catálogo.")
		return
	}

	c.HTML(http.StatusOK, "catalog.html", gin.H{
		"Products": p.Items,
		"Page":     p.Page,
		"HasNext":  p.HasNext,
		"NextPage": p.NextPage,
		"PerPage":  CatalogPageSize,
	})
}

// ListProductsJSON atende /api/products/?page=&per_page=.
func (h *CatalogHandler) ListProductsJSON(c *gin.Context) {
	page, errPage := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, errPerPage := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(CatalogPageSize)))
	if errPage != nil || errPerPage != nil || page < 1 || perPage < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page y per_page deben ser enteros positivos."})
		return
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	p, err := h.Catalog.ListPage(c.Request.Context(), page, perPage)
	if err != nil {
		logging.FromContext(c, h.Logger).Error("erro ao paginar produtos", "page", page, "per_page", perPage, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al cargar productos."})
		return
	}

	c.JSON(http.StatusOK, p.JSON())
}
