package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericoliveiras/tienda-virtual/internal/config"
)

type ContactHandler struct {
	Company config.CompanyConfig
}

// ShowContactPage exibe os dados de contato e o mapa.
func (h *ContactHandler) ShowContactPage(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"Address": h.Company.Address,
		"Owner":   h.Company.Owner,
		"Email":   h.Company.Email,
		"Map": gin.H{
			"Lat":     h.Company.Lat,
			"Lng":     h.Company.Lng,
			"Address": h.Company.Address,
		},
	})
}
