package handler

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/ericoliveiras/tienda-virtual/internal/database"
	"github.com/ericoliveiras/tienda-virtual/internal/logging"
	"github.com/ericoliveiras/tienda-virtual/internal/metrics"
)

// RouterDeps reúne os handlers e a infraestrutura usados pelo router.
type RouterDeps struct {
	Logger        *slog.Logger
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	DB            *gorm.DB
	TemplatesGlob string
	StaticRoot    string

	Home        *HomeHandler
	Catalog     *CatalogHandler
	Product     *ProductHandler
	Contact     *ContactHandler
	Reservation *ReservationHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logging.Middleware(d.Logger), d.Metrics.Middleware())

	router.LoadHTMLGlob(d.TemplatesGlob)
	if d.StaticRoot != "" {
		if info, err := os.Stat(d.StaticRoot); err == nil && info.IsDir() {
			router.Static("/static", d.StaticRoot)
		} else {
			d.Logger.Warn("diretório de estáticos não encontrado", "path", d.StaticRoot)
		}
	}

	// Páginas
	router.GET("/", d.Home.ShowHomePage)
	router.GET("/catalog/", d.Catalog.ShowCatalogPage)
	router.GET("/product/:id/", d.Product.ShowProduct)
	router.GET("/contact/", d.Contact.ShowContactPage)

	// Reservas
	router.GET("/reservations/", d.Reservation.ShowReservationPage)
	router.POST("/reservations/", d.Reservation.ProcessReservationForm)
	router.GET("/reservar/", d.Reservation.ShowBookingPage)
	router.GET("/reservas/crear/", d.Reservation.RedirectToBooking)
	router.POST("/reservas/crear/", d.Reservation.CreateReservation)
	router.GET("/reservas/available_slots/", d.Reservation.AvailableSlots)

	// API e operação
	router.GET("/api/products/", d.Catalog.ListProductsJSON)
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	router.GET("/healthz", func(c *gin.Context) {
		if err := database.Ping(d.DB); err != nil {
			logging.FromContext(c, d.Logger).Error("healthcheck falhou", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
