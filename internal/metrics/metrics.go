// Package metrics reúne os contadores Prometheus da loja.
package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tienda"

// Metrics agrupa os coletores. Um valor nil é válido e não registra nada,
// o que simplifica os testes dos pacotes que recebem métricas opcionais.
type Metrics struct {
	ExternalLookups      *prometheus.CounterVec
	InstagramCache       *prometheus.CounterVec
	InstagramFetchErrors *prometheus.CounterVec
	ReservationsCreated  *prometheus.CounterVec
	HTTPRequests         *prometheus.CounterVec
}

// New cria e registra os coletores em reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ExternalLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "external_lookups_total",
			Help:      "Buscas de produto no site do revendedor, por resultado.",
		}, []string{"result"}),
		InstagramCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instagram_cache_requests_total",
			Help:      "Acessos ao cache do feed do Instagram.",
		}, []string{"kind", "result"}),
		InstagramFetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instagram_fetch_errors_total",
			Help:      "Falhas ao consultar a Graph API do Instagram.",
		}, []string{"kind"}),
		ReservationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "Reservas gravadas, por endpoint.",
		}, []string{"endpoint"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requisições HTTP atendidas.",
		}, []string{"method", "route", "status"}),
	}

	for _, c := range []prometheus.Collector{
		m.ExternalLookups, m.InstagramCache, m.InstagramFetchErrors,
		m.ReservationsCreated, m.HTTPRequests,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) LookupResult(result string) {
	if m == nil {
		return
	}
	m.ExternalLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) CacheResult(kind, result string) {
	if m == nil {
		return
	}
	m.InstagramCache.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) FetchError(kind string) {
	if m == nil {
		return
	}
	m.InstagramFetchErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) ReservationCreated(endpoint string) {
	if m == nil {
		return
	}
	m.ReservationsCreated.WithLabelValues(endpoint).Inc()
}

// Middleware conta as requisições pela rota registrada (não pela URL crua).
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
