package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericoliveiras/tienda-virtual/internal/catalog"
	"github.com/ericoliveiras/tienda-virtual/internal/lookup"
	tutil "github.com/ericoliveiras/tienda-virtual/internal/testutil"
)

func TestShowProductRedirectsAndPersistsURL(t *testing.T) {
	env := setupTestRouter(t, nil)
	p := tutil.CreateProduct(t, env.db, "Té Concentrado", "24.00")
	env.locator.url = "https://www.herbalife.com/es-es/u/product/te-concentrado"

	w := env.get(fmt.Sprintf("/product/%d/", p.ID))

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, env.locator.url, w.Header().Get("Location"))

	saved, err := catalog.NewStore(env.db).Get(t.Context(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, env.locator.url, saved.ExternalURL)

	// Segunda visita usa a URL gravada, sem nova busca.
	w = env.get(fmt.Sprintf("/product/%d/", p.ID))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 1, env.locator.Calls())
	assert.InDelta(t, 1, testutil.ToFloat64(env.product.Metrics.ExternalLookups.WithLabelValues("found")), 0)
}

func TestShowProductAppendsAffiliateCode(t *testing.T) {
	env := setupTestRouter(t, nil)
	env.product.AffiliateCode = "ES123"
	p := tutil.CreateProduct(t, env.db, "Aloe", "30.00")
	env.locator.url = "https://www.herbalife.com/es-es/u/product/aloe?lang=es"

	w := env.get(fmt.Sprintf("/product/%d/", p.ID))

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://www.herbalife.com/es-es/u/product/aloe?lang=es&sale_code=ES123", w.Header().Get("Location"))
}

func TestShowProductUnavailable(t *testing.T) {
	for name, lookupErr := range map[string]error{
		"não encontrado":  lookup.ErrNotFound,
		"site fora do ar": lookup.ErrUnavailable,
	} {
		t.Run(name, func(t *testing.T) {
			env := setupTestRouter(t, nil)
			p := tutil.CreateProduct(t, env.db, "Producto raro", "9.99")
			env.locator.err = lookupErr

			w := env.get(fmt.Sprintf("/product/%d/", p.ID))

			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "Oops, este producto no está disponible")

			saved, err := catalog.NewStore(env.db).Get(t.Context(), p.ID)
			require.NoError(t, err)
			assert.Empty(t, saved.ExternalURL)
		})
	}
}

func TestShowProductNotFound(t *testing.T) {
	env := setupTestRouter(t, nil)

	for _, path := range []string{"/product/999/", "/product/abc/"} {
		w := env.get(path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Body.String(), "Producto no encontrado.")
	}
	assert.Zero(t, env.locator.Calls())
}
