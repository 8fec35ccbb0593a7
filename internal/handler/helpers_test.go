package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ericoliveiras/tienda-virtual/internal/catalog"
	"github.com/ericoliveiras/tienda-virtual/internal/config"
	"github.com/ericoliveiras/tienda-virtual/internal/instagram"
	"github.com/ericoliveiras/tienda-virtual/internal/metrics"
	"github.com/ericoliveiras/tienda-virtual/internal/reservation"
	"github.com/ericoliveiras/tienda-virtual/internal/testutil"
)

const testSessionSecret = "segredo-de-teste-com-32-bytes!!!"

type fakeLocator struct {
	mu    sync.Mutex
	url   string
	err   error
	calls int
}

func (f *fakeLocator) Lookup(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.url, f.err
}

func (f *fakeLocator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeFeed struct {
	posts   []instagram.Post
	profile *instagram.Profile
	err     error
}

func (f *fakeFeed) Posts(context.Context, int) ([]instagram.Post, error) {
	return f.posts, f.err
}

func (f *fakeFeed) Profile(context.Context) (*instagram.Profile, error) {
	return f.profile, f.err
}

var testCompany = config.CompanyConfig{
	Address: "Calle Feria 12, 41003 Sevilla",
	Owner:   "Lucía Romero",
	Email:   "hola@tienda.test",
	Lat:     37.3979,
	Lng:     -5.9895,
}

type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	store    *sessions.CookieStore
	registry *prometheus.Registry
	locator  *fakeLocator
	product  *ProductHandler
}

// setupTestRouter monta o router completo sobre um SQLite em memória.
func setupTestRouter(t *testing.T, feed SocialFeed) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	logger := testutil.DiscardLogger()
	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	require.NoError(t, err)

	store := sessions.NewCookieStore([]byte(testSessionSecret))
	store.Options = &sessions.Options{Path: "/", MaxAge: 3600, HttpOnly: true}

	catalogStore := catalog.NewStore(db)
	locator := &fakeLocator{}
	product := &ProductHandler{Catalog: catalogStore, Locator: locator, Metrics: m, Logger: logger}

	router := NewRouter(RouterDeps{
		Logger:        logger,
		Metrics:       m,
		Gatherer:      registry,
		DB:            db,
		TemplatesGlob: testutil.TemplatesGlob(),
		StaticRoot:    filepath.Join(testutil.ProjectRoot(), "static"),
		Home:          &HomeHandler{Catalog: catalogStore, Feed: feed, Logger: logger},
		Catalog:       &CatalogHandler{Catalog: catalogStore, Logger: logger},
		Product:       product,
		Contact:       &ContactHandler{Company: testCompany},
		Reservation: &ReservationHandler{
			Reservations: reservation.NewStore(db),
			Store:        store,
			Metrics:      m,
			Logger:       logger,
		},
	})

	return &testEnv{router: router, db: db, store: store, registry: registry, locator: locator, product: product}
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionName {
			return c
		}
	}
	return nil
}
