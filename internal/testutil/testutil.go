// Package testutil reúne helpers compartilhados pelos testes dos pacotes da loja.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ericoliveiras/tienda-virtual/internal/config"
	"github.com/ericoliveiras/tienda-virtual/internal/database"
	"github.com/ericoliveiras/tienda-virtual/internal/model"
)

// DiscardLogger descarta toda a saída.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ProjectRoot encontra a raiz do projeto a partir deste arquivo.
func ProjectRoot() string {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		panic("não foi possível obter informações do chamador")
	}
	return filepath.Join(filepath.Dir(currentFile), "..", "..")
}

// TemplatesGlob aponta para os templates reais, usados pelos testes de handler.
func TemplatesGlob() string {
	return filepath.Join(ProjectRoot(), "internal", "view", "templates", "*.html")
}

// NewDB cria um SQLite em memória já migrado. Cada chamada é um banco novo.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{DBDriver: config.DriverSQLite, DatabaseURL: ":memory:"}
	db, err := database.Connect(cfg, DiscardLogger())
	require.NoError(t, err, "falha ao criar banco de teste")
	require.NoError(t, database.Migrate(db), "falha ao migrar banco de teste")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateProduct grava um produto de teste.
func CreateProduct(t *testing.T, db *gorm.DB, name, price string) model.Product {
	t.Helper()
	product := model.Product{
		Name:        name,
		Description: "Descripción de " + name,
		Price:       decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(&product).Error, "falha ao criar produto de teste")
	return product
}
