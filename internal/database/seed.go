// /internal/database/seed.go
package database

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ericoliveiras/tienda-virtual/internal/model"
)

func strPtr(s string) *string { return &s }

// demoProducts é o catálogo inicial usado em desenvolvimento.
var demoProducts = []model.Product{
	{Name: "Fórmula 1 Vainilla", Description: "Batido nutricional sabor vainilla", Price: decimal.RequireFromString("39.90"), ImageURL: strPtr("/static/images/formula1.jpg")},
	{Name: "Té Concentrado", Description: "Bebida instantánea de hierbas", Price: decimal.RequireFromString("32.50")},
	{Name: "Aloe Concentrado", Description: "Bebida de aloe vera", Price: decimal.RequireFromString("28.00")},
	{Name: "Proteína PDM", Description: "Proteína en polvo", Price: decimal.RequireFromString("45.75")},
	{Name: "Masaje relajante", Description: "Sesión de 60 minutos", Price: decimal.RequireFromString("50.00")},
}

// SeedCatalog grava o catálogo de demonstração e marca o primeiro produto
// como destaque. Não faz nada se já existirem produtos.
func SeedCatalog(db *gorm.DB, logger *slog.Logger) (int, error) {
	var count int64
	if err := db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("falha ao contar produtos: %w", err)
	}
	if count > 0 {
		logger.Info("catálogo já possui produtos, seed ignorado", "products", count)
		return 0, nil
	}

	products := make([]model.Product, len(demoProducts))
	copy(products, demoProducts)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("falha ao criar produtos: %w", err)
		}
		featured := model.FeaturedItem{ProductID: products[0].ID}
		if err := tx.Create(&featured).Error; err != nil {
			return fmt.Errorf("falha ao criar destaque: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("catálogo de demonstração criado", "products", len(products))
	return len(products), nil
}
