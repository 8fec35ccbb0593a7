package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa um artigo exibido no catálogo da loja.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"not null;size:30"`
	Description string          `gorm:"size:100"`
	ImageURL    *string         `gorm:"size:500"` // Opcional; a vitrine usa "" quando ausente
	Price       decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	ExternalURL string          `gorm:"size:500"` // URL do revendedor, preenchida após a primeira busca
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Image devolve a URL da imagem ou string vazia.
func (p Product) Image() string {
	if p.ImageURL == nil {
		return ""
	}
	return *p.ImageURL
}

// FeaturedItem marca um produto como destaque da vitrine.
type FeaturedItem struct {
	ID        uint    `gorm:"primaryKey"`
	ProductID uint    `gorm:"not null;index"`
	Product   Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}
