// Package catalog concentra a leitura do catálogo: paginação estável por id,
// busca de produto e o destaque da vitrine.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ericoliveiras/tienda-virtual/internal/model"
)

var (
	ErrProductNotFound = errors.New("produto não encontrado")
	ErrInvalidPage     = errors.New("página inválida")
)

// Store lê e atualiza produtos via gorm.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Page é uma fatia do catálogo ordenado por id.
type Page struct {
	Items    []model.Product
	Page     int
	PerPage  int
	Total    int64
	HasNext  bool
	NextPage *int
}

// LastPage devolve o número da última página (1 para catálogo vazio).
func (p Page) LastPage() int {
	return lastPage(p.Total, p.PerPage)
}

func lastPage(total int64, perPage int) int {
	if total == 0 {
		return 1
	}
	return int(pageCount(total, perPage))
}

// pageCount é o número de páginas não vazias, sem somas que possam estourar.
func pageCount(total int64, perPage int) int64 {
	n := total / int64(perPage)
	if total%int64(perPage) != 0 {
		n++
	}
	return n
}

// ListPage devolve a página pedida. Uma página além da última não é erro:
// volta vazia e com HasNext false.
func (s *Store) ListPage(ctx context.Context, page, perPage int) (Page, error) {
	if page < 1 || perPage < 1 {
		return Page{}, fmt.Errorf("%w: page=%d per_page=%d", ErrInvalidPage, page, perPage)
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Product{}).Count(&total).Error; err != nil {
		return Page{}, fmt.Errorf("falha ao contar produtos: %w", err)
	}

	result := Page{Page: page, PerPage: perPage, Total: total, Items: []model.Product{}}

	// Compara antes de multiplicar: páginas enormes estourariam o offset.
	if int64(page-1) >= pageCount(total, perPage) {
		return result, nil
	}
	offset := int64(page-1) * int64(perPage)

	if err := s.db.WithContext(ctx).
		Order("id asc").
		Offset(int(offset)).
		Limit(perPage).
		Find(&result.Items).Error; err != nil {
		return Page{}, fmt.Errorf("falha ao buscar produtos: %w", err)
	}

	if offset+int64(len(result.Items)) < total {
		next := page + 1
		result.HasNext = true
		result.NextPage = &next
	}
	return result, nil
}

// ClampPage é a variante da página HTML: números fora do intervalo são
// ajustados para a página válida mais próxima.
func (s *Store) ClampPage(ctx context.Context, page, perPage int) (Page, error) {
	if perPage < 1 {
		return Page{}, fmt.Errorf("%w: per_page=%d", ErrInvalidPage, perPage)
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Product{}).Count(&total).Error; err != nil {
		return Page{}, fmt.Errorf("falha ao contar produtos: %w", err)
	}

	last := lastPage(total, perPage)
	switch {
	case page < 1:
		page = 1
	case page > last:
		page = last
	}
	return s.ListPage(ctx, page, perPage)
}

// All devolve todos os produtos em ordem de id.
func (s *Store) All(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := s.db.WithContext(ctx).Order("id asc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("falha ao buscar produtos: %w", err)
	}
	return products, nil
}

func (s *Store) Get(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id=%d", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar produto %d: %w", id, err)
	}
	return &product, nil
}

// SaveExternalURL memoriza a URL do revendedor no produto.
func (s *Store) SaveExternalURL(ctx context.Context, id uint, externalURL string) error {
	result := s.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Update("external_url", externalURL)
	if result.Error != nil {
		return fmt.Errorf("falha ao salvar url externa do produto %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", ErrProductNotFound, id)
	}
	return nil
}

// Featured devolve o produto em destaque (o destaque mais antigo) ou, se não
// houver destaque válido, o primeiro produto do catálogo.
func (s *Store) Featured(ctx context.Context) (*model.Product, error) {
	var item model.FeaturedItem
	err := s.db.WithContext(ctx).Preload("Product").Order("id asc").First(&item).Error
	if err == nil && item.Product.ID != 0 {
		return &item.Product, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("falha ao buscar destaque: %w", err)
	}

	var product model.Product
	err = s.db.WithContext(ctx).Order("id asc").First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar primeiro produto: %w", err)
	}
	return &product, nil
}

// AddFeatured marca um produto como destaque.
func (s *Store) AddFeatured(ctx context.Context, productID uint) (*model.FeaturedItem, error) {
	if _, err := s.Get(ctx, productID); err != nil {
		return nil, err
	}
	item := model.FeaturedItem{ProductID: productID}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("falha ao criar destaque: %w", err)
	}
	return &item, nil
}
