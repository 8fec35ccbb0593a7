package catalog

import (
	"fmt"

	"github.com/ericoliveiras/tienda-virtual/internal/model"
)

// ProductJSON é a projeção usada pelo scroll infinito do catálogo.
type ProductJSON struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
	DetailURL   string `json:"detail_url"`
}

// PageJSON é o corpo de /api/products/.
type PageJSON struct {
	Products []ProductJSON `json:"products"`
	HasNext  bool          `json:"has_next"`
	NextPage *int          `json:"next_page"`
}

// DetailURL monta o link da página de detalhe.
func DetailURL(id uint) string {
	return fmt.Sprintf("/product/%d/", id)
}

func ToJSON(p model.Product) ProductJSON {
	return ProductJSON{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		ImageURL:    p.Image(),
		DetailURL:   DetailURL(p.ID),
	}
}

func (p Page) JSON() PageJSON {
	out := PageJSON{
		Products: make([]ProductJSON, 0, len(p.Items)),
		HasNext:  p.HasNext,
		NextPage: p.NextPage,
	}
	for _, item := range p.Items {
		out.Products = append(out.Products, ToJSON(item))
	}
	return out
}
