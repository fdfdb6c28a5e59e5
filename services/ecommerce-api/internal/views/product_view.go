package views

import "github.com/nimeshabuddhika/ecommerce-data-api/pkg/models"

// ProductRequest is the body of POST /products and PUT /products/:id.
type ProductRequest struct {
	Name  string   `json:"name" binding:"required,max=255"`
	Price *float64 `json:"price" binding:"required,gte=0"`
}

func (r ProductRequest) ToModel(id int64) models.Product {
	return models.Product{ID: id, Name: r.Name, Price: *r.Price}
}

type ProductResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func NewProductResponse(p models.Product) ProductResponse {
	return ProductResponse{ID: p.ID, Name: p.Name, Price: p.Price}
}

func NewProductResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p))
	}
	return out
}
