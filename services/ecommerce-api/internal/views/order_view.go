package views

import (
	"time"

	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/models"
)

// OrderRequest is the body of POST /orders. product_ids must be present but may be empty.
type OrderRequest struct {
	CustomerID int64   `json:"customer_id" binding:"required,min=1"`
	ProductIDs []int64 `json:"product_ids" binding:"required"`
}

type OrderResponse struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Date       time.Time `json:"date"`
	ProductIDs []int64   `json:"product_ids"`
}

// OrderDetailsResponse is the order plus its products, returned by GET /orders/:id.
type OrderDetailsResponse struct {
	Order    OrderResponse     `json:"order"`
	Products []ProductResponse `json:"products"`
}

func NewOrderDetailsResponse(o models.Order) OrderDetailsResponse {
	return OrderDetailsResponse{
		Order: OrderResponse{
			ID:         o.ID,
			CustomerID: o.CustomerID,
			Date:       o.CreatedAt,
			ProductIDs: o.ProductIDs(),
		},
		Products: NewProductResponses(o.Products),
	}
}
