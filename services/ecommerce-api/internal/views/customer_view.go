package views

import "github.com/nimeshabuddhika/ecommerce-data-api/pkg/models"

// CustomerRequest is the body of POST /customers and PUT /customers/:id.
// All three fields must be present; email and phone may be empty strings.
type CustomerRequest struct {
	Name  string  `json:"name" binding:"required,max=255"`
	Email *string `json:"email" binding:"required,max=320"`
	Phone *string `json:"phone" binding:"required,max=15"`
}

func (r CustomerRequest) ToModel(id int64) models.Customer {
	return models.Customer{ID: id, Name: r.Name, Email: *r.Email, Phone: *r.Phone}
}

type CustomerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func NewCustomerResponse(c models.Customer) CustomerResponse {
	return CustomerResponse{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone}
}

func NewCustomerResponses(customers []models.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, NewCustomerResponse(c))
	}
	return out
}
