package views

import "github.com/nimeshabuddhika/ecommerce-data-api/pkg/models"

type CreateAccountRequest struct {
	Username   string `json:"username" binding:"required,max=255"`
	Password   string `json:"password" binding:"required,max=72"`
	CustomerID int64  `json:"customer_id" binding:"required,min=1"`
}

// UpdateAccountRequest carries new credentials; the owning customer cannot change.
type UpdateAccountRequest struct {
	Username string `json:"username" binding:"required,max=255"`
	Password string `json:"password" binding:"required,max=72"`
}

// AccountResponse never includes the password or its hash.
type AccountResponse struct {
	ID         int64             `json:"id"`
	Username   string            `json:"username"`
	CustomerID int64             `json:"customer_id"`
	Customer   *CustomerResponse `json:"customer,omitempty"`
}

func NewAccountResponse(a models.CustomerAccount) AccountResponse {
	resp := AccountResponse{ID: a.ID, Username: a.Username, CustomerID: a.CustomerID}
	if a.Customer.ID != 0 {
		c := NewCustomerResponse(a.Customer)
		resp.Customer = &c
	}
	return resp
}
