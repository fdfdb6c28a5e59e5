package models

// CustomerAccount maps to table `customer_accounts`.
// PasswordHash holds a bcrypt hash, never the plain-text password.
type CustomerAccount struct {
	ID           int64
	Username     string
	PasswordHash string
	CustomerID   int64
	// Associations
	Customer Customer
}
