package models

// Customer maps to table `customers`
type Customer struct {
	ID    int64
	Name  string
	Email string
	Phone string
}
