package models

// Product maps to table `products`
type Product struct {
	ID    int64
	Name  string
	Price float64
}
