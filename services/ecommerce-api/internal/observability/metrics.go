package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ecommerce_api",
			Name:      "orders_created_total",
			Help:      "Orders committed to the database",
		},
	)

	// OrderProductsIgnored counts requested product IDs that matched no product.
	OrderProductsIgnored = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ecommerce_api",
			Name:      "order_products_ignored_total",
			Help:      "Requested product IDs dropped from orders because no such product exists",
		},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecommerce_api",
			Name:      "events_published_total",
			Help:      "Domain events handed to the broker by result",
		},
		[]string{"topic", "result"},
	)
)
