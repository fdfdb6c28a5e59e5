package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "postgres://*****:*****@db:5432/shop?sslmode=disable",
		maskDSN("postgres://user:p@ss@db:5432/shop?sslmode=disable"))
	assert.Equal(t, "postgres://db:5432/shop", maskDSN("postgres://db:5432/shop"))
	assert.Equal(t, "not a dsn", maskDSN("not a dsn"))
}
