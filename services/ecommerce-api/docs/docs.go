// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/main.go -o docs (from services/ecommerce-api).
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/health": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"health"
				],
				"summary": "Liveness check",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"/customers": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"customers"
				],
				"summary": "List customers",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/views.CustomerResponse"
							}
						}
					}
				}
			},
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"customers"
				],
				"summary": "Create a customer",
				"parameters": [
					{
						"description": "Customer",
						"name": "customer",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/views.CustomerRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/common.APIResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					}
				}
			}
		},
		"/customers/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"customers"
				],
				"summary": "Get a customer",
				"parameters": [
					{
						"type": "integer",
						"description": "Customer ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/views.CustomerResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					}
				}
			},
			"put": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"customers"
				],
				"summary": "Update a customer",
				"parameters": [
					{
						"type": "integer",
						"description": "Customer ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Customer",
						"name": "customer",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/views.CustomerRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.APIResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"customers"
				],
				"summary": "Delete a customer",
				"parameters": [
					{
						"type": "integer",
						"description": "Customer ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.APIResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					}
				}
			}
		},
		"/products": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"products"
				],
				"summary": "List products",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/views.ProductResponse"
							}
						}
					}
				}
			},
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"products"
				],
				"summary": "Create a product",
				"parameters": [
					{
						"description": "Product",
						"name": "product",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/views.ProductRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/common.APIResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					}
				}
			}
		},
		"/products/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"products"
				],
				"summary": "Get a product",
				"parameters": [
					{
						"type": "integer",
						"description": "Product ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/views.ProductResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					}
				}
			},
			"put": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"products"
				],
				"summary": "Update a product",
				"parameters": [
					{
						"type": "integer",
						"description": "Product ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Product",
						"name": "product",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/views.ProductRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.APIResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"products"
				],
				"summary": "Delete a product",
				"parameters": [
					{
						"type": "integer",
						"description": "Product ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.APIResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					}
				}
			}
		},
		"/customeraccounts": {
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"customeraccounts"
				],
				"summary": "Create a customer account",
				"parameters": [
					{
						"description": "Account",
						"name": "account",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/views.CreateAccountRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/common.APIResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					}
				}
			}
		},
		"/customeraccounts/{customerId}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"customeraccounts"
				],
				"summary": "Get a customer's account",
				"parameters": [
					{
						"type": "integer",
						"description": "Customer ID",
						"name": "customerId",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/views.AccountResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					}
				}
			},
			"put": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"customeraccounts"
				],
				"summary": "Update a customer's account",
				"parameters": [
					{
						"type": "integer",
						"description": "Customer ID",
						"name": "customerId",
						"in": "path",
						"required": true
					},
					{
						"description": "Account",
						"name": "account",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/views.UpdateAccountRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.APIResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"customeraccounts"
				],
				"summary": "Delete a customer's account",
				"parameters": [
					{
						"type": "integer",
						"description": "Customer ID",
						"name": "customerId",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.APIResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					}
				}
			}
		},
		"/orders": {
			"post": {
				"description": "Links the requested products that exist; unknown product ids are skipped.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Create an order",
				"parameters": [
					{
						"description": "Order",
						"name": "order",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/views.OrderRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/common.APIResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					}
				}
			}
		},
		"/orders/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Get an order with its products",
				"parameters": [
					{
						"type": "integer",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/views.OrderDetailsResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/pkg.ErrorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"common.APIResponse": {
			"type": "object",
			"properties": {
				"data": {},
				"message": {
					"type": "string"
				}
			}
		},
		"pkg.ErrorResponse": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"details": {
					"type": "string"
				},
				"error": {
					"type": "string"
				}
			}
		},
		"views.AccountResponse": {
			"type": "object",
			"properties": {
				"customer": {
					"$ref": "#/definitions/views.CustomerResponse"
				},
				"customer_id": {
					"type": "integer"
				},
				"id": {
					"type": "integer"
				},
				"username": {
					"type": "string"
				}
			}
		},
		"views.CreateAccountRequest": {
			"type": "object",
			"required": [
				"customer_id",
				"password",
				"username"
			],
			"properties": {
				"customer_id": {
					"type": "integer",
					"minimum": 1
				},
				"password": {
					"type": "string",
					"maxLength": 72
				},
				"username": {
					"type": "string",
					"maxLength": 255
				}
			}
		},
		"views.CustomerRequest": {
			"type": "object",
			"required": [
				"email",
				"name",
				"phone"
			],
			"properties": {
				"email": {
					"type": "string",
					"maxLength": 320
				},
				"name": {
					"type": "string",
					"maxLength": 255
				},
				"phone": {
					"type": "string",
					"maxLength": 15
				}
			}
		},
		"views.CustomerResponse": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				}
			}
		},
		"views.OrderDetailsResponse": {
			"type": "object",
			"properties": {
				"order": {
					"$ref": "#/definitions/views.OrderResponse"
				},
				"products": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/views.ProductResponse"
					}
				}
			}
		},
		"views.OrderRequest": {
			"type": "object",
			"required": [
				"customer_id",
				"product_ids"
			],
			"properties": {
				"customer_id": {
					"type": "integer",
					"minimum": 1
				},
				"product_ids": {
					"type": "array",
					"items": {
						"type": "integer"
					}
				}
			}
		},
		"views.OrderResponse": {
			"type": "object",
			"properties": {
				"customer_id": {
					"type": "integer"
				},
				"date": {
					"type": "string"
				},
				"id": {
					"type": "integer"
				},
				"product_ids": {
					"type": "array",
					"items": {
						"type": "integer"
					}
				}
			}
		},
		"views.ProductRequest": {
			"type": "object",
			"required": [
				"name",
				"price"
			],
			"properties": {
				"name": {
					"type": "string",
					"maxLength": 255
				},
				"price": {
					"type": "number",
					"minimum": 0
				}
			}
		},
		"views.ProductResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				},
				"price": {
					"type": "number"
				}
			}
		},
		"views.UpdateAccountRequest": {
			"type": "object",
			"required": [
				"password",
				"username"
			],
			"properties": {
				"password": {
					"type": "string",
					"maxLength": 72
				},
				"username": {
					"type": "string",
					"maxLength": 255
				}
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "E-commerce Data API",
	Description:      "CRUD for customers, customer accounts and products, plus order creation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
