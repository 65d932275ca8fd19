package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Model       string          `json:"model"`
	Color       string          `json:"color"`
	Size        string          `json:"size"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock_quantity"`
	ImageURL    string          `json:"image_url"`
	Description string          `json:"description"`
}

// UpdateProductRequest entrada para actualizar un producto; nil = sin cambio.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Brand       *string          `json:"brand"`
	Model       *string          `json:"model"`
	Color       *string          `json:"color"`
	Size        *string          `json:"size"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock_quantity"`
	ImageURL    *string          `json:"image_url"`
	Description *string          `json:"description"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID          string          `json:"id"`
	OpticID     string          `json:"optic_id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand,omitempty"`
	Model       string          `json:"model,omitempty"`
	Color       string          `json:"color,omitempty"`
	Size        string          `json:"size,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock_quantity"`
	ImageURL    string          `json:"image_url,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
