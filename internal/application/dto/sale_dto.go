package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PrescriptionDTO valores optométricos de un ojo (esfera, cilindro, eje, adición).
type PrescriptionDTO struct {
	Sphere   *decimal.Decimal `json:"sphere,omitempty"`
	Cylinder *decimal.Decimal `json:"cylinder,omitempty"`
	Axis     *int             `json:"axis,omitempty"`
	Addition *decimal.Decimal `json:"addition,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
// ClientID y UnregisteredClientName son mutuamente excluyentes; ambos vacíos = venta anónima.
// El total de la venta NO se recibe: siempre se deriva de las líneas.
type CreateSaleRequest struct {
	ClientID               string            `json:"client_id"`
	UnregisteredClientName string            `json:"unregistered_client_name"`
	SaleDate               *time.Time        `json:"sale_date"`
	Notes                  string            `json:"notes"`
	PrescriptionOD         *PrescriptionDTO  `json:"prescription_od"`
	PrescriptionOI         *PrescriptionDTO  `json:"prescription_oi"`
	Items                  []SaleItemRequest `json:"items"`
}

// SaleItemRequest línea de venta. ProductID y UnregisteredProductName son mutuamente
// excluyentes. UnitPrice nil con producto registrado = usar el precio del catálogo;
// con producto no registrado es obligatorio.
type SaleItemRequest struct {
	ProductID               string           `json:"product_id"`
	UnregisteredProductName string           `json:"unregistered_product_name"`
	Quantity                int              `json:"quantity"`
	UnitPrice               *decimal.Decimal `json:"unit_price"`
	Notes                   string           `json:"notes"`
	PrescriptionOD          *PrescriptionDTO `json:"prescription_od"`
	PrescriptionOI          *PrescriptionDTO `json:"prescription_oi"`
}

// SaleResponse venta con líneas para respuestas.
type SaleResponse struct {
	ID                     string             `json:"id"`
	OpticID                string             `json:"optic_id"`
	ClientID               *string            `json:"client_id"`
	UnregisteredClientName string             `json:"unregistered_client_name,omitempty"`
	ClientName             string             `json:"client_name,omitempty"`
	TotalAmount            decimal.Decimal    `json:"total_amount"`
	SaleDate               time.Time          `json:"sale_date"`
	Notes                  string             `json:"notes,omitempty"`
	PrescriptionOD         *PrescriptionDTO   `json:"prescription_od,omitempty"`
	PrescriptionOI         *PrescriptionDTO   `json:"prescription_oi,omitempty"`
	Items                  []SaleItemResponse `json:"items"`
	CreatedAt              time.Time          `json:"created_at"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ID                      string           `json:"id"`
	ProductID               *string          `json:"product_id"`
	UnregisteredProductName string           `json:"unregistered_product_name,omitempty"`
	ProductName             string           `json:"product_name,omitempty"`
	Quantity                int              `json:"quantity"`
	UnitPrice               decimal.Decimal  `json:"unit_price"`
	TotalPrice              decimal.Decimal  `json:"total_price"`
	Notes                   string           `json:"notes,omitempty"`
	PrescriptionOD          *PrescriptionDTO `json:"prescription_od,omitempty"`
	PrescriptionOI          *PrescriptionDTO `json:"prescription_oi,omitempty"`
}

// SaleListResponse lista paginada de ventas (solo cabeceras).
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
