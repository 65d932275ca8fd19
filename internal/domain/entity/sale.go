package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Prescription valores optométricos de un ojo: esfera, cilindro, eje y adición.
// Todos opcionales; el eje se expresa en grados enteros (0-180).
type Prescription struct {
	Sphere   *decimal.Decimal
	Cylinder *decimal.Decimal
	Axis     *int
	Addition *decimal.Decimal
}

// Empty indica si no hay ningún valor cargado.
func (p Prescription) Empty() bool {
	return p.Sphere == nil && p.Cylinder == nil && p.Axis == nil && p.Addition == nil
}

// Sale cabecera de una venta. Referencia un Client registrado (ClientID) o un
// cliente de paso vía UnregisteredClientName (mutuamente excluyentes).
// TotalAmount siempre se deriva de la suma de las líneas; nunca lo fija el caller.
type Sale struct {
	ID                     string
	OpticID                string
	ClientID               *string
	UnregisteredClientName string
	ClientName             string // resuelto vía JOIN con clients; no es columna propia
	TotalAmount            decimal.Decimal
	SaleDate               time.Time
	Notes                  string

	// Receta a nivel de venta: ojo derecho (OD) y ojo izquierdo (OI).
	PrescriptionOD Prescription
	PrescriptionOI Prescription

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time

	Items []*SaleItem
}

// SaleItem línea de una venta. ProductID nulo = producto no registrado,
// identificado solo por UnregisteredProductName. TotalPrice = Quantity × UnitPrice.
// LineNo preserva el orden en que el caller envió las líneas.
type SaleItem struct {
	ID                      string
	SaleID                  string
	LineNo                  int
	ProductID               *string
	UnregisteredProductName string
	ProductName             string // resuelto vía JOIN con products; no es columna propia
	Quantity                int
	UnitPrice               decimal.Decimal
	TotalPrice              decimal.Decimal
	Notes                   string

	// Receta opcional por línea (ej. lentes con fórmulas distintas en una misma venta).
	PrescriptionOD Prescription
	PrescriptionOI Prescription
}

// DisplayName nombre a mostrar de la línea: el del producto registrado si existe.
func (i *SaleItem) DisplayName() string {
	if i.ProductName != "" {
		return i.ProductName
	}
	return i.UnregisteredProductName
}
