package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold umbral por debajo del cual un producto cuenta como "stock bajo"
// en el dashboard.
const LowStockThreshold = 5

// Product representa un artículo del catálogo de la óptica (monturas, lentes, etc.).
// Stock nunca puede quedar negativo como resultado de una venta; el descuento se
// hace dentro de una transacción con bloqueo de fila.
type Product struct {
	ID          string
	OpticID     string
	Name        string
	Brand       string
	Model       string
	Color       string
	Size        string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}
