package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Optic representa una óptica (tenant del sistema). Toda entidad de negocio
// cuelga de una Optic vía optic_id; es la unidad de aislamiento de datos.
// Se crea al aprobar una solicitud de registro y nunca se elimina físicamente.
type Optic struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OpticStats números agregados del dashboard de una óptica.
type OpticStats struct {
	ActiveClients    int
	ActiveProducts   int
	LowStockProducts int // productos activos con stock por debajo del umbral
	SalesThisMonth   int
	RevenueThisMonth decimal.Decimal
}
