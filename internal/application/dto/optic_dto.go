package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpticResponse óptica en respuestas.
type OpticResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateOpticRequest entrada para actualizar los datos de una óptica; nil = sin cambio.
type UpdateOpticRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

// OpticListResponse lista paginada de ópticas (solo admin).
type OpticListResponse struct {
	Items []OpticResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// OpticStatsResponse números del dashboard de la óptica.
type OpticStatsResponse struct {
	ActiveClients    int             `json:"active_clients"`
	ActiveProducts   int             `json:"active_products"`
	LowStockProducts int             `json:"low_stock_products"`
	SalesThisMonth   int             `json:"sales_this_month"`
	RevenueThisMonth decimal.Decimal `json:"revenue_this_month"`
}
