package entity

import "time"

// Client representa un cliente de la óptica.
// DNI es opcional pero único por óptica cuando está presente (índice parcial).
// DeletedAt no nulo = baja lógica; la fila nunca se borra físicamente.
type Client struct {
	ID        string
	OpticID   string
	DNI       *string
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// FullName nombre completo para mostrar en ventas y listados.
func (c *Client) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
