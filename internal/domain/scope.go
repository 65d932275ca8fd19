package domain

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Scope delimita el acceso a datos de un caller autenticado.
// Admin ve todas las ópticas; un usuario normal solo la suya. Los repositorios
// reciben el Scope y aplican (o no) el filtro por optic_id en cada query, en
// lugar de repetir la comprobación de rol en cada ruta.
type Scope struct {
	OpticID string
	Admin   bool
}

// ScopeFor construye el Scope de un caller según su rol.
func ScopeFor(opticID, role string) Scope {
	return Scope{OpticID: opticID, Admin: role == RoleAdmin}
}

// CanAccess indica si el scope permite tocar datos de la óptica dada.
func (s Scope) CanAccess(opticID string) bool {
	return s.Admin || s.OpticID == opticID
}
