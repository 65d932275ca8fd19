package entity

import (
	"encoding/json"
	"time"
)

// DeletionLog fila de auditoría escrita junto con cada baja lógica, en la misma
// transacción. DeletedData guarda un snapshot JSON completo de la entidad.
type DeletionLog struct {
	ID          string
	TableName   string
	RecordID    string
	DeletedBy   string
	DeletedData json.RawMessage
	Reason      string
	DeletedAt   time.Time
}
