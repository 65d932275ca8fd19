package repository

import "github.com/jhoicas/optica-suite/internal/domain/entity"

// DeletionLogRepository puerto de la bitácora de eliminaciones (append-only).
type DeletionLogRepository interface {
	Create(log *entity.DeletionLog) error
	ListByTable(tableName string, limit, offset int) ([]*entity.DeletionLog, error)
}
