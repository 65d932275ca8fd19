package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/optica-suite/internal/domain/entity"
	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

var _ repository.DeletionLogRepository = (*DeletionLogRepo)(nil)

// DeletionLogRepo implementación de DeletionLogRepository (usable con pool o tx).
// La tabla es append-only: nunca hay UPDATE ni DELETE sobre ella.
type DeletionLogRepo struct {
	q Querier
}

// NewDeletionLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeletionLogRepository(q Querier) *DeletionLogRepo {
	return &DeletionLogRepo{q: q}
}

// Create persiste una fila de auditoría con el snapshot de la entidad eliminada.
func (r *DeletionLogRepo) Create(log *entity.DeletionLog) error {
	query := `
		INSERT INTO deletion_logs (id, table_name, record_id, deleted_by, deleted_data, reason, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, log.TableName, log.RecordID, log.DeletedBy, log.DeletedData, log.Reason, log.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert deletion log: %w", err)
	}
	return nil
}

// ListByTable lista la bitácora de una tabla, más reciente primero.
func (r *DeletionLogRepo) ListByTable(tableName string, limit, offset int) ([]*entity.DeletionLog, error) {
	query := `
		SELECT id, table_name, record_id, deleted_by, deleted_data, reason, deleted_at
		FROM deletion_logs WHERE table_name = $1
		ORDER BY deleted_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, tableName, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list deletion logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.DeletionLog
	for rows.Next() {
		var l entity.DeletionLog
		if err := rows.Scan(&l.ID, &l.TableName, &l.RecordID, &l.DeletedBy, &l.DeletedData, &l.Reason, &l.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan deletion log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
