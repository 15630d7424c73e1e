package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edudocs-api/internal/models"
)

var batchTables = map[models.RecordKind]string{
	models.KindRequest:       "requests",
	models.KindPasswordReset: "password_resets",
}

// BatchRepository applies delete and hide operations across record kinds.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository constructs a BatchRepository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// ApplyBatch executes ops in a single transaction. Operations on rows that no longer
// exist are skipped; hiding is idempotent.
func (r *BatchRepository) ApplyBatch(ctx context.Context, ops []models.BatchOp) error {
	if len(ops) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	for _, op := range ops {
		query, args, err := batchStatement(op)
		if err != nil {
			tx.Rollback() //nolint:errcheck
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("apply %s on %s %s: %w", op.Type, op.Kind, op.RecordID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func batchStatement(op models.BatchOp) (string, []interface{}, error) {
	table, ok := batchTables[op.Kind]
	if !ok {
		return "", nil, fmt.Errorf("unknown record kind %q", op.Kind)
	}
	switch op.Type {
	case models.BatchOpDelete:
		return fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), []interface{}{op.RecordID}, nil
	case models.BatchOpHide:
		if op.UserID == "" {
			return "", nil, fmt.Errorf("hide on %s requires a user", op.RecordID)
		}
		return fmt.Sprintf(`UPDATE %s SET hidden_from_users = array_append(hidden_from_users, $2) WHERE id = $1 AND NOT ($2 = ANY(hidden_from_users))`, table), []interface{}{op.RecordID, op.UserID}, nil
	case models.BatchOpDashboardHide:
		return fmt.Sprintf(`UPDATE %s SET dashboard_hidden = TRUE WHERE id = $1`, table), []interface{}{op.RecordID}, nil
	default:
		return "", nil, fmt.Errorf("unknown batch operation %q", op.Type)
	}
}
