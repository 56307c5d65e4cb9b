package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"curtaincall/internal/models"
)

type CommandSQLite struct {
	db *sql.DB
}

func NewCommandSQLite(db *sql.DB) *CommandSQLite { return &CommandSQLite{db: db} }

var _ CommandRepo = (*CommandSQLite)(nil)

const (
	supersedePendingSQL = `
		UPDATE command_queue SET status = 'SUPERSEDED', executed_at = ?
		WHERE status = 'PENDING'
	`

	insertCommandSQL = `
		INSERT INTO command_queue (action, speed, target_position, source, reason, status, created_at)
		VALUES (?, ?, ?, ?, ?, 'PENDING', ?)
	`

	selectNewestPendingSQL = `
		SELECT id, action, speed, target_position, source, reason, status, created_at
		FROM command_queue WHERE status = 'PENDING'
		ORDER BY id DESC LIMIT 1
	`

	retirePendingSQL = `
		UPDATE command_queue SET status = 'EXECUTED', executed_at = ?
		WHERE status = 'PENDING'
	`
)

// SubmitPending supersedes every still-pending command and inserts cmd as the
// new single PENDING row. Both writes happen inside one transaction so two
// concurrent submits cannot leave two pending rows behind.
func (r *CommandSQLite) SubmitPending(ctx context.Context, cmd models.Command) (int64, error) {
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin submit transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, supersedePendingSQL, now); err != nil {
		return 0, fmt.Errorf("supersede pending commands: %w", err)
	}

	createdAt := cmd.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	} else {
		createdAt = createdAt.UTC()
	}

	res, err := tx.ExecContext(ctx, insertCommandSQL,
		cmd.Action,
		cmd.Speed,
		cmd.TargetPosition,
		cmd.Source,
		cmd.Reason,
		createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert command: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get command id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit submit transaction: %w", err)
	}
	return id, nil
}

// ClaimNext picks the newest pending command and retires every pending row as
// EXECUTED in the same transaction. With supersession in SubmitPending there
// should only ever be one pending row; extras are retired silently so two rows
// can never be delivered (and two concurrent polls cannot claim the same row).
func (r *CommandSQLite) ClaimNext(ctx context.Context) (*models.Command, error) {
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin claim transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var cmd models.Command
	row := tx.QueryRowContext(ctx, selectNewestPendingSQL)
	err = row.Scan(
		&cmd.ID,
		&cmd.Action,
		&cmd.Speed,
		&cmd.TargetPosition,
		&cmd.Source,
		&cmd.Reason,
		&cmd.Status,
		&cmd.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		// Nothing pending; the empty transaction still has to end.
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit empty claim transaction: %w", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select pending command: %w", err)
	}

	if _, err := tx.ExecContext(ctx, retirePendingSQL, now); err != nil {
		return nil, fmt.Errorf("retire pending commands: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit claim transaction: %w", err)
	}

	cmd.Status = models.StatusExecuted
	cmd.CreatedAt = cmd.CreatedAt.UTC()
	cmd.ExecutedAt = &now
	return &cmd, nil
}
