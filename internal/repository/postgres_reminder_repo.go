package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/mealman/internal/model"
)

// PostgresReminderRepo はPostgreSQLを使用したリマインダー監査レコードリポジトリ。
type PostgresReminderRepo struct {
	db *sql.DB
}

// NewPostgresReminderRepo はPostgresReminderRepoを生成する。
func NewPostgresReminderRepo(db *sql.DB) *PostgresReminderRepo {
	return &PostgresReminderRepo{db: db}
}

// Create はリマインダーの監査レコードを作成する。
func (r *PostgresReminderRepo) Create(ctx context.Context, reminder *model.Reminder) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (id, message, caller_key, sent_at)
		 VALUES ($1, $2, $3, $4)`,
		reminder.ID, reminder.Message, reminder.CallerKey, reminder.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder record: %w", err)
	}
	return nil
}

// ListRecent は新しい順にlimit件までの監査レコードを返す。
func (r *PostgresReminderRepo) ListRecent(ctx context.Context, limit int) ([]*model.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, message, caller_key, sent_at
		 FROM reminders
		 ORDER BY sent_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*model.Reminder
	for rows.Next() {
		reminder := &model.Reminder{}
		if err := rows.Scan(&reminder.ID, &reminder.Message, &reminder.CallerKey, &reminder.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}

	return reminders, nil
}

// compile-time interface check
var _ ReminderRepository = (*PostgresReminderRepo)(nil)
