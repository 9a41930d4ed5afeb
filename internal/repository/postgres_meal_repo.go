package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/mealman/internal/model"
)

// PostgresMealRepo はPostgreSQLを使用した食事イベントリポジトリ。
type PostgresMealRepo struct {
	db *sql.DB
}

// NewPostgresMealRepo はPostgresMealRepoを生成する。
func NewPostgresMealRepo(db *sql.DB) *PostgresMealRepo {
	return &PostgresMealRepo{db: db}
}

// Create は食事イベントを作成する。
// 単一のINSERT文（autocommit）のため、呼び出しが返った時点で永続化されている。
// IDはBIGSERIALで単調に採番され、event.IDに書き戻す。
func (r *PostgresMealRepo) Create(ctx context.Context, event *model.MealEvent) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO meals (ate, timestamp)
		 VALUES ($1, $2)
		 RETURNING id`,
		event.Ate, event.Timestamp,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to create meal event: %w", err)
	}
	return nil
}

// FindLatest は最新の食事イベントを取得する。1件もない場合はnilを返す。
// 同時刻のレコードはidの大きい方を新しいとみなす。
func (r *PostgresMealRepo) FindLatest(ctx context.Context) (*model.MealEvent, error) {
	event := &model.MealEvent{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, ate, timestamp
		 FROM meals
		 ORDER BY timestamp DESC, id DESC
		 LIMIT 1`,
	).Scan(&event.ID, &event.Ate, &event.Timestamp)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest meal event: %w", err)
	}

	return event, nil
}

// ListRecent は新しい順にlimit件までの食事イベントを返す。
func (r *PostgresMealRepo) ListRecent(ctx context.Context, limit int) ([]*model.MealEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, ate, timestamp
		 FROM meals
		 ORDER BY timestamp DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent meal events: %w", err)
	}
	defer rows.Close()

	var events []*model.MealEvent
	for rows.Next() {
		event := &model.MealEvent{}
		if err := rows.Scan(&event.ID, &event.Ate, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan meal event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal events: %w", err)
	}

	return events, nil
}

// DeleteByID は指定IDの食事イベントを削除する。
// 該当レコードがない場合はfalseを返す。
func (r *PostgresMealRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM meals WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete meal event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected > 0, nil
}

// compile-time interface check
var _ MealRepository = (*PostgresMealRepo)(nil)
